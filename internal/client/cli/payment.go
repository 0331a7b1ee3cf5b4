package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/timecapsule/internal/pricing"
	"github.com/dmitrijs2005/timecapsule/internal/wizard"
)

var termNames = map[string]wizard.Term{
	"service": wizard.TermService,
	"privacy": wizard.TermPrivacy,
	"payment": wizard.TermPaymentPolicy,
}

// Agree accepts one term, or every term with "all". A leading "no" revokes.
func (a *App) Agree(ctx context.Context, args []string) error {
	v := true
	if len(args) > 0 && args[0] == "no" {
		v, args = false, args[1:]
	}
	if len(args) != 1 {
		return usage("agree [no] all|service|privacy|payment")
	}

	var err error
	if args[0] == "all" {
		err = a.wizard.AgreeAll(v)
	} else if t, ok := termNames[args[0]]; ok {
		err = a.wizard.Agree(t, v)
	} else {
		return usage("agree [no] all|service|privacy|payment")
	}
	if err != nil {
		return err
	}
	return a.Show(ctx, nil)
}

// Pay creates the order and prints the Kakao Pay page to open. The pg_token
// from the redirect is passed to approve.
func (a *App) Pay(ctx context.Context, _ []string) error {
	pay, err := a.wizard.Checkout(ctx)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Order %s: %s", pay.OrderID, pricing.FormatWon(pay.Total)))
	printlnFn("Open this page to pay:", pay.RedirectURL)
	printlnFn("Then run: approve <pg_token>")
	return nil
}

func (a *App) Approve(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("approve <pg_token>")
	}
	if err := a.wizard.Approve(ctx, args[0]); err != nil {
		return err
	}
	if a.draftID != "" {
		if err := a.draftService.Delete(ctx, a.draftID); err != nil {
			a.log.Warn(ctx, "draft not deleted", "id", a.draftID, "error", err)
		}
		a.draftID = ""
	}
	printlnFn("Payment approved.")
	if err := a.wizard.LastError(); err != nil {
		printlnFn("Room not loaded yet:", message(err), "(run refresh)")
		return nil
	}
	return a.Show(ctx, nil)
}

func (a *App) showPayment() {
	sum, err := a.wizard.Summary()
	if err != nil {
		return
	}
	printlnFn("Order summary")
	for _, it := range sum.Items {
		printlnFn(fmt.Sprintf("  %-10s %-28s %12s", it.Label, it.Detail, pricing.FormatWon(it.Price)))
	}
	printlnFn(fmt.Sprintf("  %-39s %12s", "Total (estimate)", pricing.FormatWon(sum.Total)))

	terms := a.wizard.Terms()
	for _, t := range wizard.AllTerms() {
		mark := " "
		if terms.Accepted(t) {
			mark = "x"
		}
		printlnFn(fmt.Sprintf("  [%s] %s", mark, t))
	}
	if pay, ok := a.wizard.Payment(); ok {
		printlnFn(fmt.Sprintf("Order %s started: %s", pay.OrderID, pricing.FormatWon(pay.Total)))
	}
	if err := a.wizard.LastError(); err != nil {
		printlnFn("Last error:", message(err))
	}
}
