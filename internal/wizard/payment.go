package wizard

import (
	"context"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/pricing"
)

// Payment is the state of a started checkout. Total is the amount the
// backend priced the order at; it is never taken from the local estimate.
type Payment struct {
	OrderID     string
	Total       int64
	TID         string
	RedirectURL string
}

// Snapshot is the frozen form; zero outside PAYMENT.
func (w *Wizard) Snapshot() capsule.Snapshot {
	return w.snapshot
}

// Summary projects the snapshot into order line items for display.
func (w *Wizard) Summary() (pricing.Summary, error) {
	if w.step != StepPayment {
		return pricing.Summary{}, ErrWrongStep
	}
	return pricing.Summarize(w.snapshot.Form(), w.table, w.snapshot.TakenAt()), nil
}

func (w *Wizard) Terms() Terms {
	return w.terms
}

func (w *Wizard) Agree(t Term, v bool) error {
	if w.step != StepPayment {
		return ErrWrongStep
	}
	w.terms.Set(t, v)
	return nil
}

func (w *Wizard) AgreeAll(v bool) error {
	if w.step != StepPayment {
		return ErrWrongStep
	}
	w.terms.AgreeAll(v)
	return nil
}

// CanSubmit reports whether the pay action is enabled.
func (w *Wizard) CanSubmit() bool {
	return w.step == StepPayment && w.terms.AllAgreed()
}

// Payment returns the started checkout, if any.
func (w *Wizard) Payment() (Payment, bool) {
	if w.payment == nil {
		return Payment{}, false
	}
	return *w.payment, true
}

// Checkout creates the order and starts Kakao Pay. An order created by an
// earlier attempt whose payment start failed is reused. On failure the
// wizard stays on PAYMENT and the error is kept in LastError.
func (w *Wizard) Checkout(ctx context.Context) (Payment, error) {
	if w.step != StepPayment {
		return Payment{}, ErrWrongStep
	}
	if !w.terms.AllAgreed() {
		return Payment{}, ErrTermsNotAccepted
	}

	pay := Payment{}
	if w.payment != nil {
		pay = *w.payment
	}

	if pay.OrderID == "" {
		req, err := client.NewOrderRequest(w.snapshot.Form(), w.now())
		if err != nil {
			return Payment{}, w.fail(err)
		}
		order, err := w.gateway.CreateOrder(ctx, req)
		if err != nil {
			return Payment{}, w.fail(err)
		}
		pay = Payment{OrderID: order.OrderID, Total: order.TotalPrice}
		w.payment = &pay
	}

	ready, err := w.gateway.KakaoReady(ctx, client.KakaoReadyRequest{OrderID: pay.OrderID})
	if err != nil {
		return Payment{}, w.fail(err)
	}
	pay.TID = ready.TID
	pay.RedirectURL = ready.RedirectURL
	w.payment = &pay
	w.lastErr = nil
	return pay, nil
}

// Approve confirms the payment with the token returned by the payment page
// and moves to ROOM. A failing approval keeps PAYMENT and the started
// checkout so the user can retry.
func (w *Wizard) Approve(ctx context.Context, pgToken string) error {
	if w.step != StepPayment {
		return ErrWrongStep
	}
	if w.payment == nil || w.payment.TID == "" {
		return ErrPaymentNotReady
	}

	res, err := w.gateway.KakaoApprove(ctx, client.KakaoApproveRequest{
		OrderID: w.payment.OrderID,
		TID:     w.payment.TID,
		PGToken: pgToken,
	})
	if err != nil {
		return w.fail(err)
	}
	if res.Amount != 0 {
		w.payment.Total = res.Amount
	}

	w.step = StepRoom
	w.lastErr = nil
	w.room = &client.Room{ID: res.RoomID}

	// Payment is captured at this point; a failed room load is retried with
	// Refresh and does not undo the transition.
	room, err := w.gateway.GetRoom(ctx, res.RoomID)
	if err != nil {
		w.lastErr = err
		return nil
	}
	w.room = room
	return nil
}

func (w *Wizard) fail(err error) error {
	w.lastErr = err
	return err
}
