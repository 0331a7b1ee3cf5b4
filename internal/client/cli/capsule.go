package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/client/services"
)

// Drafts lists saved drafts, newest first.
func (a *App) Drafts(ctx context.Context, _ []string) error {
	list, err := a.draftService.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No drafts.")
		return nil
	}
	for _, d := range list {
		printlnFn(fmt.Sprintf("  %s  %-30s %s", d.ID, d.Name, d.UpdatedAt.Local().Format(time.DateTime)))
	}
	return nil
}

// Resume loads a draft into a fresh wizard on INFO.
func (a *App) Resume(ctx context.Context, args []string) error {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	d, err := a.draftService.Restore(ctx, id)
	if err != nil {
		return err
	}
	a.startWizard(&d.Snapshot)
	a.draftID = d.ID
	printlnFn("Resumed", d.Name)
	return a.Show(ctx, nil)
}

// Direct creates a capsule from the uploaded media of the current form
// without going through payment.
func (a *App) Direct(ctx context.Context, args []string) error {
	var opts services.DirectOptions
	if len(args) > 0 {
		n, err := intArg(args[:1], "direct [view_limit]")
		if err != nil {
			return err
		}
		opts.ViewLimit = &n
	}
	resp, err := a.capsuleService.CreateDirect(ctx, a.wizard.Form(), opts)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Capsule %s created, opens %s.", resp.ID, resp.OpenAt.Local().Format(time.DateOnly)))
	return nil
}

func (a *App) MediaURL(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("url <media_id>")
	}
	url, err := a.capsuleService.MediaURL(ctx, args[0])
	if err != nil {
		return err
	}
	printlnFn(url)
	return nil
}

func (a *App) History(ctx context.Context, _ []string) error {
	recs, err := a.capsuleService.History(ctx)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		printlnFn("No uploads yet.")
		return nil
	}
	for _, r := range recs {
		printlnFn(fmt.Sprintf("  %s  %-6s %-12s %8d  %s", r.CreatedAt.Local().Format(time.DateTime), r.Category, r.ContentType, r.Size, r.MediaID))
	}
	return nil
}
