package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/wizard"
)

func (a *App) Refresh(ctx context.Context, _ []string) error {
	if err := a.wizard.Refresh(ctx); err != nil {
		return err
	}
	return a.Show(ctx, nil)
}

func (a *App) Finalize(ctx context.Context, _ []string) error {
	if err := a.wizard.Finalize(ctx); err != nil {
		return err
	}
	printlnFn("Capsule sealed.")
	return a.Show(ctx, nil)
}

// Show prints the state of the current step.
func (a *App) Show(_ context.Context, _ []string) error {
	switch a.wizard.Step() {
	case wizard.StepInfo:
		a.showInfo()
	case wizard.StepPayment:
		a.showPayment()
	case wizard.StepRoom:
		a.showRoom()
	}
	return nil
}

func (a *App) showRoom() {
	room, ok := a.wizard.Room()
	if !ok {
		return
	}
	printlnFn(fmt.Sprintf("Room %s %s", room.ID, room.Name))
	if !room.OpenAt.IsZero() {
		printlnFn("Opens:", room.OpenAt.Local().Format(time.DateOnly))
	}
	for _, p := range room.Participants {
		printlnFn(fmt.Sprintf("  %-20s %s", p.Nickname, p.Status))
	}
	switch {
	case room.Finalized:
		printlnFn("Sealed.")
	case a.wizard.CanFinalize():
		printlnFn("Everyone is done. Run finalize to seal the capsule.")
	}
}
