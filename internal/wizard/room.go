package wizard

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/timecapsule/internal/client/client"
)

// Room returns a copy of the room; ok is false before ROOM.
func (w *Wizard) Room() (client.Room, bool) {
	if w.step != StepRoom || w.room == nil {
		return client.Room{}, false
	}
	r := *w.room
	r.Participants = slices.Clone(r.Participants)
	return r, true
}

// Refresh reloads participant status.
func (w *Wizard) Refresh(ctx context.Context) error {
	if w.step != StepRoom {
		return ErrWrongStep
	}
	room, err := w.gateway.GetRoom(ctx, w.room.ID)
	if err != nil {
		return w.fail(err)
	}
	w.room = room
	w.lastErr = nil
	return nil
}

// CanFinalize is true for the host once every participant has completed.
func (w *Wizard) CanFinalize() bool {
	return w.finalizeBlocker() == nil
}

func (w *Wizard) finalizeBlocker() error {
	switch {
	case w.step != StepRoom:
		return ErrWrongStep
	case w.room.Finalized:
		return ErrAlreadyFinalized
	case !w.room.IsHost:
		return ErrNotHost
	case !w.room.AllCompleted():
		return ErrParticipantsPending
	}
	return nil
}

func (w *Wizard) Finalize(ctx context.Context) error {
	if err := w.finalizeBlocker(); err != nil {
		return err
	}
	room, err := w.gateway.FinalizeRoom(ctx, w.room.ID)
	if err != nil {
		return w.fail(err)
	}
	w.room = room
	w.lastErr = nil
	return nil
}
