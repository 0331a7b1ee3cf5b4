package wizard

import (
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/pricing"
)

type Wizard struct {
	gateway client.PaymentAPI
	limits  capsule.Limits
	table   pricing.Table
	now     func() time.Time

	step     Step
	form     capsule.FormData
	snapshot capsule.Snapshot
	terms    Terms
	payment  *Payment
	room     *client.Room
	lastErr  error
}

type Option func(*Wizard)

func WithLimits(l capsule.Limits) Option {
	return func(w *Wizard) { w.limits = l }
}

func WithPricing(t pricing.Table) Option {
	return func(w *Wizard) { w.table = t }
}

func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// New starts a wizard on INFO with a default form.
func New(gateway client.PaymentAPI, opts ...Option) *Wizard {
	w := &Wizard{
		gateway: gateway,
		limits:  capsule.DefaultLimits(),
		table:   pricing.DefaultTable(),
		now:     time.Now,
		step:    StepInfo,
	}
	for _, o := range opts {
		o(w)
	}
	w.form = capsule.DefaultFormData(w.limits)
	return w
}

// Resume starts a wizard on INFO hydrated from a saved snapshot.
func Resume(gateway client.PaymentAPI, snap capsule.Snapshot, opts ...Option) *Wizard {
	w := New(gateway, opts...)
	if !snap.IsZero() {
		w.form = w.normalize(snap.Form())
	}
	return w
}

func (w *Wizard) normalize(f capsule.FormData) capsule.FormData {
	f.Personnel = w.limits.ClampPersonnel(f.Personnel)
	f.Storage = w.limits.ClampStorage(f.Storage)
	if !f.DateOption.Valid() {
		f.DateOption = capsule.OpenInWeek
	}
	return f
}

func (w *Wizard) Step() Step {
	return w.step
}

// LastError is the most recent backend failure on the current step, or nil.
func (w *Wizard) LastError() error {
	return w.lastErr
}

// Estimate is the display-only price of the current form on INFO, or of the
// frozen snapshot afterwards.
func (w *Wizard) Estimate() pricing.Breakdown {
	if w.step == StepInfo {
		return pricing.Estimate(w.form, w.table, w.now())
	}
	return pricing.Estimate(w.snapshot.Form(), w.table, w.snapshot.TakenAt())
}

// Next freezes the form and moves INFO -> PAYMENT. An invalid form returns a
// *FormError and the step does not change.
func (w *Wizard) Next() (capsule.Snapshot, error) {
	if w.step != StepInfo {
		return capsule.Snapshot{}, ErrWrongStep
	}
	if err := w.Validate(); err != nil {
		return capsule.Snapshot{}, err
	}

	w.snapshot = capsule.Freeze(w.form, w.now())
	w.step = StepPayment
	w.terms = Terms{}
	w.payment = nil
	w.lastErr = nil
	return w.snapshot, nil
}

// Back moves PAYMENT -> INFO, making the frozen snapshot the editable form
// again. On INFO it returns ErrExitWizard. ROOM has no way back.
func (w *Wizard) Back() error {
	switch w.step {
	case StepInfo:
		return ErrExitWizard
	case StepPayment:
		w.form = w.snapshot.Form()
		w.snapshot = capsule.Snapshot{}
		w.terms = Terms{}
		w.payment = nil
		w.lastErr = nil
		w.step = StepInfo
		return nil
	}
	return ErrWrongStep
}
