package wizard

// Term is one checkbox on the payment step.
type Term int

const (
	TermService Term = iota
	TermPrivacy
	TermPaymentPolicy
	termCount
)

func (t Term) String() string {
	switch t {
	case TermService:
		return "terms of service"
	case TermPrivacy:
		return "privacy policy"
	case TermPaymentPolicy:
		return "payment and refund policy"
	}
	return "unknown term"
}

// AllTerms lists the terms in display order.
func AllTerms() []Term {
	return []Term{TermService, TermPrivacy, TermPaymentPolicy}
}

// Terms holds the individual agreements. "Agree to all" has no state of its
// own: AllAgreed is derived and AgreeAll just sets every box.
type Terms struct {
	accepted [termCount]bool
}

func (t Terms) Accepted(term Term) bool {
	if term < 0 || term >= termCount {
		return false
	}
	return t.accepted[term]
}

func (t *Terms) Set(term Term, v bool) {
	if term < 0 || term >= termCount {
		return
	}
	t.accepted[term] = v
}

func (t *Terms) AgreeAll(v bool) {
	for i := range t.accepted {
		t.accepted[i] = v
	}
}

func (t Terms) AllAgreed() bool {
	for _, v := range t.accepted {
		if !v {
			return false
		}
	}
	return true
}
