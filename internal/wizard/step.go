// Package wizard is the capsule creation flow INFO -> PAYMENT -> ROOM.
//
// A Wizard is owned by one caller and is not safe for concurrent use. The
// INFO step edits a mutable form; Next freezes it into a snapshot that the
// PAYMENT step reads but never changes. Backend failures leave the current
// step intact and are kept in LastError. ROOM is terminal.
package wizard

import "fmt"

type Step int

const (
	StepInfo Step = iota
	StepPayment
	StepRoom
)

func (s Step) String() string {
	switch s {
	case StepInfo:
		return "INFO"
	case StepPayment:
		return "PAYMENT"
	case StepRoom:
		return "ROOM"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}
