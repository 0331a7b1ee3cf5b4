package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExitWizard is returned by Back on the first step; the caller should
	// leave the flow.
	ErrExitWizard          = errors.New("exit wizard")
	ErrWrongStep           = errors.New("action not available on this step")
	ErrInvalidForm         = errors.New("form is incomplete")
	ErrTermsNotAccepted    = errors.New("all terms must be accepted")
	ErrPaymentNotReady     = errors.New("payment was not started")
	ErrNotHost             = errors.New("only the host can finalize")
	ErrParticipantsPending = errors.New("not every participant has completed")
	ErrAlreadyFinalized    = errors.New("room is already finalized")
)

type Field string

const (
	FieldName        Field = "name"
	FieldContent     Field = "content"
	FieldDate        Field = "date"
	FieldAttachments Field = "attachments"
)

type FieldError struct {
	Field   Field
	Message string
}

// FormError lists every problem that blocks leaving INFO. It matches
// ErrInvalidForm.
type FormError struct {
	Fields []FieldError
}

func (e *FormError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (e *FormError) Is(target error) bool {
	return target == ErrInvalidForm
}

// Has reports whether field has a problem.
func (e *FormError) Has(field Field) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
