package capsule

import "errors"

var (
	ErrCustomDateMissing = errors.New("custom open date is not set")
	ErrCustomDateInPast  = errors.New("custom open date must be in the future")
)
