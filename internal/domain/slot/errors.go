package slot

import "slot-engine/internal/pkg/errs"

var (
	ErrNotAvailable      = errs.New("slot is not available")
	ErrInvalidTransition = errs.New("invalid slot status transition")
	ErrInvalidWindow     = errs.New("invalid slot window")
	ErrInvalidResource   = errs.New("invalid resource reference")
	ErrInvalidStatus     = errs.New("invalid slot status")
	ErrOverlap           = errs.New("slot overlaps an existing slot for the same resource")
	ErrInvalidPrice      = errs.New("slot price cannot be negative")

	ErrInvalidReservationCode = errs.New("reservation code cannot be empty")
)
