package commands

import (
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/infra"
	"slot-engine/internal/pkg/errs"
)

var (
	ErrSlotNotFound            = errs.New("slot not found")
	ErrResourceNotFound        = errs.New("bookable resource not found")
	ErrProfessionalNotFound    = errs.New("professional not found")
	ErrSubscriptionNotFound    = errs.New("subscription not found")
	ErrAlreadySubscribed       = errs.New("already subscribed to this slot")
	ErrSlotStillAvailable      = errs.New("slot is still available")
	ErrHoldExpired             = errs.New("hold expired before confirmation")
	ErrHoldMarkerFailed        = errs.New("failed to record hold marker")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// translateRepoErr maps repository failures onto command errors. Domain and
// command errors pass through untouched.
func translateRepoErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, notFound)
	case infra.IsKind(err, infra.KindExclusionViolated):
		return errs.Mark(err, slot.ErrOverlap)
	case infra.IsKind(err, infra.KindDBFailure),
		infra.IsKind(err, infra.KindConflict),
		infra.IsKind(err, infra.KindDuplicateKey),
		infra.IsKind(err, infra.KindForeignKeyViolated):
		return errs.Mark(err, ErrDatabaseOperationFailed)
	default:
		return err
	}
}
