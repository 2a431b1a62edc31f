package api

import (
	"net/http"

	"slot-engine/internal/domain/access"
	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/handler/httperr"
	"slot-engine/internal/pkg/errs"
	"slot-engine/internal/usecase/commands"
	"slot-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type errorStatus struct {
	target error
	status int
	code   string
}

// statusTable is matched in order; the first hit decides status and code.
var statusTable = []errorStatus{
	{access.ErrForbidden, http.StatusForbidden, "forbidden"},

	{commands.ErrSlotNotFound, http.StatusNotFound, "slot_not_found"},
	{commands.ErrResourceNotFound, http.StatusNotFound, "resource_not_found"},
	{commands.ErrProfessionalNotFound, http.StatusNotFound, "professional_not_found"},
	{commands.ErrSubscriptionNotFound, http.StatusNotFound, "subscription_not_found"},
	{queries.ErrSlotNotFound, http.StatusNotFound, "slot_not_found"},
	{queries.ErrProfessionalNotFound, http.StatusNotFound, "professional_not_found"},

	{slot.ErrNotAvailable, http.StatusConflict, "not_available"},
	{slot.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{slot.ErrOverlap, http.StatusConflict, "overlap"},
	{capacity.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
	{commands.ErrAlreadySubscribed, http.StatusConflict, "already_subscribed"},
	{commands.ErrSlotStillAvailable, http.StatusConflict, "slot_still_available"},
	{waitlist.ErrAlreadyUnsubscribed, http.StatusConflict, "already_unsubscribed"},

	{slot.ErrInvalidWindow, http.StatusUnprocessableEntity, "invalid_window"},
	{slot.ErrInvalidResource, http.StatusUnprocessableEntity, "invalid_resource"},
	{slot.ErrInvalidPrice, http.StatusUnprocessableEntity, "invalid_price"},
	{catalog.ErrServiceNotOffered, http.StatusUnprocessableEntity, "service_not_offered"},
	{catalog.ErrInactiveResource, http.StatusUnprocessableEntity, "inactive_resource"},
	{catalog.ErrBookingModeInvalid, http.StatusUnprocessableEntity, "booking_mode_invalid"},
	{waitlist.ErrInvalidCriteria, http.StatusUnprocessableEntity, "invalid_criteria"},
	{waitlist.ErrInvalidEmail, http.StatusUnprocessableEntity, "invalid_email"},
	{waitlist.ErrMissingTarget, http.StatusUnprocessableEntity, "missing_target"},
	{queries.ErrInvalidFilter, http.StatusUnprocessableEntity, "invalid_filter"},

	{commands.ErrHoldMarkerFailed, http.StatusServiceUnavailable, "hold_unavailable"},
}

func statusOf(err error) (int, string) {
	for _, e := range statusTable {
		if errs.Is(err, e.target) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// abortWithUseCaseError maps a use-case failure onto its HTTP status and code.
// Unexpected failures are reported without their message.
func abortWithUseCaseError(c *gin.Context, err error, msg string) {
	status, code := statusOf(err)
	if status == http.StatusInternalServerError {
		httperr.AbortWithCode(c, status, code, err, "Internal server error", nil)
		return
	}
	httperr.AbortWithCode(c, status, code, err, msg, gin.H{"reason": err.Error()})
}

// respondJSON writes res, or a 500 when building it failed.
func respondJSON(c *gin.Context, status int, res any, err error) {
	if err != nil {
		abortWithUseCaseError(c, err, "Response mapping failed")
		return
	}
	c.JSON(status, res)
}
