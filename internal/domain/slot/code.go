package slot

import (
	"strings"

	"github.com/google/uuid"
)

const ReservationCodeLength = 8

// NewReservationCode returns a short human-readable booking reference.
func NewReservationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:ReservationCodeLength])
}
