package slot

type Status string

const (
	StatusAvailable Status = "available"
	StatusHolding   Status = "holding"
	StatusReserved  Status = "reserved"
	StatusBlocked   Status = "blocked"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusHolding, StatusReserved, StatusBlocked:
		return true
	default:
		return false
	}
}

// Occupies reports whether a slot in this status takes part in overlap checks.
func (s Status) Occupies() bool {
	return s != StatusBlocked
}
