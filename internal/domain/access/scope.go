package access

import (
	"slot-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrForbidden = errs.New("operation not permitted for this scope")

type OwnerKind string

const (
	OwnerComplex      OwnerKind = "complex"
	OwnerBeautyCenter OwnerKind = "beauty_center"
	OwnerProfessional OwnerKind = "professional"
	// OwnerPlatform marks resources only a super admin manages.
	OwnerPlatform OwnerKind = "platform"
)

// Owner is the business entity a bookable resource belongs to.
type Owner struct {
	Kind OwnerKind
	ID   uuid.UUID
}

// Scope is the capability handed to every command. The zero value is the
// public scope: customers may hold slots, book days and subscribe, but may
// not administer anything.
type Scope struct {
	superAdmin    bool
	system        bool
	complexes     map[uuid.UUID]struct{}
	centers       map[uuid.UUID]struct{}
	professionals map[uuid.UUID]struct{}
	subject       string
}

func Public() Scope {
	return Scope{}
}

// System is used by background jobs and the CLI.
func System() Scope {
	return Scope{system: true, subject: "system"}
}

func SuperAdmin(subject string) Scope {
	return Scope{superAdmin: true, subject: subject}
}

func Admin(subject string, complexes, centers, professionals []uuid.UUID) Scope {
	return Scope{
		subject:       subject,
		complexes:     toSet(complexes),
		centers:       toSet(centers),
		professionals: toSet(professionals),
	}
}

// CanManage reports whether the scope may administer resources of owner.
func (s Scope) CanManage(owner Owner) bool {
	if s.system || s.superAdmin {
		return true
	}
	var set map[uuid.UUID]struct{}
	switch owner.Kind {
	case OwnerComplex:
		set = s.complexes
	case OwnerBeautyCenter:
		set = s.centers
	case OwnerProfessional:
		set = s.professionals
	default:
		return false
	}
	_, ok := set[owner.ID]
	return ok
}

func (s Scope) Require(owner Owner) error {
	if !s.CanManage(owner) {
		return ErrForbidden
	}
	return nil
}

// IsAdmin reports whether the scope manages anything at all.
func (s Scope) IsAdmin() bool {
	return s.system || s.superAdmin || len(s.complexes)+len(s.centers)+len(s.professionals) > 0
}

func (s Scope) IsSuperAdmin() bool { return s.superAdmin || s.system }
func (s Scope) Subject() string    { return s.subject }

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
