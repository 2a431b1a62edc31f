package slot

import (
	"github.com/google/uuid"
)

type ResourceKind string

const (
	KindField               ResourceKind = "field"
	KindServiceAt           ResourceKind = "service_at"
	KindProfessionalService ResourceKind = "professional_service"
	KindServiceOnly         ResourceKind = "service"
)

func (k ResourceKind) IsValid() bool {
	switch k {
	case KindField, KindServiceAt, KindProfessionalService, KindServiceOnly:
		return true
	default:
		return false
	}
}

// ResourceKey identifies the thing overlap is checked against. Slots with
// different keys never conflict.
type ResourceKey string

func (k ResourceKey) String() string {
	return string(k)
}

// ResourceRef binds a slot to exactly one bookable resource. Only the
// identifiers relevant to the variant are set.
type ResourceRef struct {
	kind           ResourceKind
	fieldID        uuid.UUID
	serviceID      uuid.UUID
	beautyCenterID uuid.UUID
	professionalID uuid.UUID
}

func Field(fieldID uuid.UUID) ResourceRef {
	return ResourceRef{kind: KindField, fieldID: fieldID}
}

func ServiceAt(serviceID, beautyCenterID uuid.UUID) ResourceRef {
	return ResourceRef{kind: KindServiceAt, serviceID: serviceID, beautyCenterID: beautyCenterID}
}

func ProfessionalService(professionalID, serviceID uuid.UUID) ResourceRef {
	return ResourceRef{kind: KindProfessionalService, professionalID: professionalID, serviceID: serviceID}
}

func ServiceOnly(serviceID uuid.UUID) ResourceRef {
	return ResourceRef{kind: KindServiceOnly, serviceID: serviceID}
}

// RestoreResourceRef rebuilds a reference from its stored columns.
func RestoreResourceRef(kind ResourceKind, fieldID, serviceID, beautyCenterID, professionalID *uuid.UUID) (ResourceRef, error) {
	deref := func(id *uuid.UUID) uuid.UUID {
		if id == nil {
			return uuid.Nil
		}
		return *id
	}

	var ref ResourceRef
	switch kind {
	case KindField:
		ref = Field(deref(fieldID))
	case KindServiceAt:
		ref = ServiceAt(deref(serviceID), deref(beautyCenterID))
	case KindProfessionalService:
		ref = ProfessionalService(deref(professionalID), deref(serviceID))
	case KindServiceOnly:
		ref = ServiceOnly(deref(serviceID))
	default:
		return ResourceRef{}, ErrInvalidResource
	}

	if err := ref.Validate(); err != nil {
		return ResourceRef{}, err
	}
	return ref, nil
}

func (r ResourceRef) Validate() error {
	switch r.kind {
	case KindField:
		if r.fieldID == uuid.Nil {
			return ErrInvalidResource
		}
	case KindServiceAt:
		if r.serviceID == uuid.Nil || r.beautyCenterID == uuid.Nil {
			return ErrInvalidResource
		}
	case KindProfessionalService:
		if r.professionalID == uuid.Nil || r.serviceID == uuid.Nil {
			return ErrInvalidResource
		}
	case KindServiceOnly:
		if r.serviceID == uuid.Nil {
			return ErrInvalidResource
		}
	default:
		return ErrInvalidResource
	}
	return nil
}

// Key derives the overlap identity. A professional is booked once per
// window regardless of the service, so the professional variant keys on
// the professional alone.
func (r ResourceRef) Key() ResourceKey {
	switch r.kind {
	case KindField:
		return ResourceKey("field:" + r.fieldID.String())
	case KindServiceAt:
		return ResourceKey("center:" + r.beautyCenterID.String() + "/service:" + r.serviceID.String())
	case KindProfessionalService:
		return ResourceKey("professional:" + r.professionalID.String())
	case KindServiceOnly:
		return ResourceKey("service:" + r.serviceID.String())
	default:
		return ""
	}
}

// BindsService reports whether slot durations must follow a catalog service.
func (r ResourceRef) BindsService() bool {
	return r.serviceID != uuid.Nil
}

func (r ResourceRef) Kind() ResourceKind        { return r.kind }
func (r ResourceRef) FieldID() uuid.UUID        { return r.fieldID }
func (r ResourceRef) ServiceID() uuid.UUID      { return r.serviceID }
func (r ResourceRef) BeautyCenterID() uuid.UUID { return r.beautyCenterID }
func (r ResourceRef) ProfessionalID() uuid.UUID { return r.professionalID }
func (r ResourceRef) IsZero() bool              { return r.kind == "" }
