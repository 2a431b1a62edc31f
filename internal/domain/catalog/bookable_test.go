//go:build unit

package catalog_test

import (
	"testing"
	"time"

	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBookableCheckService(t *testing.T) {
	svc := &catalog.Service{ID: uuid.New(), DurationMin: 45, Active: true}
	center := uuid.New()

	cases := []struct {
		name     string
		bookable catalog.Bookable
		errIs    error
	}{
		{
			name:     "field binds no service",
			bookable: catalog.Bookable{Ref: slot.Field(uuid.New()), Active: true},
		},
		{
			name:     "linked service at flexible center",
			bookable: catalog.Bookable{Ref: slot.ServiceAt(svc.ID, center), Active: true, Service: svc, Offered: true, Center: &catalog.CenterPolicy{Mode: catalog.CenterFlexible}},
		},
		{
			name:     "service not linked to center",
			bookable: catalog.Bookable{Ref: slot.ServiceAt(svc.ID, center), Active: true, Service: svc, Offered: false},
			errIs:    catalog.ErrServiceNotOffered,
		},
		{
			name: "fixed center only offers its fixed service",
			bookable: catalog.Bookable{Ref: slot.ServiceAt(svc.ID, center), Active: true, Service: svc, Offered: true,
				Center: &catalog.CenterPolicy{Mode: catalog.CenterFixed, FixedServiceID: uuid.New()}},
			errIs: catalog.ErrServiceNotOffered,
		},
		{
			name:     "inactive service",
			bookable: catalog.Bookable{Ref: slot.ServiceOnly(svc.ID), Active: true, Service: &catalog.Service{ID: svc.ID}},
			errIs:    catalog.ErrServiceNotOffered,
		},
		{
			name:     "inactive resource",
			bookable: catalog.Bookable{Ref: slot.Field(uuid.New())},
			errIs:    catalog.ErrInactiveResource,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.bookable.Validate()
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBookableDefaults(t *testing.T) {
	svc := &catalog.Service{ID: uuid.New(), DurationMin: 45, Currency: "USD", Active: true}
	prof := catalog.Bookable{Ref: slot.ProfessionalService(uuid.New(), svc.ID), Service: svc}
	field := catalog.Bookable{Ref: slot.Field(uuid.New())}

	assert.NoError(t, prof.CheckDuration(45*time.Minute))
	assert.ErrorIs(t, prof.CheckDuration(time.Hour), slot.ErrInvalidWindow)
	assert.NoError(t, field.CheckDuration(time.Hour))

	assert.Equal(t, "USD", prof.DefaultCurrency())
	assert.Equal(t, slot.DefaultCurrency, field.DefaultCurrency())

	assert.Nil(t, field.DefaultWeekdays(schedule.WorkWeek))
	assert.Equal(t, schedule.WorkWeek, prof.DefaultWeekdays(schedule.WorkWeek))

	assert.Equal(t, catalog.CategoryProfessionals, catalog.CategoryOf(prof.Ref))
	assert.Equal(t, catalog.CategorySports, catalog.CategoryOf(field.Ref))
}

func TestProfessionalCheckPerDay(t *testing.T) {
	perDay := catalog.Professional{ID: uuid.New(), Active: true, Policy: catalog.ProfessionalPolicy{Mode: capacity.ModePerDay, DailyQuota: 3}}
	assert.NoError(t, perDay.CheckPerDay())

	classic := perDay
	classic.Policy.Mode = capacity.ModeClassic
	assert.ErrorIs(t, classic.CheckPerDay(), catalog.ErrBookingModeInvalid)

	inactive := perDay
	inactive.Active = false
	assert.ErrorIs(t, inactive.CheckPerDay(), catalog.ErrInactiveResource)
}
