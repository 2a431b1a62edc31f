//go:build e2e

package capacity_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/handler/dto/response"
	"slot-engine/tests/common/dbtest"
	"slot-engine/tests/common/httptest"
	"slot-engine/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookURL     = "/api/professionals/%s/days/%s/book"
	calendarURL = "/api/professionals/%s/days?from=%s&to=%s"
)

type CapacitySuite struct {
	e2e.SharedSuite
}

func TestCapacitySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CapacitySuite))
}

func (s *CapacitySuite) TestBookDay() {
	day := schedule.DateOf(time.Now().UTC().AddDate(0, 0, 10))

	s.Run("quota two, three concurrent bookings", func() {
		t := s.T()
		serviceID := dbtest.CreateTestService(t, s.DB, "Consulta", "profesionales", 45)
		profID := dbtest.CreateTestProfessional(t, s.DB, "Dra. Gómez", "per_day", 2, serviceID)

		var wg sync.WaitGroup
		codes := make([]int, 3)
		for i := range codes {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				body := map[string]any{"email": fmt.Sprintf("paciente%d@example.com", i)}
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(bookURL, profID, day), body, "")
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusCreated, http.StatusConflict}, codes)
		assert.Equal(t, 2, dbtest.CountRows(t, s.DB, "day_bookings", "professional_id = $1", profID))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(calendarURL, profID, day, day.AddDays(1)), nil, "")
		var cal response.DayCalendarResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cal)

		want := []response.DayCapacityResponse{
			{Date: day.String(), Capacity: 2, Reserved: 2, Remaining: 0},
			{Date: day.AddDays(1).String(), Capacity: 2, Reserved: 0, Remaining: 2},
		}
		if diff := cmp.Diff(want, cal.Days); diff != "" {
			t.Errorf("calendar mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("classic professionals are refused", func() {
		t := s.T()
		profID := dbtest.CreateTestProfessional(t, s.DB, "Lic. Pérez", "classic", 0)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(bookURL, profID, day),
			map[string]any{"email": "x@example.com"}, "")
		httptest.AssertErrorCode(t, w, http.StatusUnprocessableEntity, "booking_mode_invalid")
	})

	s.Run("past days are invalid", func() {
		t := s.T()
		profID := dbtest.CreateTestProfessional(t, s.DB, "Dr. Ruiz", "per_day", 3)
		yesterday := schedule.DateOf(time.Now().UTC().AddDate(0, 0, -1))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(bookURL, profID, yesterday),
			map[string]any{"email": "x@example.com"}, "")
		httptest.AssertErrorCode(t, w, http.StatusUnprocessableEntity, "invalid_window")
	})
}

func (s *CapacitySuite) TestSubscriptions() {
	day := schedule.DateOf(time.Now().UTC().AddDate(0, 0, 10))

	s.Run("criteria subscription lifecycle by token", func() {
		t := s.T()
		complexID := dbtest.CreateTestComplex(t, s.DB, "Complejo Sur")
		fieldID := dbtest.CreateTestField(t, s.DB, complexID, "Cancha 2")

		start, _ := day.Bounds(time.UTC)
		body := map[string]any{
			"email": "Ana@Example.com",
			"criteria": map[string]any{
				"field_id":     fieldID,
				"start_window": start,
				"end_window":   start.Add(24 * time.Hour),
				"time_from":    "18:00",
				"time_to":      "22:00",
			},
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/subscriptions", body, "")
		var sub response.SubscriptionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &sub)
		require.True(t, sub.ByCriteria)
		assert.Equal(t, "ana@example.com", sub.Email)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("/api/subscriptions/%s/unsubscribe", sub.UnsubscribeToken), nil, "")
		var gone response.SubscriptionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &gone)
		if diff := cmp.Diff(sub, gone, cmpopts.IgnoreFields(response.SubscriptionResponse{}, "Status", "Active", "CreatedAt")); diff != "" {
			t.Errorf("unsubscribe changed identity fields (-before +after):\n%s", diff)
		}
		assert.Equal(t, "unsubscribed", gone.Status)
		assert.False(t, gone.Active)
	})
}
