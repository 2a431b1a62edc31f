//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) schedule.Date {
	t.Helper()
	d, err := schedule.ParseDate(s)
	require.NoError(t, err)
	return d
}

func mustTime(t *testing.T, s string) schedule.TimeOfDay {
	t.Helper()
	tod, err := schedule.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

// 2030-03-04 is a Monday.
func baseRecurrence(t *testing.T) schedule.Recurrence {
	return schedule.Recurrence{
		StartDate:   mustDate(t, "2030-03-04"),
		EndDate:     mustDate(t, "2030-03-04"),
		StartTime:   mustTime(t, "09:00"),
		EndTime:     mustTime(t, "12:00"),
		DurationMin: 60,
		IntervalMin: 60,
		Weekdays:    []int{0},
	}
}

func TestRecurrenceNormalize(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*schedule.Recurrence)
		defaults []int
		errIs    error
		check    func(t *testing.T, r schedule.Recurrence)
	}{
		{
			name:   "end date before start date",
			mutate: func(r *schedule.Recurrence) { r.EndDate = mustDate(t, "2030-03-03") },
			errIs:  slot.ErrInvalidWindow,
		},
		{
			name:   "exactly 120 days",
			mutate: func(r *schedule.Recurrence) { r.EndDate = r.StartDate.AddDays(119) },
		},
		{
			name:   "121 days",
			mutate: func(r *schedule.Recurrence) { r.EndDate = r.StartDate.AddDays(120) },
			errIs:  slot.ErrInvalidWindow,
		},
		{
			name:   "daily window inverted",
			mutate: func(r *schedule.Recurrence) { r.EndTime = mustTime(t, "08:00") },
			errIs:  slot.ErrInvalidWindow,
		},
		{
			name:   "duration below 15",
			mutate: func(r *schedule.Recurrence) { r.DurationMin = 10 },
			errIs:  slot.ErrInvalidWindow,
		},
		{
			name:   "duration above 360",
			mutate: func(r *schedule.Recurrence) { r.DurationMin = 361 },
			errIs:  slot.ErrInvalidWindow,
		},
		{
			name:   "interval defaults to duration",
			mutate: func(r *schedule.Recurrence) { r.DurationMin = 45; r.IntervalMin = 0 },
			check: func(t *testing.T, r schedule.Recurrence) {
				assert.Equal(t, 45, r.IntervalMin)
			},
		},
		{
			name:   "field requires weekdays",
			mutate: func(r *schedule.Recurrence) { r.Weekdays = nil },
			errIs:  schedule.ErrEmptyWeekdays,
		},
		{
			name:   "invalid weekdays only also counts as empty",
			mutate: func(r *schedule.Recurrence) { r.Weekdays = []int{7, -1} },
			errIs:  slot.ErrInvalidWindow,
		},
		{
			name:     "professional defaults to the work week",
			mutate:   func(r *schedule.Recurrence) { r.Weekdays = nil },
			defaults: schedule.WorkWeek,
			check: func(t *testing.T, r schedule.Recurrence) {
				assert.Equal(t, []int{0, 1, 2, 3, 4}, r.Weekdays)
			},
		},
		{
			name:   "weekdays are deduplicated and sorted",
			mutate: func(r *schedule.Recurrence) { r.Weekdays = []int{5, 1, 5, 9} },
			check: func(t *testing.T, r schedule.Recurrence) {
				assert.Equal(t, []int{1, 5}, r.Weekdays)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := baseRecurrence(t)
			tc.mutate(&r)
			got, err := r.Normalize(tc.defaults)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			if tc.check != nil {
				tc.check(t, got)
			}
		})
	}
}

func TestRecurrenceCandidates(t *testing.T) {
	t.Run("three hourly windows in one morning", func(t *testing.T) {
		r, err := baseRecurrence(t).Normalize(nil)
		require.NoError(t, err)

		got := r.Candidates(time.UTC)
		require.Len(t, got, 3)
		assert.Equal(t, time.Date(2030, 3, 4, 9, 0, 0, 0, time.UTC), got[0].Start())
		assert.Equal(t, time.Date(2030, 3, 4, 12, 0, 0, 0, time.UTC), got[2].End())
	})

	t.Run("last window must end by the daily end time", func(t *testing.T) {
		r := baseRecurrence(t)
		r.DurationMin = 50
		r.IntervalMin = 60
		r.EndTime = mustTime(t, "11:45")
		r, err := r.Normalize(nil)
		require.NoError(t, err)

		got := r.Candidates(time.UTC)
		require.Len(t, got, 2)
		assert.Equal(t, time.Date(2030, 3, 4, 10, 50, 0, 0, time.UTC), got[1].End())
	})

	t.Run("weekday filter skips other days", func(t *testing.T) {
		r := baseRecurrence(t)
		r.EndDate = mustDate(t, "2030-03-10")
		r.Weekdays = []int{2, 6}
		r, err := r.Normalize(nil)
		require.NoError(t, err)

		got := r.Candidates(time.UTC)
		require.Len(t, got, 6)
		assert.Equal(t, time.Wednesday, got[0].Start().Weekday())
		assert.Equal(t, time.Sunday, got[5].Start().Weekday())
	})

	t.Run("wall clock follows the generation zone", func(t *testing.T) {
		loc := time.FixedZone("ART", -3*60*60)
		r, err := baseRecurrence(t).Normalize(nil)
		require.NoError(t, err)

		got := r.Candidates(loc)
		require.NotEmpty(t, got)
		assert.Equal(t, time.Date(2030, 3, 4, 12, 0, 0, 0, time.UTC), got[0].Start())
	})
}

func TestDate(t *testing.T) {
	d := mustDate(t, "2030-03-06")
	assert.Equal(t, 2, d.Weekday())
	assert.Equal(t, "2030-03-04", d.StartOfWeek().String())
	assert.Equal(t, 6, mustDate(t, "2030-03-10").Weekday())
	assert.Equal(t, 0, schedule.MondayIndex(time.Monday))
	assert.Equal(t, 6, schedule.MondayIndex(time.Sunday))

	_, err := schedule.ParseDate("2030-13-01")
	assert.ErrorIs(t, err, slot.ErrInvalidWindow)
	_, err = schedule.ParseTimeOfDay("25:00")
	assert.ErrorIs(t, err, slot.ErrInvalidWindow)
}
