package scheduler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

func newDay() *domain.DaySchedule {
	return &domain.DaySchedule{
		Weekday:    2,
		OpenTime:   "09:00",
		CloseTime:  "12:00",
		BreakStart: "10:00",
		BreakEnd:   "10:30",
		Active:     true,
	}
}

func TestSchedulerInactiveDay(t *testing.T) {
	day := newDay()
	day.Active = false

	s := New(day)

	assert.Empty(t, s.Slots())
	assert.Empty(t, s.Availability(nil, 30))
}

func TestSchedulerAvailability(t *testing.T) {
	s := New(newDay())
	require.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, s.Slots())

	booked := []domain.BookedSpan{
		{StartTime: "10:30", DurationMinutes: 40},
	}

	got := s.Availability(booked, 60)

	assert.Equal(t, []domain.TimeSlot{
		{Time: "09:00", IsAvailable: true, RequiredConsecutiveSlots: 2},
		{Time: "09:30", IsAvailable: false, RequiredConsecutiveSlots: 2},
		{Time: "10:30", IsAvailable: false, RequiredConsecutiveSlots: 2},
		{Time: "11:00", IsAvailable: false, RequiredConsecutiveSlots: 2},
		{Time: "11:30", IsAvailable: false, RequiredConsecutiveSlots: 2},
	}, got)
}

func TestSchedulerClosingBoundaryIsConservative(t *testing.T) {
	s := New(&domain.DaySchedule{OpenTime: "17:00", CloseTime: "18:00", Active: true})

	assert.False(t, s.IsBookable(nil, "17:30", 60))
	assert.True(t, s.IsBookable(nil, "17:30", 30))
	assert.True(t, s.IsBookable(nil, "17:00", 60))
}

func TestSchedulerUnmatched(t *testing.T) {
	s := New(newDay())
	booked := []domain.BookedSpan{
		{StartTime: "09:00", DurationMinutes: 30},
		{StartTime: "10:00", DurationMinutes: 30},
		{StartTime: "09:15", DurationMinutes: 30},
	}

	assert.Equal(t, []domain.BookedSpan{
		{StartTime: "10:00", DurationMinutes: 30},
		{StartTime: "09:15", DurationMinutes: 30},
	}, s.Unmatched(booked))

	// the unmatched ones leave their slots free
	assert.True(t, s.IsBookable(booked, "09:30", 30))
}

func TestSchedulerIsBookable(t *testing.T) {
	s := New(newDay())

	assert.False(t, s.IsBookable(nil, "10:00", 30), "inside the break")
	assert.False(t, s.IsBookable(nil, "08:30", 30), "before opening")
	assert.True(t, s.IsBookable(nil, "11:30", 30))
}

func TestSchedulerSlotsReturnsCopy(t *testing.T) {
	s := New(newDay())

	slots := s.Slots()
	slots[0] = "00:00"

	assert.Equal(t, "09:00", s.Slots()[0])
}

func TestSchedulerConcurrentUse(t *testing.T) {
	s := New(newDay())
	want := s.Availability(nil, 30)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, s.Availability(nil, 30))
		}()
	}
	wg.Wait()
}
