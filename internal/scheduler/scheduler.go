package scheduler

import (
	"slices"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

// Scheduler computes one day's bookable start times from that weekday's schedule.
// It holds no mutable state and can be shared between goroutines.
type Scheduler struct {
	schedule domain.DaySchedule
	slots    []string
}

func New(schedule *domain.DaySchedule) *Scheduler {
	s := &Scheduler{
		schedule: *schedule,
		slots:    []string{},
	}

	// an inactive day has no slots at all, whatever its hours say
	if schedule.Active {
		s.slots = GenerateSlots(schedule.OpenTime, schedule.CloseTime, schedule.BreakStart, schedule.BreakEnd)
	}

	return s
}

// Slots returns a copy of the day's generated start times.
func (s *Scheduler) Slots() []string {
	return slices.Clone(s.slots)
}

// Availability marks each slot of the day for a service of durationMinutes,
// given the appointments already booked.
func (s *Scheduler) Availability(booked []domain.BookedSpan, durationMinutes int) []domain.TimeSlot {
	occupied := OccupiedSet(booked, s.slots)
	return AvailableSlots(s.slots, occupied, durationMinutes)
}

// Unmatched returns the booked spans whose start is not one of the day's slots.
// They contribute no occupancy, which usually means the schedule changed after
// they were booked.
func (s *Scheduler) Unmatched(booked []domain.BookedSpan) []domain.BookedSpan {
	var unmatched []domain.BookedSpan
	for _, span := range booked {
		if !slices.Contains(s.slots, span.StartTime) {
			unmatched = append(unmatched, span)
		}
	}
	return unmatched
}

// IsBookable reports whether a service of durationMinutes can start at startTime.
func (s *Scheduler) IsBookable(booked []domain.BookedSpan, startTime string, durationMinutes int) bool {
	for _, slot := range s.Availability(booked, durationMinutes) {
		if slot.Time == startTime {
			return slot.IsAvailable
		}
	}
	return false
}
