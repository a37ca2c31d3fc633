package scheduler

import (
	"slices"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

// GenerateSlots expands [openTime, closeTime) into 30-minute start times, skipping every
// start inside [breakStart, breakEnd). The break only applies when both bounds are set.
//
// A slot starting at or after closeTime is never emitted, even when a service could
// end exactly at closing time.
func GenerateSlots(openTime, closeTime, breakStart, breakEnd string) []string {
	openMin, ok := parseClock(openTime)
	if !ok {
		return []string{}
	}
	closeMin, ok := parseClock(closeTime)
	if !ok {
		return []string{}
	}

	hasBreak := false
	var breakStartMin, breakEndMin int
	if breakStart != "" && breakEnd != "" {
		bs, okStart := parseClock(breakStart)
		be, okEnd := parseClock(breakEnd)
		if okStart && okEnd {
			hasBreak = true
			breakStartMin, breakEndMin = bs, be
		}
	}

	slots := make([]string, 0, max(0, (closeMin-openMin)/SlotMinutes+1))
	for cur := openMin; cur < closeMin; cur += SlotMinutes {
		if hasBreak && cur >= breakStartMin && cur < breakEndMin {
			continue
		}
		slots = append(slots, formatClock(cur))
	}

	return slots
}

// OccupiedSlots returns the slots taken by one appointment. An appointment whose
// start is not one of allSlots contributes nothing; one that runs past the end of
// the day is truncated.
func OccupiedSlots(startTime string, durationMinutes int, allSlots []string) []string {
	idx := slices.Index(allSlots, startTime)
	if idx < 0 {
		return []string{}
	}

	end := min(idx+RequiredSlots(durationMinutes), len(allSlots))
	return slices.Clone(allSlots[idx:end])
}

// OccupiedSet merges the occupancy of every booked span of the day.
func OccupiedSet(spans []domain.BookedSpan, allSlots []string) map[string]struct{} {
	occupied := make(map[string]struct{})
	for _, span := range spans {
		for _, slot := range OccupiedSlots(span.StartTime, span.DurationMinutes, allSlots) {
			occupied[slot] = struct{}{}
		}
	}
	return occupied
}

// AvailableSlots flags every slot with whether a service of the given duration
// can start there: all of its consecutive slots must exist and be unoccupied.
func AvailableSlots(allSlots []string, occupied map[string]struct{}, durationMinutes int) []domain.TimeSlot {
	required := RequiredSlots(durationMinutes)

	result := make([]domain.TimeSlot, 0, len(allSlots))
	for i, slot := range allSlots {
		available := i+required <= len(allSlots)
		for j := i; available && j < i+required; j++ {
			if _, taken := occupied[allSlots[j]]; taken {
				available = false
			}
		}

		result = append(result, domain.TimeSlot{
			Time:                     slot,
			IsAvailable:              available,
			RequiredConsecutiveSlots: required,
		})
	}

	return result
}
