package scheduler

// SlotMinutes is the length of one atomic bookable unit.
const SlotMinutes = 30

// RequiredSlots is the number of consecutive slots a duration needs: ceil(duration / 30).
// A non-positive duration still needs the slot it starts in.
func RequiredSlots(durationMinutes int) int {
	if durationMinutes <= 0 {
		return 1
	}
	return (durationMinutes + SlotMinutes - 1) / SlotMinutes
}
