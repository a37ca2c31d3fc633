package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

func TestRequiredSlots(t *testing.T) {
	tests := []struct {
		duration int
		want     int
	}{
		{30, 1},
		{1, 1},
		{31, 2},
		{45, 2},
		{60, 2},
		{61, 3},
		{0, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RequiredSlots(tt.duration), "duration %d", tt.duration)
	}
}

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name       string
		open       string
		close      string
		breakStart string
		breakEnd   string
		want       []string
	}{
		{
			name:  "close is excluded",
			open:  "09:00",
			close: "11:00",
			want:  []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:       "break window is skipped",
			open:       "09:00",
			close:      "12:00",
			breakStart: "10:00",
			breakEnd:   "11:00",
			want:       []string{"09:00", "09:30", "11:00", "11:30"},
		},
		{
			name:       "half break is ignored",
			open:       "09:00",
			close:      "10:00",
			breakStart: "09:30",
			want:       []string{"09:00", "09:30"},
		},
		{
			name:  "unaligned close still offers the last start before it",
			open:  "09:00",
			close: "10:15",
			want:  []string{"09:00", "09:30", "10:00"},
		},
		{
			name:  "off-grid opening keeps its own grid",
			open:  "08:15",
			close: "09:30",
			want:  []string{"08:15", "08:45", "09:15"},
		},
		{
			name:  "empty day",
			open:  "09:00",
			close: "09:00",
			want:  []string{},
		},
		{
			name:  "unparsable bounds",
			open:  "nine",
			close: "17:00",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlots(tt.open, tt.close, tt.breakStart, tt.breakEnd)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateSlotsProperties(t *testing.T) {
	cases := [][2]string{
		{"00:00", "23:59"},
		{"06:30", "22:00"},
		{"09:00", "18:00"},
		{"10:00", "10:45"},
	}

	for _, c := range cases {
		open, _ := parseClock(c[0])
		closeMin, _ := parseClock(c[1])

		slots := GenerateSlots(c[0], c[1], "", "")
		require.Len(t, slots, (closeMin-open+SlotMinutes-1)/SlotMinutes, "%s-%s", c[0], c[1])

		for i, slot := range slots {
			minutes, ok := parseClock(slot)
			require.True(t, ok)
			assert.Equal(t, open+i*SlotMinutes, minutes)
			if i > 0 {
				assert.Less(t, slots[i-1], slot)
			}
		}

		// no hidden state between calls
		assert.Equal(t, slots, GenerateSlots(c[0], c[1], "", ""))
	}
}

func TestGenerateSlotsNeverInsideBreak(t *testing.T) {
	slots := GenerateSlots("08:00", "20:00", "12:30", "14:00")
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		assert.True(t, slot < "12:30" || slot >= "14:00", "slot %s falls inside the break", slot)
	}
	assert.Contains(t, slots, "14:00")
	assert.NotContains(t, slots, "12:30")
	assert.NotContains(t, slots, "13:30")
}

func TestOccupiedSlots(t *testing.T) {
	all := []string{"09:00", "09:30", "10:00", "10:30"}

	tests := []struct {
		name     string
		start    string
		duration int
		want     []string
	}{
		{"rounds duration up", "09:30", 45, []string{"09:30", "10:00"}},
		{"single slot", "09:00", 30, []string{"09:00"}},
		{"truncated by end of day", "10:00", 120, []string{"10:00", "10:30"}},
		{"start outside slots", "12:00", 30, []string{}},
		{"start during break", "09:15", 60, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OccupiedSlots(tt.start, tt.duration, all))
		})
	}

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, all, "input must not be modified")
}

func TestOccupiedSet(t *testing.T) {
	all := GenerateSlots("09:00", "12:00", "", "")
	spans := []domain.BookedSpan{
		{StartTime: "09:00", DurationMinutes: 60},
		{StartTime: "09:30", DurationMinutes: 30},
		{StartTime: "11:30", DurationMinutes: 90},
		{StartTime: "13:00", DurationMinutes: 30},
	}

	occupied := OccupiedSet(spans, all)

	assert.Len(t, occupied, 3)
	for _, slot := range []string{"09:00", "09:30", "11:30"} {
		assert.Contains(t, occupied, slot)
	}
}

func TestAvailableSlots(t *testing.T) {
	t.Run("long service cannot run past the last slot", func(t *testing.T) {
		all := []string{"09:00", "09:30", "10:00", "10:30"}
		got := AvailableSlots(all, map[string]struct{}{}, 60)

		require.Len(t, got, 4)
		assert.True(t, got[0].IsAvailable)
		assert.True(t, got[2].IsAvailable)
		assert.Equal(t, "10:30", got[3].Time)
		assert.False(t, got[3].IsAvailable)
	})

	t.Run("occupied successor blocks the start", func(t *testing.T) {
		all := []string{"09:00", "09:30", "10:00"}
		occupied := map[string]struct{}{"09:30": {}}

		got := AvailableSlots(all, occupied, 60)

		assert.Equal(t, []domain.TimeSlot{
			{Time: "09:00", IsAvailable: false, RequiredConsecutiveSlots: 2},
			{Time: "09:30", IsAvailable: false, RequiredConsecutiveSlots: 2},
			{Time: "10:00", IsAvailable: false, RequiredConsecutiveSlots: 2},
		}, got)
	})

	t.Run("short service fills the gaps", func(t *testing.T) {
		all := []string{"09:00", "09:30", "10:00"}
		occupied := map[string]struct{}{"09:30": {}}

		got := AvailableSlots(all, occupied, 30)

		assert.True(t, got[0].IsAvailable)
		assert.False(t, got[1].IsAvailable)
		assert.True(t, got[2].IsAvailable)
		for _, slot := range got {
			assert.Equal(t, 1, slot.RequiredConsecutiveSlots)
		}
	})

	t.Run("service across a break needs both sides", func(t *testing.T) {
		all := GenerateSlots("09:00", "12:00", "10:00", "11:00")
		got := AvailableSlots(all, map[string]struct{}{}, 60)

		// runs are counted in slot-list positions, so 09:30 and 11:00 are consecutive
		// once the break is removed
		assert.Equal(t, []bool{true, true, true, false}, availability(got))
	})

	t.Run("empty day", func(t *testing.T) {
		assert.Empty(t, AvailableSlots([]string{}, nil, 30))
	})

	t.Run("does not modify the occupied set", func(t *testing.T) {
		all := []string{"09:00", "09:30"}
		occupied := map[string]struct{}{"09:00": {}}

		AvailableSlots(all, occupied, 30)

		assert.Equal(t, map[string]struct{}{"09:00": {}}, occupied)
	})
}

func availability(slots []domain.TimeSlot) []bool {
	flags := make([]bool, len(slots))
	for i, slot := range slots {
		flags[i] = slot.IsAvailable
	}
	return flags
}
