package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

func TestValidateDaySchedule(t *testing.T) {
	tests := []struct {
		name string
		day  domain.DaySchedule
		want error
	}{
		{
			name: "inactive day skips every check",
			day:  domain.DaySchedule{Active: false, OpenTime: "garbage", CloseTime: "", BreakStart: "13:00"},
			want: nil,
		},
		{
			name: "missing open time",
			day:  domain.DaySchedule{Active: true, CloseTime: "18:00"},
			want: ErrOpenCloseRequired,
		},
		{
			name: "missing close time",
			day:  domain.DaySchedule{Active: true, OpenTime: "09:00"},
			want: ErrOpenCloseRequired,
		},
		{
			name: "reversed hours",
			day:  domain.DaySchedule{Active: true, OpenTime: "18:00", CloseTime: "09:00"},
			want: ErrOpenAfterClose,
		},
		{
			name: "equal hours",
			day:  domain.DaySchedule{Active: true, OpenTime: "09:00", CloseTime: "09:00"},
			want: ErrOpenAfterClose,
		},
		{
			name: "only break start",
			day:  domain.DaySchedule{Active: true, OpenTime: "09:00", CloseTime: "18:00", BreakStart: "12:00"},
			want: ErrIncompleteBreak,
		},
		{
			name: "only break end",
			day:  domain.DaySchedule{Active: true, OpenTime: "09:00", CloseTime: "18:00", BreakEnd: "13:00"},
			want: ErrIncompleteBreak,
		},
		{
			name: "break starts at opening",
			day:  domain.DaySchedule{Active: true, OpenTime: "09:00", CloseTime: "18:00", BreakStart: "09:00", BreakEnd: "10:00"},
			want: ErrBreakStartBeforeOpen,
		},
		{
			name: "break ends at closing",
			day:  domain.DaySchedule{Active: true, OpenTime: "09:00", CloseTime: "18:00", BreakStart: "17:00", BreakEnd: "18:00"},
			want: ErrBreakEndAfterClose,
		},
		{
			name: "break reversed",
			day:  domain.DaySchedule{Active: true, OpenTime: "09:00", CloseTime: "18:00", BreakStart: "13:00", BreakEnd: "12:00"},
			want: ErrBreakOrder,
		},
		{
			name: "valid with break",
			day:  domain.DaySchedule{Active: true, OpenTime: "09:00", CloseTime: "18:00", BreakStart: "12:00", BreakEnd: "13:00"},
			want: nil,
		},
		{
			name: "valid without break",
			day:  domain.DaySchedule{Active: true, OpenTime: "09:00", CloseTime: "18:00"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDaySchedule(&tt.day)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			// same input, same answer
			assert.Equal(t, err, ValidateDaySchedule(&tt.day))
		})
	}
}

func TestValidateDayScheduleShortCircuits(t *testing.T) {
	// reversed hours and a half break: the hours rule comes first
	day := domain.DaySchedule{Active: true, OpenTime: "18:00", CloseTime: "09:00", BreakStart: "12:00"}
	assert.ErrorIs(t, ValidateDaySchedule(&day), ErrOpenAfterClose)
}

func TestValidateDayScheduleMessages(t *testing.T) {
	assert.EqualError(t, ErrOpenAfterClose, "open time must be before close time.")
	assert.EqualError(t, ErrIncompleteBreak, "incomplete break window: set both start and end.")
}

func TestValidateWeekSchedule(t *testing.T) {
	t.Run("generated week is valid", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			require.NoError(t, ValidateWeekSchedule(GenerateRandomWeek(1)))
		}
	})

	t.Run("reports the failing weekday", func(t *testing.T) {
		week := GenerateRandomWeek(1)
		week[3] = domain.DaySchedule{Weekday: 3, Active: true, OpenTime: "18:00", CloseTime: "09:00"}

		err := ValidateWeekSchedule(week)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrOpenAfterClose)
		assert.Contains(t, err.Error(), "Wednesday")
	})

	t.Run("duplicate weekday", func(t *testing.T) {
		week := []domain.DaySchedule{{Weekday: 1}, {Weekday: 1}}
		assert.EqualError(t, ValidateWeekSchedule(week), "Monday is configured more than once")
	})

	t.Run("weekday out of range", func(t *testing.T) {
		week := []domain.DaySchedule{{Weekday: 7}}
		assert.Error(t, ValidateWeekSchedule(week))
	})
}

func TestValidateAppointmentStatusTransition(t *testing.T) {
	assert.NoError(t, ValidateAppointmentStatusTransition(domain.AppointmentConfirmed, domain.AppointmentCompleted))
	assert.NoError(t, ValidateAppointmentStatusTransition(domain.AppointmentNoShow, domain.AppointmentConfirmed))
	assert.NoError(t, ValidateAppointmentStatusTransition(domain.AppointmentCancelled, domain.AppointmentCancelled))
	assert.Error(t, ValidateAppointmentStatusTransition(domain.AppointmentCompleted, domain.AppointmentConfirmed))
	assert.Error(t, ValidateAppointmentStatusTransition(domain.AppointmentCancelled, domain.AppointmentConfirmed))
	assert.Error(t, ValidateAppointmentStatusTransition(domain.AppointmentNoShow, domain.AppointmentCancelled))
}

func TestValidateDateRange(t *testing.T) {
	assert.NoError(t, ValidateDateRange("2026-01-01", "2026-01-31"))
	assert.NoError(t, ValidateDateRange("2026-01-01", "2026-01-01"))
	assert.Error(t, ValidateDateRange("2026-02-01", "2026-01-01"))
	assert.Error(t, ValidateDateRange("01/02/2026", "2026-01-01"))
}
