package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

var (
	ErrOpenCloseRequired    = errors.New("open and close times are required for active days.")
	ErrOpenAfterClose       = errors.New("open time must be before close time.")
	ErrIncompleteBreak      = errors.New("incomplete break window: set both start and end.")
	ErrBreakStartBeforeOpen = errors.New("break start must be after opening time.")
	ErrBreakEndAfterClose   = errors.New("break end must be before closing time.")
	ErrBreakOrder           = errors.New("break start must precede break end.")
)

// ValidateDaySchedule checks one weekday's hours and returns the first rule it breaks.
//
// Times are compared as strings: they are zero-padded "HH:MM" on the same day, so
// lexical order is chronological order.
func ValidateDaySchedule(d *domain.DaySchedule) error {
	if !d.Active {
		return nil
	}

	if d.OpenTime == "" || d.CloseTime == "" {
		return ErrOpenCloseRequired
	}
	if d.OpenTime >= d.CloseTime {
		return ErrOpenAfterClose
	}

	if d.BreakStart == "" && d.BreakEnd == "" {
		return nil
	}
	if d.BreakStart == "" || d.BreakEnd == "" {
		return ErrIncompleteBreak
	}
	if d.BreakStart <= d.OpenTime {
		return ErrBreakStartBeforeOpen
	}
	if d.BreakEnd >= d.CloseTime {
		return ErrBreakEndAfterClose
	}
	if d.BreakStart >= d.BreakEnd {
		return ErrBreakOrder
	}

	return nil
}

// ValidateWeekSchedule validates every day before any of them may be saved.
func ValidateWeekSchedule(days []domain.DaySchedule) error {
	seen := make(map[int32]bool)

	for i := range days {
		day := &days[i]
		if day.Weekday < 0 || day.Weekday > 6 {
			return fmt.Errorf("weekday %d is out of range", day.Weekday)
		}
		if seen[day.Weekday] {
			return fmt.Errorf("%s is configured more than once", time.Weekday(day.Weekday))
		}
		seen[day.Weekday] = true

		if err := ValidateDaySchedule(day); err != nil {
			return fmt.Errorf("%s: %w", time.Weekday(day.Weekday), err)
		}
	}

	return nil
}

var validStatusTransitions = map[domain.AppointmentStatus][]domain.AppointmentStatus{
	domain.AppointmentConfirmed: {domain.AppointmentCompleted, domain.AppointmentCancelled, domain.AppointmentNoShow},
	domain.AppointmentNoShow:    {domain.AppointmentConfirmed, domain.AppointmentCompleted},
}

func ValidateAppointmentStatusTransition(from, to domain.AppointmentStatus) error {
	if from == to {
		return nil
	}
	if from.IsTerminal() {
		return fmt.Errorf("appointment is already %s", from)
	}
	for _, allowed := range validStatusTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("cannot change appointment from %s to %s", from, to)
}

// ValidateDateRange checks a YYYY-MM-DD range used by reports.
func ValidateDateRange(from, to string) error {
	fromDate, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return fmt.Errorf("invalid start date %q", from)
	}
	toDate, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return fmt.Errorf("invalid end date %q", to)
	}
	if toDate.Before(fromDate) {
		return errors.New("end date must not be before start date")
	}
	return nil
}
