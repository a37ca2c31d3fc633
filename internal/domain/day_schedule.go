package domain

import "time"

// DaySchedule is one weekday of a barbershop's operating calendar.
//
// All times are zero-padded "HH:MM" strings on the same day, so lexical
// comparison orders them correctly. An empty BreakStart/BreakEnd means no break.
type DaySchedule struct {
	BarbershopID int64  `json:"-"`
	Weekday      int32  `json:"weekday"` // 0 = Sunday ... 6 = Saturday
	OpenTime     string `json:"openTime"`
	CloseTime    string `json:"closeTime"`
	BreakStart   string `json:"breakStart"`
	BreakEnd     string `json:"breakEnd"`
	Active       bool   `json:"active"`
}

func (d *DaySchedule) HasBreak() bool {
	return d.BreakStart != "" && d.BreakEnd != ""
}

// ClosedDay is what a weekday without any stored configuration means.
func ClosedDay(barbershopID int64, weekday time.Weekday) DaySchedule {
	return DaySchedule{
		BarbershopID: barbershopID,
		Weekday:      int32(weekday),
		Active:       false,
	}
}
