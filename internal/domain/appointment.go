package domain

import "time"

type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// IsTerminal reports whether the status can no longer change.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

type Appointment struct {
	ID              int64             `json:"id"`
	BarbershopID    int64             `json:"-"`
	BarberID        *int64            `json:"barberID"` // nil when the client did not pick a barber
	ServiceID       int64             `json:"serviceID"`
	ClientID        int64             `json:"clientID"`
	Date            string            `json:"date"`      // YYYY-MM-DD
	StartTime       string            `json:"startTime"` // HH:MM
	DurationMinutes int32             `json:"durationMinutes"`
	PriceCents      int64             `json:"priceCents"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes"`
	CancelTokenHash string            `json:"-"`
	CreatedAt       time.Time         `json:"createdAt"`
	Version         int32             `json:"-"`
}

// BookedSpan is how the slot engine sees an existing, non-cancelled appointment.
type BookedSpan struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// TimeSlot is one 30-minute start time offered on the booking page.
type TimeSlot struct {
	Time                     string `json:"time"`
	IsAvailable              bool   `json:"isAvailable"`
	RequiredConsecutiveSlots int    `json:"requiredConsecutiveSlots"`
}

type FinanceSummary struct {
	From         string                  `json:"from"`
	To           string                  `json:"to"`
	Completed    int64                   `json:"completed"`
	RevenueCents int64                   `json:"revenueCents"`
	ByService    []ServiceFinanceSummary `json:"byService"`
}

type ServiceFinanceSummary struct {
	ServiceID    int64  `json:"serviceID"`
	ServiceName  string `json:"serviceName"`
	Completed    int64  `json:"completed"`
	RevenueCents int64  `json:"revenueCents"`
}
