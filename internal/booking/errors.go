package booking

import "errors"

var (
	ErrDateInvalid               = errors.New("date must be formatted as YYYY-MM-DD")
	ErrDateInPast                = errors.New("date is in the past")
	ErrDateTooFar                = errors.New("date is too far in the future")
	ErrServiceNotFound           = errors.New("service not found")
	ErrBarberNotFound            = errors.New("barber not found")
	ErrSlotUnavailable           = errors.New("the selected time is no longer available")
	ErrAppointmentNotFound       = errors.New("appointment not found")
	ErrInvalidCancelToken        = errors.New("invalid cancellation token")
	ErrAppointmentNotCancellable = errors.New("appointment can no longer be cancelled")
	ErrEditConflict              = errors.New("appointment was modified concurrently, try again")
)
