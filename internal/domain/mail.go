package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const (
	MailBookingConfirmed = "booking_confirmed"
	MailBookingCancelled = "booking_cancelled"
	MailBarberWelcome    = "barber_welcome"
)

type BookingConfirmedMailData struct {
	ClientName     string `json:"clientName"`
	BarbershopName string `json:"barbershopName"`
	ServiceName    string `json:"serviceName"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	AppointmentID  int64  `json:"appointmentID"`
	CancelToken    string `json:"cancelToken"`
}

type BookingCancelledMailData struct {
	ClientName     string `json:"clientName"`
	BarbershopName string `json:"barbershopName"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
}

type BarberWelcomeMailData struct {
	FullName       string `json:"fullName"`
	BarbershopName string `json:"barbershopName"`
}
