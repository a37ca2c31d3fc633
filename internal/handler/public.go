package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/booking"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

func (h *Handler) GetPublicBarbershop(w http.ResponseWriter, r *http.Request) {
	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	h.successResponse(w, r, "barbershop fetched", shop)
}

func (h *Handler) GetPublicServices(w http.ResponseWriter, r *http.Request) {
	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	services, err := h.repository.GetServices(r.Context(), shop.ID, true)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "services fetched", services)
}

type publicBarber struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

func (h *Handler) GetPublicBarbers(w http.ResponseWriter, r *http.Request) {
	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	barbers, err := h.repository.GetBarbers(r.Context(), shop.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// contact details stay private
	res := make([]publicBarber, 0, len(barbers))
	for _, b := range barbers {
		if b.IsActive {
			res = append(res, publicBarber{ID: b.ID, FullName: b.FullName})
		}
	}

	h.successResponse(w, r, "barbers fetched", res)
}

// bookingError maps booking failures to responses.
func (h *Handler) bookingError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, booking.ErrSlotUnavailable):
		h.conflict(w, r, err.Error())
	case errors.As(err, &pgErr) && pgErr.ConstraintName == "appointments_slot_key":
		h.conflict(w, r, booking.ErrSlotUnavailable.Error())
	case errors.Is(err, booking.ErrEditConflict),
		errors.Is(err, booking.ErrAppointmentNotCancellable):
		h.conflict(w, r, err.Error())
	case errors.Is(err, booking.ErrServiceNotFound),
		errors.Is(err, booking.ErrBarberNotFound),
		errors.Is(err, booking.ErrAppointmentNotFound):
		h.notFound(w, r, err.Error())
	case errors.Is(err, booking.ErrInvalidCancelToken):
		h.errorResponse(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, booking.ErrDateInvalid),
		errors.Is(err, booking.ErrDateInPast),
		errors.Is(err, booking.ErrDateTooFar):
		h.badRequest(w, r, err)
	default:
		h.internalServerError(w, r, err)
	}
}

func parseOptionalID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)
	q := r.URL.Query()

	serviceID, err := strconv.ParseInt(q.Get("serviceID"), 10, 64)
	if err != nil {
		h.badRequest(w, r, errors.New("serviceID is required"))
		return
	}
	barberID, err := parseOptionalID(q.Get("barberID"))
	if err != nil {
		h.badRequest(w, r, errors.New("invalid barberID"))
		return
	}

	day, err := h.booking.Availability(r.Context(), booking.AvailabilityQuery{
		Barbershop: shop,
		ServiceID:  serviceID,
		BarberID:   barberID,
		Date:       q.Get("date"),
	})
	if err != nil {
		h.bookingError(w, r, err)
		return
	}

	h.successResponse(w, r, "availability fetched", day)
}

type bookingResponse struct {
	Appointment *domain.Appointment `json:"appointment"`
	CancelToken string              `json:"cancelToken"`
}

func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ServiceID   int64  `json:"serviceID" validate:"required,min=1"`
		BarberID    *int64 `json:"barberID" validate:"omitempty,min=1"`
		Date        string `json:"date" validate:"required,datetime=2006-01-02"`
		StartTime   string `json:"startTime" validate:"required,len=5,datetime=15:04"`
		ClientName  string `json:"clientName" validate:"required,max=120"`
		ClientPhone string `json:"clientPhone" validate:"required,e164"`
		ClientEmail string `json:"clientEmail" validate:"omitempty,email"`
		Notes       string `json:"notes" validate:"max=500"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	appt, token, err := h.booking.Book(r.Context(), booking.BookRequest{
		Barbershop:  shop,
		ServiceID:   req.ServiceID,
		BarberID:    req.BarberID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Notes:       req.Notes,
	})
	if err != nil {
		h.bookingError(w, r, err)
		return
	}

	serviceName := ""
	if service, err := h.repository.GetService(r.Context(), shop.ID, appt.ServiceID); err == nil {
		serviceName = service.Name
	}
	h.publishMail(r.Context(), domain.MailBookingConfirmed, req.ClientEmail, domain.BookingConfirmedMailData{
		ClientName:     req.ClientName,
		BarbershopName: shop.Name,
		ServiceName:    serviceName,
		Date:           appt.Date,
		StartTime:      appt.StartTime,
		AppointmentID:  appt.ID,
		CancelToken:    token,
	})

	h.createdResponse(w, r, "appointment booked", bookingResponse{
		Appointment: appt,
		CancelToken: token,
	})
}

func (h *Handler) CancelAppointmentByClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token" validate:"required,max=128"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	id, err := idParam(r)
	if err != nil {
		h.badRequest(w, r, errors.New("invalid appointment ID"))
		return
	}

	appt, err := h.booking.Cancel(r.Context(), shop, id, req.Token)
	if err != nil {
		h.bookingError(w, r, err)
		return
	}

	h.notifyCancelled(r, shop, appt)

	h.successResponse(w, r, "appointment cancelled", appt)
}
