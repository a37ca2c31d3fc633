package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/utils"
)

func (h *Handler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().In(shop.Location()).Format(time.DateOnly)
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		h.badRequest(w, r, errors.New("date must be formatted as YYYY-MM-DD"))
		return
	}

	appointments, err := h.repository.GetAppointmentsByDate(r.Context(), shop.ID, date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "appointments fetched", appointments)
}

func (h *Handler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status" validate:"required,oneof=confirmed completed cancelled no_show"`
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

	appt, err := h.repository.GetAppointment(r.Context(), shop.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "appointment not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	next := domain.AppointmentStatus(req.Status)
	if err := utils.ValidateAppointmentStatusTransition(appt.Status, next); err != nil {
		h.conflict(w, r, err.Error())
		return
	}
	if appt.Status == next {
		h.successResponse(w, r, "appointment unchanged", appt)
		return
	}

	appt.Status = next
	if err := h.repository.UpdateAppointmentStatus(r.Context(), appt); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "appointment was modified concurrently, try again")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if next == domain.AppointmentCancelled {
		h.notifyCancelled(r, shop, appt)
	}

	h.successResponse(w, r, "appointment updated", appt)
}

func (h *Handler) notifyCancelled(r *http.Request, shop *domain.Barbershop, appt *domain.Appointment) {
	client, err := h.repository.GetClient(r.Context(), shop.ID, appt.ClientID)
	if err != nil {
		h.logger.Warn("cannot load client for cancellation mail", "appointment_id", appt.ID, "error", err)
		return
	}

	h.publishMail(r.Context(), domain.MailBookingCancelled, client.Email, domain.BookingCancelledMailData{
		ClientName:     client.FullName,
		BarbershopName: shop.Name,
		Date:           appt.Date,
		StartTime:      appt.StartTime,
	})
}

func (h *Handler) GetClients(w http.ResponseWriter, r *http.Request) {
	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	clients, err := h.repository.GetClients(r.Context(), shop.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "clients fetched", clients)
}

func (h *Handler) GetFinanceSummary(w http.ResponseWriter, r *http.Request) {
	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" && to == "" {
		now := time.Now().In(shop.Location())
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		from = first.Format(time.DateOnly)
		to = first.AddDate(0, 1, -1).Format(time.DateOnly)
	}

	if err := utils.ValidateDateRange(from, to); err != nil {
		h.badRequest(w, r, err)
		return
	}

	summary, err := h.repository.GetFinanceSummary(r.Context(), shop.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "finance summary fetched", summary)
}
