package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

func (h *Handler) GetAllBarbers(w http.ResponseWriter, r *http.Request) {
	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	barbers, err := h.repository.GetBarbers(r.Context(), shop.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "barbers fetched", barbers)
}

func (h *Handler) CreateBarber(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName" validate:"required,max=120"`
		Email    string `json:"email" validate:"omitempty,email"`
		Phone    string `json:"phone" validate:"omitempty,e164"`
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
	barber := &domain.Barber{
		BarbershopID: shop.ID,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
	}

	if err := h.repository.CreateBarber(r.Context(), barber); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.publishMail(r.Context(), domain.MailBarberWelcome, barber.Email, domain.BarberWelcomeMailData{
		FullName:       barber.FullName,
		BarbershopName: shop.Name,
	})

	h.createdResponse(w, r, "barber created", barber)
}

func (h *Handler) GetBarber(w http.ResponseWriter, r *http.Request) {
	barber := r.Context().Value(BarberCtx).(*domain.Barber)

	h.successResponse(w, r, "barber fetched", barber)
}

func (h *Handler) UpdateBarber(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName *string `json:"fullName" validate:"omitempty,min=1,max=120"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Phone    *string `json:"phone" validate:"omitempty,e164"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	barber := r.Context().Value(BarberCtx).(*domain.Barber)
	if req.FullName != nil {
		barber.FullName = *req.FullName
	}
	if req.Email != nil {
		barber.Email = *req.Email
	}
	if req.Phone != nil {
		barber.Phone = *req.Phone
	}
	if req.IsActive != nil {
		barber.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateBarber(r.Context(), barber); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "barber was modified concurrently, try again")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "barber updated", barber)
}

func (h *Handler) DeleteBarber(w http.ResponseWriter, r *http.Request) {
	barber := r.Context().Value(BarberCtx).(*domain.Barber)

	if err := h.repository.DeleteBarber(r.Context(), barber.BarbershopID, barber.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "appointments_barber_id_fkey":
			h.conflict(w, r, "barber has appointments; deactivate them instead")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "barber deleted", nil)
}
