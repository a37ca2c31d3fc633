package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

func (h *Handler) GetAllServices(w http.ResponseWriter, r *http.Request) {
	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	services, err := h.repository.GetServices(r.Context(), shop.ID, false)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "services fetched", services)
}

func (h *Handler) serviceConstraintError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.ConstraintName {
		case "services_barbershop_id_name_key":
			h.conflict(w, r, "service name already exists")
		case "appointments_service_id_fkey":
			h.conflict(w, r, "service has appointments; deactivate it instead")
		default:
			h.internalServerError(w, r, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		h.conflict(w, r, "service was modified concurrently, try again")
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name" validate:"required,max=120"`
		Description     string `json:"description" validate:"max=500"`
		DurationMinutes int32  `json:"durationMinutes" validate:"required,min=1,max=720"`
		PriceCents      int64  `json:"priceCents" validate:"min=0"`
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
	service := &domain.Service{
		BarbershopID:    shop.ID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
	}

	if err := h.repository.CreateService(r.Context(), service); err != nil {
		h.serviceConstraintError(w, r, err)
		return
	}

	h.createdResponse(w, r, "service created", service)
}

func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	service := r.Context().Value(ServiceCtx).(*domain.Service)

	h.successResponse(w, r, "service fetched", service)
}

func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            *string `json:"name" validate:"omitempty,min=1,max=120"`
		Description     *string `json:"description" validate:"omitempty,max=500"`
		DurationMinutes *int32  `json:"durationMinutes" validate:"omitempty,min=1,max=720"`
		PriceCents      *int64  `json:"priceCents" validate:"omitempty,min=0"`
		IsActive        *bool   `json:"isActive"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// existing appointments keep the duration and price they were booked with
	service := r.Context().Value(ServiceCtx).(*domain.Service)
	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceCents != nil {
		service.PriceCents = *req.PriceCents
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateService(r.Context(), service); err != nil {
		h.serviceConstraintError(w, r, err)
		return
	}

	h.successResponse(w, r, "service updated", service)
}

func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	service := r.Context().Value(ServiceCtx).(*domain.Service)

	if err := h.repository.DeleteService(r.Context(), service.BarbershopID, service.ID); err != nil {
		h.serviceConstraintError(w, r, err)
		return
	}

	h.successResponse(w, r, "service deleted", nil)
}
