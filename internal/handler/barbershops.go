package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/utils"
)

func (h *Handler) CreateBarbershop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required,max=120"`
		Phone    string `json:"phone" validate:"omitempty,e164"`
		Email    string `json:"email" validate:"omitempty,email"`
		Address  string `json:"address" validate:"max=255"`
		Timezone string `json:"timezone" validate:"omitempty,timezone"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	slug := utils.Slugify(req.Name)
	if slug == "" {
		h.badRequest(w, r, errors.New("name must contain at least one letter or digit"))
		return
	}

	shop := &domain.Barbershop{
		OwnerID:  r.Context().Value(SubCtxKey).(string),
		Name:     req.Name,
		Slug:     slug,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Timezone: req.Timezone,
	}
	if shop.Timezone == "" {
		shop.Timezone = h.config.Booking.DefaultTimezone
	}

	if err := h.repository.CreateBarbershop(r.Context(), shop); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "barbershops_owner_id_key":
				h.conflict(w, r, "you already own a barbershop")
			case "barbershops_slug_key":
				h.conflict(w, r, "slug already taken, pick another name")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.createdResponse(w, r, "barbershop created", shop)
}

func (h *Handler) GetMyBarbershop(w http.ResponseWriter, r *http.Request) {
	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	h.successResponse(w, r, "barbershop fetched", shop)
}

func (h *Handler) UpdateMyBarbershop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name" validate:"omitempty,max=120"`
		Phone    *string `json:"phone" validate:"omitempty,e164"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Address  *string `json:"address" validate:"omitempty,max=255"`
		Timezone *string `json:"timezone" validate:"omitempty,timezone"`
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

	// the slug is the public URL and stays put when the name changes
	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Email != nil {
		shop.Email = *req.Email
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.Timezone != nil {
		shop.Timezone = *req.Timezone
	}

	if err := h.repository.UpdateBarbershop(r.Context(), shop); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "barbershop was modified concurrently, try again")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "barbershop updated", shop)
}
