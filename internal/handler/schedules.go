package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/utils"
)

// fullWeek fills weekdays that were never configured with closed days.
func fullWeek(barbershopID int64, stored []domain.DaySchedule) []domain.DaySchedule {
	week := make([]domain.DaySchedule, 7)
	for i := range week {
		week[i] = domain.ClosedDay(barbershopID, time.Weekday(i))
	}
	for _, day := range stored {
		if day.Weekday >= 0 && day.Weekday < 7 {
			week[day.Weekday] = day
		}
	}
	return week
}

func (h *Handler) GetWeekSchedule(w http.ResponseWriter, r *http.Request) {
	shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

	days, err := h.repository.GetDaySchedules(r.Context(), shop.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule fetched", fullWeek(shop.ID, days))
}

func (h *Handler) ReplaceWeekSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Days []struct {
			Weekday    *int32 `json:"weekday" validate:"required,min=0,max=6"`
			OpenTime   string `json:"openTime" validate:"omitempty,len=5,datetime=15:04"`
			CloseTime  string `json:"closeTime" validate:"omitempty,len=5,datetime=15:04"`
			BreakStart string `json:"breakStart" validate:"omitempty,len=5,datetime=15:04"`
			BreakEnd   string `json:"breakEnd" validate:"omitempty,len=5,datetime=15:04"`
			Active     bool   `json:"active"`
		} `json:"days" validate:"required,max=7,dive"`
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

	days := make([]domain.DaySchedule, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, domain.DaySchedule{
			BarbershopID: shop.ID,
			Weekday:      *d.Weekday,
			OpenTime:     d.OpenTime,
			CloseTime:    d.CloseTime,
			BreakStart:   d.BreakStart,
			BreakEnd:     d.BreakEnd,
			Active:       d.Active,
		})
	}

	if err := utils.ValidateWeekSchedule(days); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplaceDaySchedules(r.Context(), shop.ID, days); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule saved", fullWeek(shop.ID, days))
}
