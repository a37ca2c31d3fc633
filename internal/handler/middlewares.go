package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		ctx := context.WithValue(r.Context(), RequestIDCtxKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		h.logger.Info("request handled", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "request_id", requestIDFrom(r.Context()), "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				fmt.Print(string(debug.Stack()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			h.errorResponse(w, r, http.StatusUnauthorized, "not signed in")
			return
		}

		claims, err := h.parseToken(tokenString)
		if err != nil {
			h.errorResponse(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, RoleCtxKey, claims.Role)
		ctx = context.WithValue(ctx, SubCtxKey, claims.Subject)
		ctx = context.WithValue(ctx, BarbershopCtxKey, claims.BarbershopID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleCtx, _ := r.Context().Value(RoleCtxKey).(string)
			if !slices.Contains(roles, domain.Role(roleCtx)) {
				h.errorResponse(w, r, http.StatusForbidden, "permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// myBarbershop loads the tenant the signed-in user belongs to.
func (h *Handler) myBarbershop(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		role, _ := ctx.Value(RoleCtxKey).(string)

		var (
			shop *domain.Barbershop
			err  error
		)
		switch domain.Role(role) {
		case domain.RoleOwner:
			shop, err = h.repository.GetBarbershopByOwner(ctx, ctx.Value(SubCtxKey).(string))
		case domain.RoleStaff:
			shop, err = h.repository.GetBarbershopByID(ctx, ctx.Value(BarbershopCtxKey).(int64))
		default:
			h.errorResponse(w, r, http.StatusForbidden, "permission denied")
			return
		}
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "barbershop not found, create one first")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, BarbershopCtx, shop)))
	})
}

func (h *Handler) publicBarbershop(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shop, err := h.repository.GetBarbershopBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "barbershop not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), BarbershopCtx, shop)))
	})
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) serviceInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

		id, err := idParam(r)
		if err != nil {
			h.badRequest(w, r, errors.New("invalid service ID"))
			return
		}

		service, err := h.repository.GetService(r.Context(), shop.ID, id)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "service not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ServiceCtx, service)))
	})
}

func (h *Handler) barberInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)

		id, err := idParam(r)
		if err != nil {
			h.badRequest(w, r, errors.New("invalid barber ID"))
			return
		}

		barber, err := h.repository.GetBarber(r.Context(), shop.ID, id)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "barber not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), BarberCtx, barber)))
	})
}
