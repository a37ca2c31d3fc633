package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/booking"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/config"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/observability"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/repository"
)

// MailPublisher is the part of *amqp.Channel the handlers use.
type MailPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	booking     *booking.Service
	translator  ut.Translator
	mailChannel MailPublisher
	redisClient *redis.Client
	metrics     *observability.BookingMetrics
	gatherer    prometheus.Gatherer
	logger      *slog.Logger

	Mux *chi.Mux
}

type Options struct {
	Config      *config.Config
	Repository  *repository.Repository
	Booking     *booking.Service
	MailChannel MailPublisher
	Redis       *redis.Client
	Metrics     *observability.BookingMetrics
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
}

func NewHandler(opts Options) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &Handler{
		validate:    validate,
		config:      opts.Config,
		repository:  opts.Repository,
		booking:     opts.Booking,
		translator:  trans,
		mailChannel: opts.MailChannel,
		redisClient: opts.Redis,
		metrics:     opts.Metrics,
		gatherer:    gatherer,
		logger:      logger,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.requestLogger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Healthz)
	h.Mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	// booking page, no token
	h.Mux.Route("/public/{slug}", func(r chi.Router) {
		r.Use(h.rateLimit)
		r.Use(h.publicBarbershop)
		r.Get("/", h.GetPublicBarbershop)
		r.Get("/services", h.GetPublicServices)
		r.Get("/barbers", h.GetPublicBarbers)
		r.Get("/availability", h.GetAvailability)
		r.Route("/appointments", func(r chi.Router) {
			r.With(h.idempotency).Post("/", h.BookAppointment)
			r.Post("/{id}/cancel", h.CancelAppointmentByClient)
		})
	})

	// dashboard, token issued by the hosted auth backend
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.With(h.RequiredRole([]domain.Role{domain.RoleOwner})).Post("/barbershops", h.CreateBarbershop)

		r.Route("/me", func(r chi.Router) {
			r.Use(h.myBarbershop)

			r.Get("/barbershop", h.GetMyBarbershop)
			r.With(h.RequiredRole([]domain.Role{domain.RoleOwner})).Patch("/barbershop", h.UpdateMyBarbershop)

			r.Get("/schedule", h.GetWeekSchedule)
			r.With(h.RequiredRole([]domain.Role{domain.RoleOwner})).Put("/schedule", h.ReplaceWeekSchedule)

			r.Route("/services", func(r chi.Router) {
				r.Get("/", h.GetAllServices)
				r.With(h.RequiredRole([]domain.Role{domain.RoleOwner})).Post("/", h.CreateService)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.serviceInfo)
					r.Get("/", h.GetService)
					r.With(h.RequiredRole([]domain.Role{domain.RoleOwner})).Patch("/", h.UpdateService)
					r.With(h.RequiredRole([]domain.Role{domain.RoleOwner})).Delete("/", h.DeleteService)
				})
			})

			r.Route("/barbers", func(r chi.Router) {
				r.Get("/", h.GetAllBarbers)
				r.With(h.RequiredRole([]domain.Role{domain.RoleOwner})).Post("/", h.CreateBarber)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.barberInfo)
					r.Get("/", h.GetBarber)
					r.With(h.RequiredRole([]domain.Role{domain.RoleOwner})).Patch("/", h.UpdateBarber)
					r.With(h.RequiredRole([]domain.Role{domain.RoleOwner})).Delete("/", h.DeleteBarber)
				})
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", h.GetAppointments)
				r.Patch("/{id}/status", h.UpdateAppointmentStatus)
			})

			r.Get("/clients", h.GetClients)
			r.With(h.RequiredRole([]domain.Role{domain.RoleOwner})).Get("/finance", h.GetFinanceSummary)
		})
	})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.repository.Ping(r.Context()); err != nil {
		h.logger.Error("database ping failed", "error", err)
		h.errorResponse(w, r, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	h.successResponse(w, r, "ok", nil)
}
