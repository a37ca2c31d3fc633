package booking

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/config"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/observability"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/utils"
)

const dateLayout = "2006-01-02"

// Store is the persistence the booking flow needs. *repository.Repository
// satisfies it.
type Store interface {
	GetDaySchedule(ctx context.Context, barbershopID int64, weekday int32) (*domain.DaySchedule, error)
	GetService(ctx context.Context, barbershopID, id int64) (*domain.Service, error)
	GetBarber(ctx context.Context, barbershopID, id int64) (*domain.Barber, error)
	ListBookedSpans(ctx context.Context, barbershopID int64, barberID *int64, date string) ([]domain.BookedSpan, error)
	CreateAppointment(ctx context.Context, a *domain.Appointment, c *domain.Client, check func([]domain.BookedSpan) error) error
	GetAppointment(ctx context.Context, barbershopID, id int64) (*domain.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, a *domain.Appointment) error
}

type Service struct {
	cfg     *config.Config
	store   Store
	logger  *slog.Logger
	metrics *observability.BookingMetrics
	tracer  trace.Tracer
	now     func() time.Time
}

func NewService(cfg *config.Config, store Store, logger *slog.Logger, metrics *observability.BookingMetrics) *Service {
	return &Service{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer("github.com/sysu-ecnc-dev/barber-booking/backend/internal/booking"),
		now:     time.Now,
	}
}

type AvailabilityQuery struct {
	Barbershop *domain.Barbershop
	ServiceID  int64
	BarberID   *int64
	Date       string
}

type DayAvailability struct {
	Date                     string            `json:"date"`
	Open                     bool              `json:"open"`
	ServiceID                int64             `json:"serviceID"`
	DurationMinutes          int32             `json:"durationMinutes"`
	RequiredConsecutiveSlots int               `json:"requiredConsecutiveSlots"`
	Slots                    []domain.TimeSlot `json:"slots"`
}

type BookRequest struct {
	Barbershop  *domain.Barbershop
	ServiceID   int64
	BarberID    *int64
	Date        string
	StartTime   string
	ClientName  string
	ClientPhone string
	ClientEmail string
	Notes       string
}

// bookingDay is everything resolved for one (barbershop, service, date) before
// slots are computed.
type bookingDay struct {
	isToday  bool
	nowClock string
	service  *domain.Service
	sched    *scheduler.Scheduler
}

func (s *Service) resolveDay(ctx context.Context, shop *domain.Barbershop, serviceID int64, barberID *int64, date string) (*bookingDay, error) {
	loc := shop.Location()
	now := s.now().In(loc)

	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, ErrDateInvalid
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return nil, ErrDateInPast
	}
	if day.After(today.AddDate(0, 0, s.cfg.Booking.MaxDaysAhead)) {
		return nil, ErrDateTooFar
	}

	service, err := s.store.GetService(ctx, shop.ID, serviceID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrServiceNotFound
	case err != nil:
		return nil, err
	case !service.IsActive:
		return nil, ErrServiceNotFound
	}

	if barberID != nil {
		barber, err := s.store.GetBarber(ctx, shop.ID, *barberID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrBarberNotFound
		case err != nil:
			return nil, err
		case !barber.IsActive:
			return nil, ErrBarberNotFound
		}
	}

	schedule, err := s.store.GetDaySchedule(ctx, shop.ID, int32(day.Weekday()))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		closed := domain.ClosedDay(shop.ID, day.Weekday())
		schedule = &closed
	case err != nil:
		return nil, err
	}

	return &bookingDay{
		isToday:  day.Equal(today),
		nowClock: scheduler.ClockOf(now),
		service:  service,
		sched:    scheduler.New(schedule),
	}, nil
}

func (s *Service) warnUnmatched(shop *domain.Barbershop, date string, sched *scheduler.Scheduler, spans []domain.BookedSpan) {
	unmatched := sched.Unmatched(spans)
	if len(unmatched) == 0 {
		return
	}

	s.metrics.ObserveUnmatched(len(unmatched))
	for _, span := range unmatched {
		s.logger.Warn(
			"appointment does not start on a slot and blocks nothing",
			slog.Int64("barbershop_id", shop.ID),
			slog.String("date", date),
			slog.String("start_time", span.StartTime),
			slog.Int("duration_minutes", span.DurationMinutes),
		)
	}
}

// Availability lists every slot of the day and whether the service can start
// there. Slots already started or past are never available for today.
func (s *Service) Availability(ctx context.Context, q AvailabilityQuery) (_ *DayAvailability, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.Availability", trace.WithAttributes(
		attribute.Int64("barbershop.id", q.Barbershop.ID),
		attribute.Int64("service.id", q.ServiceID),
		attribute.String("booking.date", q.Date),
	))
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.metrics.ObserveAvailability(outcome, time.Since(start).Seconds())
		span.End()
	}()

	bd, err := s.resolveDay(ctx, q.Barbershop, q.ServiceID, q.BarberID, q.Date)
	if err != nil {
		return nil, err
	}

	spans, err := s.store.ListBookedSpans(ctx, q.Barbershop.ID, q.BarberID, q.Date)
	if err != nil {
		return nil, err
	}
	s.warnUnmatched(q.Barbershop, q.Date, bd.sched, spans)

	slots := bd.sched.Availability(spans, int(bd.service.DurationMinutes))
	if bd.isToday {
		for i := range slots {
			if slots[i].Time <= bd.nowClock {
				slots[i].IsAvailable = false
			}
		}
	}

	return &DayAvailability{
		Date:                     q.Date,
		Open:                     len(bd.sched.Slots()) > 0,
		ServiceID:                bd.service.ID,
		DurationMinutes:          bd.service.DurationMinutes,
		RequiredConsecutiveSlots: scheduler.RequiredSlots(int(bd.service.DurationMinutes)),
		Slots:                    slots,
	}, nil
}

// Book creates a confirmed appointment and returns it with the plain
// cancellation token; only the token's hash is stored.
func (s *Service) Book(ctx context.Context, req BookRequest) (_ *domain.Appointment, _ string, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.Book", trace.WithAttributes(
		attribute.Int64("barbershop.id", req.Barbershop.ID),
		attribute.Int64("service.id", req.ServiceID),
		attribute.String("booking.date", req.Date),
		attribute.String("booking.start_time", req.StartTime),
	))
	defer func() {
		switch {
		case err == nil:
			s.metrics.ObserveBooking("created")
		case errors.Is(err, ErrSlotUnavailable):
			s.metrics.ObserveBooking("conflict")
		default:
			s.metrics.ObserveBooking("rejected")
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	bd, err := s.resolveDay(ctx, req.Barbershop, req.ServiceID, req.BarberID, req.Date)
	if err != nil {
		return nil, "", err
	}

	if bd.isToday && req.StartTime <= bd.nowClock {
		return nil, "", ErrSlotUnavailable
	}

	token, err := utils.GenerateCancelToken()
	if err != nil {
		return nil, "", err
	}
	tokenHash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	appt := &domain.Appointment{
		BarbershopID:    req.Barbershop.ID,
		BarberID:        req.BarberID,
		ServiceID:       bd.service.ID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: bd.service.DurationMinutes,
		PriceCents:      bd.service.PriceCents,
		Notes:           req.Notes,
		CancelTokenHash: string(tokenHash),
	}
	client := &domain.Client{
		BarbershopID: req.Barbershop.ID,
		FullName:     req.ClientName,
		Phone:        req.ClientPhone,
		Email:        req.ClientEmail,
	}

	check := func(spans []domain.BookedSpan) error {
		s.warnUnmatched(req.Barbershop, req.Date, bd.sched, spans)
		if !bd.sched.IsBookable(spans, req.StartTime, int(bd.service.DurationMinutes)) {
			return ErrSlotUnavailable
		}
		return nil
	}

	if err := s.store.CreateAppointment(ctx, appt, client, check); err != nil {
		return nil, "", err
	}

	return appt, token, nil
}

// Cancel lets a client cancel their own appointment with the token they got
// when booking. Only confirmed appointments that have not started qualify.
func (s *Service) Cancel(ctx context.Context, shop *domain.Barbershop, appointmentID int64, token string) (_ *domain.Appointment, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.Cancel", trace.WithAttributes(
		attribute.Int64("barbershop.id", shop.ID),
		attribute.Int64("appointment.id", appointmentID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	appt, err := s.store.GetAppointment(ctx, shop.ID, appointmentID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrAppointmentNotFound
	case err != nil:
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(appt.CancelTokenHash), []byte(token)); err != nil {
		return nil, ErrInvalidCancelToken
	}

	if appt.Status != domain.AppointmentConfirmed {
		return nil, ErrAppointmentNotCancellable
	}

	loc := shop.Location()
	startsAt, err := time.ParseInLocation(dateLayout+" 15:04", appt.Date+" "+appt.StartTime, loc)
	if err != nil {
		return nil, err
	}
	if !s.now().Before(startsAt) {
		return nil, ErrAppointmentNotCancellable
	}

	appt.Status = domain.AppointmentCancelled
	if err := s.store.UpdateAppointmentStatus(ctx, appt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEditConflict
		}
		return nil, err
	}

	return appt, nil
}
