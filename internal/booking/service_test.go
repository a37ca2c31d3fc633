package booking

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/config"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/observability"
)

// Monday 2026-10-19, 10:10 UTC.
var fixedNow = time.Date(2026, time.October, 19, 10, 10, 0, 0, time.UTC)

var testShop = &domain.Barbershop{ID: 1, Name: "Barbearia do Zé", Slug: "barbearia-do-ze", Timezone: "UTC"}

func newTestService(t *testing.T) (*Service, *memoryStore) {
	t.Helper()

	store := newMemoryStore()
	// Monday
	store.days[1] = &domain.DaySchedule{
		BarbershopID: 1, Weekday: 1,
		OpenTime: "09:00", CloseTime: "12:00",
		BreakStart: "10:30", BreakEnd: "11:00",
		Active: true,
	}
	// Tuesday
	store.days[2] = &domain.DaySchedule{BarbershopID: 1, Weekday: 2, OpenTime: "09:00", CloseTime: "11:00", Active: true}
	// Wednesday is stored but inactive
	store.days[3] = &domain.DaySchedule{BarbershopID: 1, Weekday: 3, OpenTime: "09:00", CloseTime: "18:00", Active: false}

	store.services[10] = &domain.Service{ID: 10, BarbershopID: 1, Name: "Haircut", DurationMinutes: 30, PriceCents: 3500, IsActive: true}
	store.services[11] = &domain.Service{ID: 11, BarbershopID: 1, Name: "Haircut + Beard", DurationMinutes: 60, PriceCents: 5500, IsActive: true}
	store.services[12] = &domain.Service{ID: 12, BarbershopID: 1, Name: "Retired", DurationMinutes: 30, IsActive: false}
	store.barbers[20] = &domain.Barber{ID: 20, BarbershopID: 1, FullName: "Tony", IsActive: true}
	store.barbers[21] = &domain.Barber{ID: 21, BarbershopID: 1, FullName: "Gone", IsActive: false}

	cfg := &config.Config{}
	cfg.Booking.MaxDaysAhead = 30

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(cfg, store, logger, observability.NewBookingMetrics(prometheus.NewRegistry()))
	svc.now = func() time.Time { return fixedNow }

	return svc, store
}

func slotTimes(slots []domain.TimeSlot, available bool) []string {
	times := make([]string, 0)
	for _, s := range slots {
		if s.IsAvailable == available {
			times = append(times, s.Time)
		}
	}
	return times
}

func TestAvailability(t *testing.T) {
	t.Run("future day with bookings", func(t *testing.T) {
		svc, store := newTestService(t)
		store.appointments = append(store.appointments, &domain.Appointment{
			ID: 1, Date: "2026-10-20", StartTime: "09:30", DurationMinutes: 30, Status: domain.AppointmentConfirmed,
		})

		day, err := svc.Availability(context.Background(), AvailabilityQuery{Barbershop: testShop, ServiceID: 11, Date: "2026-10-20"})
		require.NoError(t, err)
		assert.True(t, day.Open)
		assert.Equal(t, 2, day.RequiredConsecutiveSlots)
		assert.Equal(t, []string{"10:00"}, slotTimes(day.Slots, true))
	})

	t.Run("cancelled appointments free their slots", func(t *testing.T) {
		svc, store := newTestService(t)
		store.appointments = append(store.appointments, &domain.Appointment{
			ID: 1, Date: "2026-10-20", StartTime: "09:30", DurationMinutes: 30, Status: domain.AppointmentCancelled,
		})

		day, err := svc.Availability(context.Background(), AvailabilityQuery{Barbershop: testShop, ServiceID: 11, Date: "2026-10-20"})
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:30", "10:00"}, slotTimes(day.Slots, true))
	})

	t.Run("today hides slots that already started", func(t *testing.T) {
		svc, _ := newTestService(t)

		day, err := svc.Availability(context.Background(), AvailabilityQuery{Barbershop: testShop, ServiceID: 10, Date: "2026-10-19"})
		require.NoError(t, err)
		assert.Equal(t, []string{"11:00", "11:30"}, slotTimes(day.Slots, true))
		assert.Equal(t, []string{"09:00", "09:30", "10:00"}, slotTimes(day.Slots, false))
	})

	t.Run("unconfigured weekday is closed", func(t *testing.T) {
		svc, _ := newTestService(t)

		// Sunday
		day, err := svc.Availability(context.Background(), AvailabilityQuery{Barbershop: testShop, ServiceID: 10, Date: "2026-10-25"})
		require.NoError(t, err)
		assert.False(t, day.Open)
		assert.Empty(t, day.Slots)
	})

	t.Run("inactive weekday is closed", func(t *testing.T) {
		svc, _ := newTestService(t)

		day, err := svc.Availability(context.Background(), AvailabilityQuery{Barbershop: testShop, ServiceID: 10, Date: "2026-10-21"})
		require.NoError(t, err)
		assert.False(t, day.Open)
		assert.Empty(t, day.Slots)
	})

	t.Run("barber filter only counts that barber", func(t *testing.T) {
		svc, store := newTestService(t)
		other := int64(99)
		store.appointments = append(store.appointments, &domain.Appointment{
			ID: 1, BarberID: &other, Date: "2026-10-20", StartTime: "09:00", DurationMinutes: 120, Status: domain.AppointmentConfirmed,
		})

		tony := int64(20)
		day, err := svc.Availability(context.Background(), AvailabilityQuery{Barbershop: testShop, ServiceID: 10, BarberID: &tony, Date: "2026-10-20"})
		require.NoError(t, err)
		assert.Len(t, slotTimes(day.Slots, true), 4)
	})

	t.Run("rejections", func(t *testing.T) {
		svc, _ := newTestService(t)
		gone := int64(21)
		missing := int64(404)

		tests := []struct {
			name  string
			query AvailabilityQuery
			err   error
		}{
			{"malformed date", AvailabilityQuery{Barbershop: testShop, ServiceID: 10, Date: "20-10-2026"}, ErrDateInvalid},
			{"yesterday", AvailabilityQuery{Barbershop: testShop, ServiceID: 10, Date: "2026-10-18"}, ErrDateInPast},
			{"beyond the booking window", AvailabilityQuery{Barbershop: testShop, ServiceID: 10, Date: "2026-11-19"}, ErrDateTooFar},
			{"unknown service", AvailabilityQuery{Barbershop: testShop, ServiceID: 404, Date: "2026-10-20"}, ErrServiceNotFound},
			{"inactive service", AvailabilityQuery{Barbershop: testShop, ServiceID: 12, Date: "2026-10-20"}, ErrServiceNotFound},
			{"inactive barber", AvailabilityQuery{Barbershop: testShop, ServiceID: 10, BarberID: &gone, Date: "2026-10-20"}, ErrBarberNotFound},
			{"unknown barber", AvailabilityQuery{Barbershop: testShop, ServiceID: 10, BarberID: &missing, Date: "2026-10-20"}, ErrBarberNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Availability(context.Background(), tt.query)
				assert.ErrorIs(t, err, tt.err)
			})
		}
	})
}

func TestBook(t *testing.T) {
	request := func(start string, serviceID int64) BookRequest {
		return BookRequest{
			Barbershop:  testShop,
			ServiceID:   serviceID,
			Date:        "2026-10-20",
			StartTime:   start,
			ClientName:  "Ana Souza",
			ClientPhone: "+5511999990000",
		}
	}

	t.Run("books a free slot and returns a usable token", func(t *testing.T) {
		svc, store := newTestService(t)

		appt, token, err := svc.Book(context.Background(), request("09:00", 11))
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEqual(t, token, appt.CancelTokenHash)
		assert.Equal(t, domain.AppointmentConfirmed, appt.Status)
		assert.Equal(t, int32(60), appt.DurationMinutes)
		assert.Equal(t, int64(5500), appt.PriceCents)
		assert.Len(t, store.appointments, 1)
	})

	t.Run("second booking over the same slots conflicts", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, _, err := svc.Book(context.Background(), request("09:00", 11))
		require.NoError(t, err)

		_, _, err = svc.Book(context.Background(), request("09:30", 10))
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("start off the slot grid", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, _, err := svc.Book(context.Background(), request("09:15", 10))
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("service overrunning closing time", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, _, err := svc.Book(context.Background(), request("10:30", 11))
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("slot that already started today", func(t *testing.T) {
		svc, _ := newTestService(t)

		req := request("10:00", 10)
		req.Date = "2026-10-19"
		_, _, err := svc.Book(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("concurrent bookings of one slot", func(t *testing.T) {
		svc, store := newTestService(t)

		var wg sync.WaitGroup
		var created atomic.Int32
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, _, err := svc.Book(context.Background(), request("09:30", 10)); err == nil {
					created.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), created.Load())
		assert.Len(t, store.appointments, 1)
	})
}

func TestCancel(t *testing.T) {
	book := func(t *testing.T, svc *Service, date, start string) (*domain.Appointment, string) {
		t.Helper()
		appt, token, err := svc.Book(context.Background(), BookRequest{
			Barbershop: testShop, ServiceID: 10, Date: date, StartTime: start,
			ClientName: "Ana Souza", ClientPhone: "+5511999990000",
		})
		require.NoError(t, err)
		return appt, token
	}

	t.Run("cancels with the booking token", func(t *testing.T) {
		svc, _ := newTestService(t)
		appt, token := book(t, svc, "2026-10-20", "09:00")

		cancelled, err := svc.Cancel(context.Background(), testShop, appt.ID, token)
		require.NoError(t, err)
		assert.Equal(t, domain.AppointmentCancelled, cancelled.Status)

		day, err := svc.Availability(context.Background(), AvailabilityQuery{Barbershop: testShop, ServiceID: 10, Date: "2026-10-20"})
		require.NoError(t, err)
		assert.Contains(t, slotTimes(day.Slots, true), "09:00")
	})

	t.Run("wrong token", func(t *testing.T) {
		svc, _ := newTestService(t)
		appt, _ := book(t, svc, "2026-10-20", "09:00")

		_, err := svc.Cancel(context.Background(), testShop, appt.ID, "not-the-token")
		assert.ErrorIs(t, err, ErrInvalidCancelToken)
	})

	t.Run("twice", func(t *testing.T) {
		svc, _ := newTestService(t)
		appt, token := book(t, svc, "2026-10-20", "09:00")

		_, err := svc.Cancel(context.Background(), testShop, appt.ID, token)
		require.NoError(t, err)
		_, err = svc.Cancel(context.Background(), testShop, appt.ID, token)
		assert.ErrorIs(t, err, ErrAppointmentNotCancellable)
	})

	t.Run("after it started", func(t *testing.T) {
		svc, _ := newTestService(t)
		appt, token := book(t, svc, "2026-10-19", "11:00")

		svc.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
		_, err := svc.Cancel(context.Background(), testShop, appt.ID, token)
		assert.ErrorIs(t, err, ErrAppointmentNotCancellable)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Cancel(context.Background(), testShop, 404, "x")
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}
