package booking

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

// memoryStore is an in-memory Store whose CreateAppointment serializes like
// the advisory lock in the database does.
type memoryStore struct {
	mu           sync.Mutex
	days         map[int32]*domain.DaySchedule
	services     map[int64]*domain.Service
	barbers      map[int64]*domain.Barber
	appointments []*domain.Appointment
	nextID       int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		days:     map[int32]*domain.DaySchedule{},
		services: map[int64]*domain.Service{},
		barbers:  map[int64]*domain.Barber{},
	}
}

func (m *memoryStore) GetDaySchedule(_ context.Context, _ int64, weekday int32) (*domain.DaySchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	day, ok := m.days[weekday]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return day, nil
}

func (m *memoryStore) GetService(_ context.Context, _ int64, id int64) (*domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.services[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *memoryStore) GetBarber(_ context.Context, _ int64, id int64) (*domain.Barber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.barbers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (m *memoryStore) spans(barberID *int64, date string) []domain.BookedSpan {
	spans := make([]domain.BookedSpan, 0)
	for _, a := range m.appointments {
		if a.Date != date || a.Status == domain.AppointmentCancelled {
			continue
		}
		if barberID != nil && (a.BarberID == nil || *a.BarberID != *barberID) {
			continue
		}
		spans = append(spans, domain.BookedSpan{StartTime: a.StartTime, DurationMinutes: int(a.DurationMinutes)})
	}
	return spans
}

func (m *memoryStore) ListBookedSpans(_ context.Context, _ int64, barberID *int64, date string) ([]domain.BookedSpan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.spans(barberID, date), nil
}

func (m *memoryStore) CreateAppointment(_ context.Context, a *domain.Appointment, c *domain.Client, check func([]domain.BookedSpan) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := check(m.spans(a.BarberID, a.Date)); err != nil {
		return err
	}

	m.nextID++
	a.ID = m.nextID
	a.ClientID = m.nextID
	a.Status = domain.AppointmentConfirmed
	a.CreatedAt = time.Now()
	a.Version = 1
	c.ID = m.nextID

	stored := *a
	m.appointments = append(m.appointments, &stored)
	return nil
}

func (m *memoryStore) GetAppointment(_ context.Context, _ int64, id int64) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.appointments {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryStore) UpdateAppointmentStatus(_ context.Context, a *domain.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, stored := range m.appointments {
		if stored.ID == a.ID && stored.Version == a.Version {
			stored.Status = a.Status
			stored.Version++
			a.Version = stored.Version
			return nil
		}
	}
	return sql.ErrNoRows
}
