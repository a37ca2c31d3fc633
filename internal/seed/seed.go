package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	mrand "math/rand"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/booking"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/utils"
)

// Store is what seeding writes through. *repository.Repository satisfies it.
type Store interface {
	CreateBarbershop(ctx context.Context, b *domain.Barbershop) error
	ReplaceDaySchedules(ctx context.Context, barbershopID int64, days []domain.DaySchedule) error
	CreateService(ctx context.Context, s *domain.Service) error
	CreateBarber(ctx context.Context, b *domain.Barber) error
	GetServices(ctx context.Context, barbershopID int64, onlyActive bool) ([]*domain.Service, error)
	GetBarbers(ctx context.Context, barbershopID int64) ([]*domain.Barber, error)
}

// RandomBarbershop inserts a barbershop with a valid week, a few services and
// barbers.
func RandomBarbershop(ctx context.Context, s Store, emailDomain string) (*domain.Barbershop, error) {
	shop := utils.GenerateRandomBarbershop()
	if err := s.CreateBarbershop(ctx, shop); err != nil {
		return nil, fmt.Errorf("create barbershop: %w", err)
	}

	week := utils.GenerateRandomWeek(shop.ID)
	if err := utils.ValidateWeekSchedule(week); err != nil {
		return nil, fmt.Errorf("generated week is invalid: %w", err)
	}
	if err := s.ReplaceDaySchedules(ctx, shop.ID, week); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}

	for _, service := range utils.GenerateRandomServices(shop.ID, 3+mrand.Intn(4)) {
		if err := s.CreateService(ctx, service); err != nil {
			return nil, fmt.Errorf("create service %q: %w", service.Name, err)
		}
	}

	for range 1 + mrand.Intn(3) {
		if err := s.CreateBarber(ctx, utils.GenerateRandomBarber(shop.ID, emailDomain)); err != nil {
			return nil, fmt.Errorf("create barber: %w", err)
		}
	}

	return shop, nil
}

// RandomAppointments books up to n appointments over the next days through the
// booking service, so every one of them respects the slot rules. It returns
// how many were booked.
func RandomAppointments(ctx context.Context, s Store, svc *booking.Service, shop *domain.Barbershop, n, days int) (int, error) {
	services, err := s.GetServices(ctx, shop.ID, true)
	if err != nil {
		return 0, err
	}
	if len(services) == 0 {
		return 0, errors.New("barbershop has no active services")
	}

	barbers, err := s.GetBarbers(ctx, shop.ID)
	if err != nil {
		return 0, err
	}

	today := time.Now().In(shop.Location())
	booked := 0
	for attempt := 0; attempt < n*5 && booked < n; attempt++ {
		service := services[mrand.Intn(len(services))]
		date := today.AddDate(0, 0, 1+mrand.Intn(max(days, 1))).Format(time.DateOnly)

		var barberID *int64
		if len(barbers) > 0 && mrand.Intn(2) == 0 {
			id := barbers[mrand.Intn(len(barbers))].ID
			barberID = &id
		}

		day, err := svc.Availability(ctx, booking.AvailabilityQuery{
			Barbershop: shop,
			ServiceID:  service.ID,
			BarberID:   barberID,
			Date:       date,
		})
		if err != nil {
			return booked, err
		}

		free := slices.DeleteFunc(day.Slots, func(t domain.TimeSlot) bool { return !t.IsAvailable })
		if len(free) == 0 {
			continue
		}

		_, _, err = svc.Book(ctx, booking.BookRequest{
			Barbershop:  shop,
			ServiceID:   service.ID,
			BarberID:    barberID,
			Date:        date,
			StartTime:   free[mrand.Intn(len(free))].Time,
			ClientName:  utils.GenerateRandomFullName(),
			ClientPhone: utils.GenerateRandomPhone(),
		})
		switch {
		case errors.Is(err, booking.ErrSlotUnavailable):
			continue
		case err != nil:
			return booked, err
		}
		booked++
	}

	return booked, nil
}

var serviceCSVHeader = []string{"name", "description", "duration_minutes", "price"}

// ImportServices reads a price list exported as CSV with the header
// name,description,duration_minutes,price where price is in currency units
// such as "45.00". Bad rows are logged and skipped.
func ImportServices(ctx context.Context, s Store, barbershopID int64, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	if !slices.Equal(header, serviceCSVHeader) {
		return 0, fmt.Errorf("unexpected header %v, want %v", header, serviceCSVHeader)
	}

	imported := 0
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}

		service, err := parseServiceRow(barbershopID, row)
		if err != nil {
			slog.Warn("skipping service row", "line", line, "error", err)
			continue
		}

		if err := s.CreateService(ctx, service); err != nil {
			slog.Warn("failed to import service", "line", line, "name", service.Name, "error", err)
			continue
		}
		imported++
	}

	return imported, nil
}

func parseServiceRow(barbershopID int64, row []string) (*domain.Service, error) {
	name := strings.TrimSpace(row[0])
	if name == "" {
		return nil, errors.New("name is empty")
	}

	duration, err := strconv.ParseInt(strings.TrimSpace(row[2]), 10, 32)
	if err != nil || duration <= 0 {
		return nil, fmt.Errorf("invalid duration %q", row[2])
	}

	price, err := parsePriceCents(row[3])
	if err != nil {
		return nil, err
	}

	return &domain.Service{
		BarbershopID:    barbershopID,
		Name:            name,
		Description:     strings.TrimSpace(row[1]),
		DurationMinutes: int32(duration),
		PriceCents:      price,
		IsActive:        true,
	}, nil
}

// parsePriceCents accepts "45", "45.5", "45.50" and the comma decimal "45,50".
func parsePriceCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	frac += strings.Repeat("0", 2-len(frac))

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || cents < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	return units*100 + cents, nil
}
