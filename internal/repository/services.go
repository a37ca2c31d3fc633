package repository

import (
	"context"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

func (r *Repository) GetServices(ctx context.Context, barbershopID int64, onlyActive bool) ([]*domain.Service, error) {
	query := `
		SELECT id, barbershop_id, name, description, duration_minutes, price_cents, is_active, version
		FROM services
		WHERE barbershop_id = $1 AND (is_active OR NOT $2)
		ORDER BY name
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, barbershopID, onlyActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		s := &domain.Service{}
		dst := []any{&s.ID, &s.BarbershopID, &s.Name, &s.Description, &s.DurationMinutes, &s.PriceCents, &s.IsActive, &s.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return services, nil
}

func (r *Repository) GetService(ctx context.Context, barbershopID, id int64) (*domain.Service, error) {
	query := `
		SELECT name, description, duration_minutes, price_cents, is_active, version
		FROM services
		WHERE id = $1 AND barbershop_id = $2
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	s := &domain.Service{
		ID:           id,
		BarbershopID: barbershopID,
	}

	dst := []any{&s.Name, &s.Description, &s.DurationMinutes, &s.PriceCents, &s.IsActive, &s.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id, barbershopID).Scan(dst...); err != nil {
		return nil, err
	}

	return s, nil
}

func (r *Repository) CreateService(ctx context.Context, s *domain.Service) error {
	query := `
		INSERT INTO services (barbershop_id, name, description, duration_minutes, price_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{s.BarbershopID, s.Name, s.Description, s.DurationMinutes, s.PriceCents}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.IsActive, &s.Version)
}

func (r *Repository) UpdateService(ctx context.Context, s *domain.Service) error {
	query := `
		UPDATE services
		SET
			name = $1,
			description = $2,
			duration_minutes = $3,
			price_cents = $4,
			is_active = $5,
			version = version + 1
		WHERE id = $6 AND barbershop_id = $7 AND version = $8
		RETURNING version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{s.Name, s.Description, s.DurationMinutes, s.PriceCents, s.IsActive, s.ID, s.BarbershopID, s.Version}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&s.Version)
}

func (r *Repository) DeleteService(ctx context.Context, barbershopID, id int64) error {
	query := `DELETE FROM services WHERE id = $1 AND barbershop_id = $2`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id, barbershopID)
	return err
}
