package repository

import (
	"context"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

func (r *Repository) GetBarbers(ctx context.Context, barbershopID int64) ([]*domain.Barber, error) {
	query := `
		SELECT id, full_name, email, phone, is_active, created_at, version
		FROM barbers
		WHERE barbershop_id = $1
		ORDER BY full_name
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, barbershopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	barbers := make([]*domain.Barber, 0)
	for rows.Next() {
		b := &domain.Barber{BarbershopID: barbershopID}
		dst := []any{&b.ID, &b.FullName, &b.Email, &b.Phone, &b.IsActive, &b.CreatedAt, &b.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		barbers = append(barbers, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return barbers, nil
}

func (r *Repository) GetBarber(ctx context.Context, barbershopID, id int64) (*domain.Barber, error) {
	query := `
		SELECT full_name, email, phone, is_active, created_at, version
		FROM barbers
		WHERE id = $1 AND barbershop_id = $2
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	b := &domain.Barber{
		ID:           id,
		BarbershopID: barbershopID,
	}

	dst := []any{&b.FullName, &b.Email, &b.Phone, &b.IsActive, &b.CreatedAt, &b.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id, barbershopID).Scan(dst...); err != nil {
		return nil, err
	}

	return b, nil
}

func (r *Repository) CreateBarber(ctx context.Context, b *domain.Barber) error {
	query := `
		INSERT INTO barbers (barbershop_id, full_name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{b.BarbershopID, b.FullName, b.Email, b.Phone}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.IsActive, &b.CreatedAt, &b.Version)
}

func (r *Repository) UpdateBarber(ctx context.Context, b *domain.Barber) error {
	query := `
		UPDATE barbers
		SET
			full_name = $1,
			email = $2,
			phone = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND barbershop_id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{b.FullName, b.Email, b.Phone, b.IsActive, b.ID, b.BarbershopID, b.Version}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&b.Version)
}

func (r *Repository) DeleteBarber(ctx context.Context, barbershopID, id int64) error {
	query := `DELETE FROM barbers WHERE id = $1 AND barbershop_id = $2`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id, barbershopID)
	return err
}
