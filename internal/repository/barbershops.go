package repository

import (
	"context"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

const barbershopColumns = `id, owner_id, name, slug, phone, email, address, timezone, created_at, version`

func barbershopDst(b *domain.Barbershop) []any {
	return []any{&b.ID, &b.OwnerID, &b.Name, &b.Slug, &b.Phone, &b.Email, &b.Address, &b.Timezone, &b.CreatedAt, &b.Version}
}

func (r *Repository) CreateBarbershop(ctx context.Context, b *domain.Barbershop) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO barbershops (owner_id, name, slug, phone, email, address, timezone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	args := []any{b.OwnerID, b.Name, b.Slug, b.Phone, b.Email, b.Address, b.Timezone}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.Version)
}

func (r *Repository) GetBarbershopBySlug(ctx context.Context, slug string) (*domain.Barbershop, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + barbershopColumns + ` FROM barbershops WHERE slug = $1`

	b := &domain.Barbershop{}
	if err := r.dbpool.QueryRowContext(ctx, query, slug).Scan(barbershopDst(b)...); err != nil {
		return nil, err
	}

	return b, nil
}

func (r *Repository) GetBarbershopByOwner(ctx context.Context, ownerID string) (*domain.Barbershop, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + barbershopColumns + ` FROM barbershops WHERE owner_id = $1`

	b := &domain.Barbershop{}
	if err := r.dbpool.QueryRowContext(ctx, query, ownerID).Scan(barbershopDst(b)...); err != nil {
		return nil, err
	}

	return b, nil
}

func (r *Repository) UpdateBarbershop(ctx context.Context, b *domain.Barbershop) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		UPDATE barbershops
		SET
			name = $1,
			phone = $2,
			email = $3,
			address = $4,
			timezone = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	args := []any{b.Name, b.Phone, b.Email, b.Address, b.Timezone, b.ID, b.Version}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&b.Version)
}

func (r *Repository) GetBarbershopByID(ctx context.Context, id int64) (*domain.Barbershop, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + barbershopColumns + ` FROM barbershops WHERE id = $1`

	b := &domain.Barbershop{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(barbershopDst(b)...); err != nil {
		return nil, err
	}

	return b, nil
}
