package repository

import (
	"context"
	"database/sql"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

func (r *Repository) GetClients(ctx context.Context, barbershopID int64) ([]*domain.Client, error) {
	query := `
		SELECT id, full_name, email, phone, created_at
		FROM clients
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

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		c := &domain.Client{BarbershopID: barbershopID}
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *Repository) GetClient(ctx context.Context, barbershopID, id int64) (*domain.Client, error) {
	query := `
		SELECT full_name, email, phone, created_at
		FROM clients
		WHERE id = $1 AND barbershop_id = $2
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	c := &domain.Client{ID: id, BarbershopID: barbershopID}
	if err := r.dbpool.QueryRowContext(ctx, query, id, barbershopID).Scan(&c.FullName, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
		return nil, err
	}

	return c, nil
}

// upsertClient keys clients by phone within a barbershop. A returning client
// keeps their stored email when the new booking left it blank.
func upsertClient(ctx context.Context, tx *sql.Tx, c *domain.Client) error {
	query := `
		INSERT INTO clients (barbershop_id, full_name, email, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (barbershop_id, phone) DO UPDATE
		SET
			full_name = EXCLUDED.full_name,
			email = COALESCE(NULLIF(EXCLUDED.email, ''), clients.email)
		RETURNING id, email, created_at
	`

	args := []any{c.BarbershopID, c.FullName, c.Email, c.Phone}
	return tx.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Email, &c.CreatedAt)
}
