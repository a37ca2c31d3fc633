package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

const appointmentColumns = `
	id, barbershop_id, barber_id, service_id, client_id, to_char(date, 'YYYY-MM-DD'), start_time,
	duration_minutes, price_cents, status, notes, cancel_token_hash, created_at, version
`

func scanAppointment(scan func(dst ...any) error, a *domain.Appointment) error {
	var barberID sql.NullInt64

	dst := []any{
		&a.ID, &a.BarbershopID, &barberID, &a.ServiceID, &a.ClientID, &a.Date, &a.StartTime,
		&a.DurationMinutes, &a.PriceCents, &a.Status, &a.Notes, &a.CancelTokenHash, &a.CreatedAt, &a.Version,
	}
	if err := scan(dst...); err != nil {
		return err
	}

	if barberID.Valid {
		a.BarberID = &barberID.Int64
	}

	return nil
}

const bookedSpansQuery = `
	SELECT start_time, duration_minutes
	FROM appointments
	WHERE barbershop_id = $1
		AND date = $2::date
		AND status <> 'cancelled'
		AND ($3::bigint IS NULL OR barber_id = $3)
	ORDER BY start_time
`

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listBookedSpans(ctx context.Context, q querier, barbershopID int64, barberID *int64, date string) ([]domain.BookedSpan, error) {
	rows, err := q.QueryContext(ctx, bookedSpansQuery, barbershopID, date, nullInt64(barberID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spans := make([]domain.BookedSpan, 0)
	for rows.Next() {
		var span domain.BookedSpan
		if err := rows.Scan(&span.StartTime, &span.DurationMinutes); err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return spans, nil
}

// ListBookedSpans returns the non-cancelled appointments of a day. A nil
// barberID means every appointment of the barbershop counts.
func (r *Repository) ListBookedSpans(ctx context.Context, barbershopID int64, barberID *int64, date string) ([]domain.BookedSpan, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return listBookedSpans(ctx, r.dbpool, barbershopID, barberID, date)
}

// CreateAppointment upserts the client and inserts the appointment while
// holding a transaction-scoped advisory lock on the barbershop's day. check is
// called with the day's booked spans as seen under the lock; a non-nil error
// from it aborts the booking and is returned unchanged.
func (r *Repository) CreateAppointment(ctx context.Context, a *domain.Appointment, c *domain.Client, check func([]domain.BookedSpan) error) error {
	ctx, cancel := r.transactionContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockKey := fmt.Sprintf("booking:%d:%s", a.BarbershopID, a.Date)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return err
	}

	spans, err := listBookedSpans(ctx, tx, a.BarbershopID, a.BarberID, a.Date)
	if err != nil {
		return err
	}

	if err := check(spans); err != nil {
		return err
	}

	c.BarbershopID = a.BarbershopID
	if err := upsertClient(ctx, tx, c); err != nil {
		return err
	}
	a.ClientID = c.ID

	query := `
		INSERT INTO appointments (
			barbershop_id, barber_id, service_id, client_id, date, start_time,
			duration_minutes, price_cents, notes, cancel_token_hash
		)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10)
		RETURNING id, status, created_at, version
	`

	args := []any{
		a.BarbershopID, nullInt64(a.BarberID), a.ServiceID, a.ClientID, a.Date, a.StartTime,
		a.DurationMinutes, a.PriceCents, a.Notes, a.CancelTokenHash,
	}
	dst := []any{&a.ID, &a.Status, &a.CreatedAt, &a.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetAppointment(ctx context.Context, barbershopID, id int64) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND barbershop_id = $2`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	a := &domain.Appointment{}
	if err := scanAppointment(r.dbpool.QueryRowContext(ctx, query, id, barbershopID).Scan, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (r *Repository) GetAppointmentsByDate(ctx context.Context, barbershopID int64, date string) ([]*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE barbershop_id = $1 AND date = $2::date
		ORDER BY start_time, id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, barbershopID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a := &domain.Appointment{}
		if err := scanAppointment(rows.Scan, a); err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return appointments, nil
}

func (r *Repository) UpdateAppointmentStatus(ctx context.Context, a *domain.Appointment) error {
	query := `
		UPDATE appointments
		SET
			status = $1,
			version = version + 1
		WHERE id = $2 AND barbershop_id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, a.Status, a.ID, a.BarbershopID, a.Version).Scan(&a.Version)
}

// GetFinanceSummary totals completed appointments between from and to,
// both inclusive.
func (r *Repository) GetFinanceSummary(ctx context.Context, barbershopID int64, from, to string) (*domain.FinanceSummary, error) {
	query := `
		SELECT s.id, s.name, COUNT(a.id), COALESCE(SUM(a.price_cents), 0)
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.barbershop_id = $1
			AND a.status = 'completed'
			AND a.date BETWEEN $2::date AND $3::date
		GROUP BY s.id, s.name
		ORDER BY s.name
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, barbershopID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &domain.FinanceSummary{
		From:      from,
		To:        to,
		ByService: make([]domain.ServiceFinanceSummary, 0),
	}
	for rows.Next() {
		var s domain.ServiceFinanceSummary
		if err := rows.Scan(&s.ServiceID, &s.ServiceName, &s.Completed, &s.RevenueCents); err != nil {
			return nil, err
		}
		summary.Completed += s.Completed
		summary.RevenueCents += s.RevenueCents
		summary.ByService = append(summary.ByService, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summary, nil
}
