package repository

import (
	"context"
	"database/sql"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

func scanDaySchedule(scan func(dst ...any) error, d *domain.DaySchedule) error {
	var openTime, closeTime, breakStart, breakEnd sql.NullString

	dst := []any{&d.BarbershopID, &d.Weekday, &openTime, &closeTime, &breakStart, &breakEnd, &d.Active}
	if err := scan(dst...); err != nil {
		return err
	}

	d.OpenTime = openTime.String
	d.CloseTime = closeTime.String
	d.BreakStart = breakStart.String
	d.BreakEnd = breakEnd.String

	return nil
}

// GetDaySchedules returns the stored days ordered by weekday. Days never
// configured are simply absent.
func (r *Repository) GetDaySchedules(ctx context.Context, barbershopID int64) ([]domain.DaySchedule, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT barbershop_id, weekday, open_time, close_time, break_start, break_end, active
		FROM day_schedules
		WHERE barbershop_id = $1
		ORDER BY weekday
	`

	rows, err := r.dbpool.QueryContext(ctx, query, barbershopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]domain.DaySchedule, 0, 7)
	for rows.Next() {
		var day domain.DaySchedule
		if err := scanDaySchedule(rows.Scan, &day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

func (r *Repository) GetDaySchedule(ctx context.Context, barbershopID int64, weekday int32) (*domain.DaySchedule, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT barbershop_id, weekday, open_time, close_time, break_start, break_end, active
		FROM day_schedules
		WHERE barbershop_id = $1 AND weekday = $2
	`

	day := &domain.DaySchedule{}
	if err := scanDaySchedule(r.dbpool.QueryRowContext(ctx, query, barbershopID, weekday).Scan, day); err != nil {
		return nil, err
	}

	return day, nil
}

// ReplaceDaySchedules swaps the whole week in one transaction; either every day
// is saved or none is.
func (r *Repository) ReplaceDaySchedules(ctx context.Context, barbershopID int64, days []domain.DaySchedule) error {
	ctx, cancel := r.transactionContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM day_schedules WHERE barbershop_id = $1`, barbershopID); err != nil {
		return err
	}

	query := `
		INSERT INTO day_schedules (barbershop_id, weekday, open_time, close_time, break_start, break_end, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, day := range days {
		args := []any{
			barbershopID,
			day.Weekday,
			nullString(day.OpenTime),
			nullString(day.CloseTime),
			nullString(day.BreakStart),
			nullString(day.BreakEnd),
			day.Active,
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
