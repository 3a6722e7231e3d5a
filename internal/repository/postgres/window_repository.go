package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/classhour/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

type windowRepo struct {
	s *Store
}

// Create persists a new availability window.
func (r *windowRepo) Create(ctx context.Context, w *model.TimeWindow) error {
	query := `
		INSERT INTO time_windows (owner_id, weekday, specific_date, start_minute, end_minute, is_recurring)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.s.db(ctx).QueryRow(
		ctx, query,
		w.OwnerID,
		int(w.Weekday),
		nullableDate(w),
		w.StartMinute,
		w.EndMinute,
		w.IsRecurring,
	).Scan(&w.ID, &w.CreatedAt)

	if err != nil {
		return fmt.Errorf("create time window: %w", err)
	}

	return nil
}

// GetByID fetches a window by id, returning nil when absent.
func (r *windowRepo) GetByID(ctx context.Context, id int64) (*model.TimeWindow, error) {
	query := `
		SELECT id, owner_id, weekday, specific_date, start_minute, end_minute, is_recurring, created_at
		FROM time_windows
		WHERE id = $1
	`

	w, err := scanWindow(r.s.db(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get time window by id: %w", err)
	}

	return w, nil
}

// GetByOwnerID fetches all windows declared by one user.
func (r *windowRepo) GetByOwnerID(ctx context.Context, ownerID int64) ([]*model.TimeWindow, error) {
	query := `
		SELECT id, owner_id, weekday, specific_date, start_minute, end_minute, is_recurring, created_at
		FROM time_windows
		WHERE owner_id = $1
		ORDER BY id
	`

	rows, err := r.s.db(ctx).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get time windows by owner: %w", err)
	}
	defer rows.Close()

	var windows []*model.TimeWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time window: %w", err)
		}
		windows = append(windows, w)
	}

	return windows, rows.Err()
}

// Delete removes a window.
func (r *windowRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM time_windows WHERE id = $1`

	tag, err := r.s.db(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete time window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("window %d does not exist", id)
	}

	return nil
}

func scanWindow(row pgx.Row) (*model.TimeWindow, error) {
	var (
		w            model.TimeWindow
		weekday      int
		specificDate *time.Time
	)

	err := row.Scan(
		&w.ID,
		&w.OwnerID,
		&weekday,
		&specificDate,
		&w.StartMinute,
		&w.EndMinute,
		&w.IsRecurring,
		&w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Weekday = time.Weekday(weekday)
	if specificDate != nil {
		w.SpecificDate = specificDate.UTC()
	}
	return &w, nil
}

// nullableDate maps the zero date of recurring windows to NULL.
func nullableDate(w *model.TimeWindow) *time.Time {
	if w.IsRecurring || w.SpecificDate.IsZero() {
		return nil
	}
	d := w.SpecificDate
	return &d
}
