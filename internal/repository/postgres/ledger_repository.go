package postgres

import (
	"context"
	"fmt"

	"github.com/classhour/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

type ledgerRepo struct {
	s *Store
}

// Get fetches a student's hour balance, returning nil when no row exists yet.
func (r *ledgerRepo) Get(ctx context.Context, studentID int64) (*model.StudentLedger, error) {
	query := `
		SELECT student_id, remaining_hours, completed_hours, updated_at
		FROM student_ledgers
		WHERE student_id = $1
	`

	var l model.StudentLedger
	err := r.s.db(ctx).QueryRow(ctx, query, studentID).Scan(
		&l.StudentID,
		&l.RemainingHours,
		&l.CompletedHours,
		&l.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger: %w", err)
	}

	return &l, nil
}

// Upsert writes the full balance row.
func (r *ledgerRepo) Upsert(ctx context.Context, l *model.StudentLedger) error {
	query := `
		INSERT INTO student_ledgers (student_id, remaining_hours, completed_hours, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (student_id)
		DO UPDATE SET remaining_hours = $2, completed_hours = $3, updated_at = now()
		RETURNING updated_at
	`

	err := r.s.db(ctx).QueryRow(ctx, query, l.StudentID, l.RemainingHours, l.CompletedHours).
		Scan(&l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert ledger: %w", err)
	}

	return nil
}
