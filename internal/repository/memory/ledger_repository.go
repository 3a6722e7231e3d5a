package memory

import (
	"context"

	"github.com/classhour/backend/internal/model"
)

type ledgerRepo struct {
	s *Store
}

func (r *ledgerRepo) Get(ctx context.Context, studentID int64) (*model.StudentLedger, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	l, ok := r.s.ledgers[studentID]
	if !ok {
		return nil, nil
	}
	return cloneLedger(l), nil
}

func (r *ledgerRepo) Upsert(ctx context.Context, l *model.StudentLedger) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	l.UpdatedAt = nowUTC()
	r.s.ledgers[l.StudentID] = cloneLedger(l)
	return nil
}
