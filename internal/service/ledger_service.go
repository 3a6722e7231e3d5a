package service

import (
	"context"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/model"
	"github.com/classhour/backend/internal/repository"
	"go.uber.org/zap"
)

// LedgerService tracks per-student course-hour balances. Balances only move
// through course lifecycle transitions and explicit admin credits, and never
// go negative.
type LedgerService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewLedgerService(store repository.Store, logger *zap.Logger) *LedgerService {
	return &LedgerService{store: store, logger: logger}
}

// Get returns the student's balance, materializing a zero ledger for
// students seen for the first time.
func (s *LedgerService) Get(ctx context.Context, studentID int64) (*model.StudentLedger, error) {
	l, err := s.store.Ledgers().Get(ctx, studentID)
	if err != nil {
		return nil, apperr.Internal(err, "load ledger")
	}
	if l == nil {
		l = &model.StudentLedger{StudentID: studentID}
	}
	return l, nil
}

// Debit removes hours from the remaining balance. Debiting more than the
// balance fails with InsufficientHours and leaves the ledger unchanged.
func (s *LedgerService) Debit(ctx context.Context, studentID int64, hours float64) (*model.StudentLedger, error) {
	return s.apply(ctx, studentID, hours, func(l *model.StudentLedger) error {
		if l.RemainingHours < hours {
			return apperr.InsufficientHoursf("student %d has %.2f remaining hours, need %.2f",
				studentID, l.RemainingHours, hours)
		}
		l.RemainingHours -= hours
		return nil
	})
}

// Credit returns hours to the remaining balance. Used for cancellation
// refunds and admin top-ups.
func (s *LedgerService) Credit(ctx context.Context, studentID int64, hours float64) (*model.StudentLedger, error) {
	return s.apply(ctx, studentID, hours, func(l *model.StudentLedger) error {
		l.RemainingHours += hours
		return nil
	})
}

// MarkCompleted moves hours into the completed tally. The remaining balance
// is untouched: it was already debited at booking time.
func (s *LedgerService) MarkCompleted(ctx context.Context, studentID int64, hours float64) (*model.StudentLedger, error) {
	return s.apply(ctx, studentID, hours, func(l *model.StudentLedger) error {
		l.CompletedHours += hours
		return nil
	})
}

// apply runs a read-modify-write on the student's ledger inside a
// transaction, joining any transaction already open on the context.
func (s *LedgerService) apply(ctx context.Context, studentID int64, hours float64, mutate func(*model.StudentLedger) error) (*model.StudentLedger, error) {
	if hours <= 0 {
		return nil, apperr.Validationf("hours must be positive, got %.2f", hours)
	}

	var out *model.StudentLedger
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		l, err := s.store.Ledgers().Get(ctx, studentID)
		if err != nil {
			return apperr.Internal(err, "load ledger")
		}
		if l == nil {
			l = &model.StudentLedger{StudentID: studentID}
		}
		if err := mutate(l); err != nil {
			return err
		}
		if err := s.store.Ledgers().Upsert(ctx, l); err != nil {
			return apperr.Internal(err, "save ledger")
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ledger updated",
		zap.Int64("student_id", studentID),
		zap.Float64("remaining_hours", out.RemainingHours),
		zap.Float64("completed_hours", out.CompletedHours),
	)

	return out, nil
}
