package service

import (
	"context"
	"testing"

	"github.com/classhour/backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_DebitCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("new student starts at zero", func(t *testing.T) {
		l, err := env.ledger.Get(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, l.RemainingHours)
		assert.Zero(t, l.CompletedHours)
	})

	t.Run("credit then debit", func(t *testing.T) {
		_, err := env.ledger.Credit(ctx, 1, 10)
		require.NoError(t, err)

		l, err := env.ledger.Debit(ctx, 1, 2.5)
		require.NoError(t, err)
		assert.Equal(t, 7.5, l.RemainingHours)
	})

	t.Run("overdraft fails and leaves ledger unchanged", func(t *testing.T) {
		_, err := env.ledger.Debit(ctx, 1, 100)
		assert.ErrorIs(t, err, apperr.ErrInsufficientHours)

		l, err := env.ledger.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 7.5, l.RemainingHours)
	})

	t.Run("mark completed moves hours without touching remaining", func(t *testing.T) {
		l, err := env.ledger.MarkCompleted(ctx, 1, 2.5)
		require.NoError(t, err)
		assert.Equal(t, 7.5, l.RemainingHours)
		assert.Equal(t, 2.5, l.CompletedHours)
	})
}

func TestLedger_RejectsNonPositiveAmounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, hours := range []float64{0, -1} {
		_, err := env.ledger.Debit(ctx, 1, hours)
		assert.ErrorIs(t, err, apperr.ErrValidation)
		_, err = env.ledger.Credit(ctx, 1, hours)
		assert.ErrorIs(t, err, apperr.ErrValidation)
		_, err = env.ledger.MarkCompleted(ctx, 1, hours)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
}

func TestLedger_NeverNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.creditHours(t, 1, 3)

	ops := []struct {
		debit float64
	}{
		{1}, {1}, {1}, {1}, {1},
	}
	for _, op := range ops {
		_, err := env.ledger.Debit(ctx, 1, op.debit)
		if err != nil {
			assert.ErrorIs(t, err, apperr.ErrInsufficientHours)
		}

		l, err := env.ledger.Get(ctx, 1)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, l.RemainingHours, 0.0)
	}
}
