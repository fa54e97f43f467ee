package points

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mobble-app/mobble-engine/pkg/logger"
)

func newTestService() *Service {
	return New(NewMemoryStore(), logger.NewNop())
}

func TestLedger_CreditAndDebit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	account, err := svc.Credit(ctx, "user-1", 40)
	require.NoError(t, err)
	require.EqualValues(t, 40, account.TotalEarned)
	require.EqualValues(t, 0, account.TotalSpent)
	require.EqualValues(t, 40, account.Available())

	// Debit beyond the balance fails without mutation.
	_, err = svc.Debit(ctx, "user-1", 50)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	account, err = svc.Account(ctx, "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 0, account.TotalSpent)

	// Debiting the exact balance succeeds and empties it.
	account, err = svc.Debit(ctx, "user-1", 40)
	require.NoError(t, err)
	require.EqualValues(t, 40, account.TotalSpent)

	available, err := svc.Available(ctx, "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 0, available)
}

func TestLedger_SpentNeverExceedsEarned(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	ops := []struct {
		credit bool
		amount int64
	}{
		{true, 10}, {false, 5}, {false, 20}, {true, 3}, {false, 8},
		{false, 1}, {true, 100}, {false, 99}, {false, 99},
	}

	for _, op := range ops {
		if op.credit {
			_, err := svc.Credit(ctx, "user-1", op.amount)
			require.NoError(t, err)
		} else {
			_, _ = svc.Debit(ctx, "user-1", op.amount)
		}

		account, err := svc.Account(ctx, "user-1")
		require.NoError(t, err)
		require.LessOrEqual(t, account.TotalSpent, account.TotalEarned)
		require.GreaterOrEqual(t, account.Available(), int64(0))
	}
}

func TestLedger_ZeroCreditIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	account, err := svc.Credit(ctx, "user-1", 0)
	require.NoError(t, err)
	require.EqualValues(t, 0, account.TotalEarned)
	require.True(t, account.UpdatedAt.IsZero())
}

func TestLedger_InvalidAmounts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Credit(ctx, "user-1", -1)
	require.ErrorIs(t, err, ErrNegativeAmount)

	_, err = svc.Debit(ctx, "user-1", 0)
	require.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = svc.Credit(ctx, "  ", 5)
	require.Error(t, err)
}

func TestLedger_EarnedIsMonotonic(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	var lastEarned int64
	for i := 0; i < 20; i++ {
		_, err := svc.Credit(ctx, "user-1", int64(i%4))
		require.NoError(t, err)

		account, err := svc.Account(ctx, "user-1")
		require.NoError(t, err)
		require.GreaterOrEqual(t, account.TotalEarned, lastEarned)
		lastEarned = account.TotalEarned
	}
}

func TestLedger_Reset(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Credit(ctx, "user-1", 25)
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, "user-1"))

	account, err := svc.Account(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, DefaultAccount(), account)
}
