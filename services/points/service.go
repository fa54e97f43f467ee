package points

import (
	"context"
	"errors"
	"time"

	"github.com/mobble-app/mobble-engine/internal/framework"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// Errors
var (
	ErrInsufficientBalance = errors.New("insufficient point balance")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
)

// Service provides the points ledger operations.
type Service struct {
	*framework.ServiceEngine
	store Store
	nowFn func() time.Time
}

// New constructs a points ledger service.
func New(store Store, log *logger.Logger) *Service {
	return &Service{
		ServiceEngine: framework.NewServiceEngine(framework.ServiceConfig{
			Name:        "points",
			Description: "lifetime earned/spent points ledger",
			Logger:      log,
		}),
		store: store,
		nowFn: time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) {
	s.nowFn = now
}

// Credit adds earned points to the ledger. A zero amount is a valid no-op
// (entries that earn nothing still flow through the credit path).
func (s *Service) Credit(ctx context.Context, userID string, amount int64) (Account, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Account{}, err
	}
	if amount < 0 {
		return Account{}, ErrNegativeAmount
	}

	account := s.store.Load(ctx, userID)
	if amount == 0 {
		return account, nil
	}

	account.TotalEarned += amount
	account.UpdatedAt = s.nowFn().UTC()
	s.store.Save(ctx, userID, account)

	s.Logger().WithField("user_id", userID).
		WithField("amount", amount).
		WithField("available", account.Available()).
		Info("points credited")
	s.IncrementCounter("credit")

	return account, nil
}

// Debit spends points. It fails with ErrInsufficientBalance, without
// mutating anything, when the amount exceeds the available balance.
func (s *Service) Debit(ctx context.Context, userID string, amount int64) (Account, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Account{}, err
	}
	if amount <= 0 {
		return Account{}, ErrNonPositiveAmount
	}

	account := s.store.Load(ctx, userID)
	if amount > account.Available() {
		return account, ErrInsufficientBalance
	}

	account.TotalSpent += amount
	account.UpdatedAt = s.nowFn().UTC()
	s.store.Save(ctx, userID, account)

	s.Logger().WithField("user_id", userID).
		WithField("amount", amount).
		WithField("available", account.Available()).
		Info("points debited")
	s.IncrementCounter("debit")

	return account, nil
}

// Available returns the spendable balance.
func (s *Service) Available(ctx context.Context, userID string) (int64, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return 0, err
	}
	return s.store.Load(ctx, userID).Available(), nil
}

// Account returns the full ledger state.
func (s *Service) Account(ctx context.Context, userID string) (Account, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Account{}, err
	}
	return s.store.Load(ctx, userID), nil
}

// Reset restores the ledger to its default empty state.
func (s *Service) Reset(ctx context.Context, userID string) error {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return err
	}
	s.store.Reset(ctx, userID)
	s.LogAction("reset", "points_account", userID)
	return nil
}
