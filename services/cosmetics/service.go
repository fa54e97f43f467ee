package cosmetics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mobble-app/mobble-engine/internal/framework"
	"github.com/mobble-app/mobble-engine/pkg/logger"
	"github.com/mobble-app/mobble-engine/services/points"
)

// Errors
var (
	ErrUnknownItem = errors.New("unknown cosmetic item")
	ErrPremiumItem = errors.New("premium items are not purchasable with points")
	ErrNotOwned    = errors.New("cosmetic not owned")
)

// Ledger is the points collaborator the store spends through.
type Ledger interface {
	Debit(ctx context.Context, userID string, amount int64) (points.Account, error)
}

// Service manages wardrobe purchases and equipping.
type Service struct {
	*framework.ServiceEngine
	store  Store
	ledger Ledger
	nowFn  func() time.Time
}

// New constructs a cosmetics service backed by the given points ledger.
func New(store Store, ledger Ledger, log *logger.Logger) *Service {
	return &Service{
		ServiceEngine: framework.NewServiceEngine(framework.ServiceConfig{
			Name:        "cosmetics",
			Description: "points-backed cosmetics store and wardrobe",
			Logger:      log,
		}),
		store:  store,
		ledger: ledger,
		nowFn:  time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) {
	s.nowFn = now
}

// Purchase debits the item's points price, adds it to the wardrobe and
// auto-equips it. A failed debit leaves the wardrobe untouched. Premium
// items are gated through entitlements and rejected here. Buying an item
// already owned is a no-op and charges nothing.
func (s *Service) Purchase(ctx context.Context, userID, itemID string) (Wardrobe, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Wardrobe{}, err
	}

	item, ok := ItemByID(itemID)
	if !ok {
		return Wardrobe{}, ErrUnknownItem
	}
	if item.IsPremium {
		return Wardrobe{}, ErrPremiumItem
	}

	wardrobe := s.store.Load(ctx, userID)
	if wardrobe.Owns(itemID) {
		return wardrobe, nil
	}

	if _, err := s.ledger.Debit(ctx, userID, item.Price); err != nil {
		return wardrobe, fmt.Errorf("purchase %s: %w", itemID, err)
	}

	wardrobe.Owned = append(wardrobe.Owned, itemID)
	wardrobe.Equipped = itemID
	wardrobe.UpdatedAt = s.nowFn().UTC()
	s.store.Save(ctx, userID, wardrobe)

	s.Logger().WithField("user_id", userID).
		WithField("item_id", itemID).
		WithField("price", item.Price).
		Info("cosmetic purchased")
	s.IncrementCounter("purchase")
	return wardrobe, nil
}

// Equip equips an owned item, or unequips with an empty id. Equipping
// the item already equipped toggles it off.
func (s *Service) Equip(ctx context.Context, userID, itemID string) (Wardrobe, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Wardrobe{}, err
	}

	wardrobe := s.store.Load(ctx, userID)
	if itemID != "" && !wardrobe.Owns(itemID) {
		return wardrobe, ErrNotOwned
	}

	if itemID == wardrobe.Equipped {
		wardrobe.Equipped = ""
	} else {
		wardrobe.Equipped = itemID
	}
	wardrobe.UpdatedAt = s.nowFn().UTC()
	s.store.Save(ctx, userID, wardrobe)

	s.LogUpdated("wardrobe", userID)
	s.IncrementCounter("equip")
	return wardrobe, nil
}

// Grant adds an item to the wardrobe without charging points. Used for
// story rewards and entitlement-backed premium unlocks.
func (s *Service) Grant(ctx context.Context, userID, itemID string) (Wardrobe, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Wardrobe{}, err
	}

	wardrobe := s.store.Load(ctx, userID)
	if wardrobe.Owns(itemID) {
		return wardrobe, nil
	}

	wardrobe.Owned = append(wardrobe.Owned, itemID)
	wardrobe.UpdatedAt = s.nowFn().UTC()
	s.store.Save(ctx, userID, wardrobe)

	s.LogAction("grant", "cosmetic", userID)
	s.IncrementCounter("grant")
	return wardrobe, nil
}

// Owns reports whether the user owns the item.
func (s *Service) Owns(ctx context.Context, userID, itemID string) (bool, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return false, err
	}
	return s.store.Load(ctx, userID).Owns(itemID), nil
}

// Wardrobe returns the user's owned and equipped items.
func (s *Service) Wardrobe(ctx context.Context, userID string) (Wardrobe, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Wardrobe{}, err
	}
	return s.store.Load(ctx, userID), nil
}

// Reset restores an empty wardrobe.
func (s *Service) Reset(ctx context.Context, userID string) error {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return err
	}
	s.store.Reset(ctx, userID)
	s.LogAction("reset", "wardrobe", userID)
	return nil
}
