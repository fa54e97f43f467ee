package entitlement

import (
	"context"
	"errors"
	"time"

	"github.com/mobble-app/mobble-engine/internal/framework"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// Errors
var (
	ErrUnknownPurchaseKind = errors.New("unknown purchase kind")
)

// Service manages subscription state and ownership checks.
type Service struct {
	*framework.ServiceEngine
	store Store
	nowFn func() time.Time
}

// New constructs an entitlement service.
func New(store Store, log *logger.Logger) *Service {
	return &Service{
		ServiceEngine: framework.NewServiceEngine(framework.ServiceConfig{
			Name:        "entitlement",
			Description: "subscription tier, status and one-time purchases",
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

// Subscription returns the user's current entitlement record.
func (s *Service) Subscription(ctx context.Context, userID string) (Subscription, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Subscription{}, err
	}
	return s.store.Load(ctx, userID), nil
}

// ActivateLifetime grants permanent premium access. Lifetime has no
// period end, so any pending cancellation is cleared.
func (s *Service) ActivateLifetime(ctx context.Context, userID string) (Subscription, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Subscription{}, err
	}

	now := s.nowFn().UTC()
	sub := s.store.Load(ctx, userID)
	sub.Tier = TierLifetime
	sub.Status = StatusActive
	sub.LifetimeUnlocked = true
	sub.CurrentPeriodEnd = nil
	sub.CancelAtPeriodEnd = false
	if sub.CreatedAt == nil {
		sub.CreatedAt = &now
	}
	sub.UpdatedAt = &now
	s.store.Save(ctx, userID, sub)

	s.LogAction("activate_lifetime", "subscription", userID)
	s.IncrementCounter("activate_lifetime")
	return sub, nil
}

// ActivatePlus records an active recurring subscription from a billing
// callback. Re-activation overwrites the period end.
func (s *Service) ActivatePlus(ctx context.Context, userID, customerID, subscriptionID string, periodEnd time.Time) (Subscription, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Subscription{}, err
	}

	now := s.nowFn().UTC()
	periodEnd = periodEnd.UTC()
	sub := s.store.Load(ctx, userID)
	sub.Tier = TierPlus
	sub.Status = StatusActive
	sub.StripeCustomerID = customerID
	sub.StripeSubscriptionID = subscriptionID
	sub.CurrentPeriodStart = &now
	sub.CurrentPeriodEnd = &periodEnd
	sub.CancelAtPeriodEnd = false
	if sub.CreatedAt == nil {
		sub.CreatedAt = &now
	}
	sub.UpdatedAt = &now
	s.store.Save(ctx, userID, sub)

	s.LogAction("activate_plus", "subscription", userID)
	s.IncrementCounter("activate_plus")
	return sub, nil
}

// CancelAtPeriodEnd flags the subscription to lapse at the end of the
// current billing period. Access is unchanged until then.
func (s *Service) CancelAtPeriodEnd(ctx context.Context, userID string) (Subscription, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Subscription{}, err
	}

	now := s.nowFn().UTC()
	sub := s.store.Load(ctx, userID)
	sub.CancelAtPeriodEnd = true
	sub.UpdatedAt = &now
	s.store.Save(ctx, userID, sub)

	s.LogAction("cancel_at_period_end", "subscription", userID)
	s.IncrementCounter("cancel")
	return sub, nil
}

// MarkPastDue records a failed payment from a billing callback. A
// past-due Plus subscription is no longer pro.
func (s *Service) MarkPastDue(ctx context.Context, userID string) (Subscription, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Subscription{}, err
	}

	now := s.nowFn().UTC()
	sub := s.store.Load(ctx, userID)
	sub.Status = StatusPastDue
	sub.UpdatedAt = &now
	s.store.Save(ctx, userID, sub)

	s.Logger().WithField("user_id", userID).Warn("subscription marked past due")
	s.IncrementCounter("mark_past_due")
	return sub, nil
}

// RecordPurchase appends a one-time purchase to the matching owned set.
// Recording the same purchase twice is a no-op.
func (s *Service) RecordPurchase(ctx context.Context, userID string, kind PurchaseKind, id string) (Subscription, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Subscription{}, err
	}
	id, err = s.ValidateRequired(id, "id")
	if err != nil {
		return Subscription{}, err
	}

	sub := s.store.Load(ctx, userID)

	var set *[]string
	switch kind {
	case PurchaseStoryPack:
		set = &sub.PurchasedStoryPacks
	case PurchaseCosmeticBundle:
		set = &sub.PurchasedCosmeticBundles
	case PurchaseCosmetic:
		set = &sub.PurchasedCosmetics
	default:
		return Subscription{}, ErrUnknownPurchaseKind
	}

	for _, owned := range *set {
		if owned == id {
			return sub, nil
		}
	}

	now := s.nowFn().UTC()
	*set = append(*set, id)
	sub.UpdatedAt = &now
	s.store.Save(ctx, userID, sub)

	s.Logger().WithField("user_id", userID).
		WithField("kind", string(kind)).
		WithField("id", id).
		Info("purchase recorded")
	s.IncrementCounter("record_purchase")
	return sub, nil
}

// IsPro reports whether the user has full premium access.
func (s *Service) IsPro(ctx context.Context, userID string) (bool, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return false, err
	}
	return s.store.Load(ctx, userID).IsPro(), nil
}

// IsLifetime reports whether the user holds a permanent unlock.
func (s *Service) IsLifetime(ctx context.Context, userID string) (bool, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return false, err
	}
	return s.store.Load(ctx, userID).IsLifetime(), nil
}

// HasActiveSubscription reports a live recurring Plus subscription.
func (s *Service) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return false, err
	}
	return s.store.Load(ctx, userID).HasActiveSubscription(), nil
}

// OwnsStoryPack reports pack ownership. Pro users own every pack.
func (s *Service) OwnsStoryPack(ctx context.Context, userID, packID string) (bool, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return false, err
	}
	sub := s.store.Load(ctx, userID)
	if sub.IsPro() {
		return true, nil
	}
	return contains(sub.PurchasedStoryPacks, packID), nil
}

// OwnsCosmeticBundle reports bundle ownership. Pro users own every bundle.
func (s *Service) OwnsCosmeticBundle(ctx context.Context, userID, bundleID string) (bool, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return false, err
	}
	sub := s.store.Load(ctx, userID)
	if sub.IsPro() {
		return true, nil
	}
	return contains(sub.PurchasedCosmeticBundles, bundleID), nil
}

// OwnsPremiumCosmetic reports individual premium cosmetic ownership.
// Pro users own every premium cosmetic.
func (s *Service) OwnsPremiumCosmetic(ctx context.Context, userID, cosmeticID string) (bool, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return false, err
	}
	sub := s.store.Load(ctx, userID)
	if sub.IsPro() {
		return true, nil
	}
	return contains(sub.PurchasedCosmetics, cosmeticID), nil
}

// Reset restores the never-subscribed default.
func (s *Service) Reset(ctx context.Context, userID string) error {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return err
	}
	s.store.Reset(ctx, userID)
	s.LogAction("reset", "subscription", userID)
	return nil
}

func contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}
