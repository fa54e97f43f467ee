// Package entitlement tracks a user's subscription state and one-time
// purchases, and answers ownership questions for premium content.
package entitlement

import "time"

// Tier is the subscription level.
type Tier string

const (
	TierFree     Tier = "free"
	TierPlus     Tier = "plus"
	TierLifetime Tier = "lifetime"
)

// Status is the billing lifecycle state of a subscription.
type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
	StatusTrialing Status = "trialing"
	StatusNone     Status = "none"
)

// PurchaseKind classifies one-time purchases.
type PurchaseKind string

const (
	PurchaseStoryPack      PurchaseKind = "story_pack"
	PurchaseCosmeticBundle PurchaseKind = "cosmetic_bundle"
	PurchaseCosmetic       PurchaseKind = "cosmetic"
)

// Subscription is a user's full entitlement record. The payment provider
// fields stay empty until a billing callback fills them in.
type Subscription struct {
	Tier   Tier   `json:"tier"`
	Status Status `json:"status"`

	StripeCustomerID     string `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string `json:"stripe_subscription_id,omitempty"`

	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`

	LifetimeUnlocked         bool     `json:"lifetime_unlocked"`
	PurchasedStoryPacks      []string `json:"purchased_story_packs"`
	PurchasedCosmeticBundles []string `json:"purchased_cosmetic_bundles"`
	PurchasedCosmetics       []string `json:"purchased_cosmetics"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DefaultSubscription returns the never-subscribed baseline.
func DefaultSubscription() Subscription {
	return Subscription{
		Tier:                     TierFree,
		Status:                   StatusNone,
		PurchasedStoryPacks:      []string{},
		PurchasedCosmeticBundles: []string{},
		PurchasedCosmetics:       []string{},
	}
}

// IsPro reports whether the subscription grants full premium access:
// lifetime unlock, lifetime tier, or an active Plus subscription.
func (s Subscription) IsPro() bool {
	if s.LifetimeUnlocked {
		return true
	}
	if s.Tier == TierLifetime {
		return true
	}
	return s.Tier == TierPlus && s.Status == StatusActive
}

// IsLifetime reports whether the user holds a permanent unlock.
func (s Subscription) IsLifetime() bool {
	return s.LifetimeUnlocked || s.Tier == TierLifetime
}

// HasActiveSubscription reports a live recurring Plus subscription
// specifically, excluding lifetime unlocks.
func (s Subscription) HasActiveSubscription() bool {
	return s.Tier == TierPlus && s.Status == StatusActive
}

// StoryPack describes purchasable narrative content.
type StoryPack struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	TotalScenes int     `json:"total_scenes"`

	RewardCosmetics []string `json:"reward_cosmetics"`
	RewardTitles    []string `json:"reward_titles"`
	RewardPoints    int64    `json:"reward_points"`

	ComingSoon bool `json:"coming_soon"`
}

// Premium story pack catalog. Arcs ship with content updates; the pack
// entries exist ahead of release so purchases and gates already work.
var storyPacks = []StoryPack{
	{
		ID:              "ocean-depths",
		Name:            "Ocean Depths",
		Description:     "Mobble discovers the wonders beneath the waves.",
		Price:           3.99,
		TotalScenes:     15,
		RewardCosmetics: []string{"coral-crown", "bubble-effect"},
		RewardTitles:    []string{"Deep Diver"},
		RewardPoints:    100,
		ComingSoon:      true,
	},
	{
		ID:              "mountain-summit",
		Name:            "Mountain Summit",
		Description:     "A challenging but rewarding climb to the peak.",
		Price:           3.99,
		TotalScenes:     12,
		RewardCosmetics: []string{"mountain-cap", "snow-effect"},
		RewardTitles:    []string{"Summit Seeker"},
		RewardPoints:    100,
		ComingSoon:      true,
	},
	{
		ID:              "cozy-village",
		Name:            "Cozy Village",
		Description:     "Mobble explores a warm, welcoming village.",
		Price:           2.99,
		TotalScenes:     10,
		RewardCosmetics: []string{"village-scarf", "lantern-glow"},
		RewardTitles:    []string{"Village Friend"},
		RewardPoints:    75,
		ComingSoon:      true,
	},
}

// StoryPacks returns the full pack catalog.
func StoryPacks() []StoryPack {
	out := make([]StoryPack, len(storyPacks))
	copy(out, storyPacks)
	return out
}

// StoryPackByID looks up a pack in the catalog.
func StoryPackByID(id string) (StoryPack, bool) {
	for _, pack := range storyPacks {
		if pack.ID == id {
			return pack, true
		}
	}
	return StoryPack{}, false
}
