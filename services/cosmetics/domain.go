// Package cosmetics implements the points-backed cosmetics store: a
// static item catalog and a per-user wardrobe of owned and equipped items.
package cosmetics

import "time"

// Category groups catalog items for display.
type Category string

const (
	CategoryHats        Category = "hats"
	CategoryAccessories Category = "accessories"
	CategoryClothing    Category = "clothing"
	CategoryEffects     Category = "effects"
)

// Item is a catalog entry. Free items carry a points price; premium
// items carry a real-money price and are never sold for points.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Category    Category `json:"category"`

	IsPremium         bool     `json:"is_premium,omitempty"`
	RealMoneyPrice    float64  `json:"real_money_price,omitempty"`
	IncludedInBundles []string `json:"included_in_bundles,omitempty"`
}

// Bundle is a discounted collection of premium cosmetics.
type Bundle struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	CosmeticIDs []string `json:"cosmetic_ids"`
	Savings     string   `json:"savings"`
}

// Wardrobe is a user's cosmetic state. Equipped is empty or one of Owned.
type Wardrobe struct {
	Owned     []string  `json:"owned"`
	Equipped  string    `json:"equipped,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultWardrobe returns an empty wardrobe with nothing equipped.
func DefaultWardrobe() Wardrobe {
	return Wardrobe{Owned: []string{}}
}

// Owns reports whether the wardrobe contains the item.
func (w Wardrobe) Owns(itemID string) bool {
	for _, id := range w.Owned {
		if id == itemID {
			return true
		}
	}
	return false
}

var items = []Item{
	{ID: "wizard-hat", Name: "Wizard Hat", Description: "Channel your inner magic", Price: 50, Category: CategoryHats},
	{ID: "sunglasses", Name: "Cool Sunglasses", Description: "Looking good after that workout", Price: 30, Category: CategoryAccessories},
	{ID: "sweatband", Name: "Retro Sweatband", Description: "For the motivated ones", Price: 25, Category: CategoryAccessories},
	{ID: "crown", Name: "Golden Crown", Description: "Royalty of consistency", Price: 100, Category: CategoryHats},
	{ID: "cape", Name: "Hero Cape", Description: "Not all heroes log every day", Price: 75, Category: CategoryClothing},
	{ID: "party-hat", Name: "Party Hat", Description: "Celebrate the small wins", Price: 40, Category: CategoryHats},
	{ID: "sparkles", Name: "Sparkle Effect", Description: "You shine when you move", Price: 60, Category: CategoryEffects},
	{ID: "headphones", Name: "Workout Headphones", Description: "Jamming to the beat", Price: 35, Category: CategoryAccessories},

	{ID: "aurora-crown", Name: "Aurora Crown", Description: "Shimmering northern lights dance above your head", Category: CategoryHats, IsPremium: true, RealMoneyPrice: 0.99, IncludedInBundles: []string{"glow-bundle"}},
	{ID: "starfield-effect", Name: "Starfield Effect", Description: "A galaxy follows wherever you go", Category: CategoryEffects, IsPremium: true, RealMoneyPrice: 1.49, IncludedInBundles: []string{"glow-bundle"}},
	{ID: "moonbeam-wings", Name: "Moonbeam Wings", Description: "Ethereal wings that glow softly", Category: CategoryAccessories, IsPremium: true, RealMoneyPrice: 1.29, IncludedInBundles: []string{"glow-bundle"}},
	{ID: "comet-trail", Name: "Comet Trail", Description: "Leave a trail of stardust behind you", Category: CategoryEffects, IsPremium: true, RealMoneyPrice: 0.99, IncludedInBundles: []string{"glow-bundle"}},
	{ID: "nebula-cape", Name: "Nebula Cape", Description: "A cape woven from cosmic clouds", Category: CategoryClothing, IsPremium: true, RealMoneyPrice: 1.49, IncludedInBundles: []string{"glow-bundle"}},
	{ID: "rainbow-aura", Name: "Rainbow Aura", Description: "Surrounded by gentle rainbow light", Category: CategoryEffects, IsPremium: true, RealMoneyPrice: 1.29},
	{ID: "flower-crown", Name: "Flower Crown", Description: "Fresh blooms that never wilt", Category: CategoryHats, IsPremium: true, RealMoneyPrice: 0.99},
	{ID: "crystal-heart", Name: "Crystal Heart", Description: "A gem that pulses with warmth", Category: CategoryAccessories, IsPremium: true, RealMoneyPrice: 1.29},
}

var bundles = []Bundle{
	{
		ID:          "glow-bundle",
		Name:        "Glow Collection",
		Description: "5 luminous cosmetics to light up your journey",
		Price:       1.99,
		CosmeticIDs: []string{"aurora-crown", "starfield-effect", "moonbeam-wings", "comet-trail", "nebula-cape"},
		Savings:     "60% off",
	},
}

// Catalog returns every catalog item.
func Catalog() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// FreeItems returns items purchasable with points.
func FreeItems() []Item {
	var out []Item
	for _, item := range items {
		if !item.IsPremium {
			out = append(out, item)
		}
	}
	return out
}

// PremiumItems returns items gated behind entitlements.
func PremiumItems() []Item {
	var out []Item
	for _, item := range items {
		if item.IsPremium {
			out = append(out, item)
		}
	}
	return out
}

// ItemByID looks up a catalog item.
func ItemByID(id string) (Item, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Bundles returns every bundle.
func Bundles() []Bundle {
	out := make([]Bundle, len(bundles))
	copy(out, bundles)
	return out
}

// BundleByID looks up a bundle.
func BundleByID(id string) (Bundle, bool) {
	for _, bundle := range bundles {
		if bundle.ID == id {
			return bundle, true
		}
	}
	return Bundle{}, false
}

// ItemsInBundle resolves a bundle's cosmetic ids against the catalog.
func ItemsInBundle(bundleID string) []Item {
	bundle, ok := BundleByID(bundleID)
	if !ok {
		return nil
	}
	var out []Item
	for _, id := range bundle.CosmeticIDs {
		if item, ok := ItemByID(id); ok {
			out = append(out, item)
		}
	}
	return out
}
