// Package access is the feature gating facade. It holds no state of
// its own; every answer is composed from the entitlement store.
//
// Core principle: daily logging is always free. Premium gates cover
// expression, expansion and deeper insights only.
package access

import (
	"context"

	"github.com/mobble-app/mobble-engine/internal/framework"
	"github.com/mobble-app/mobble-engine/pkg/logger"
	"github.com/mobble-app/mobble-engine/services/entitlement"
)

// Entitlements is the subscription collaborator gates are derived from.
type Entitlements interface {
	Subscription(ctx context.Context, userID string) (entitlement.Subscription, error)
}

// Feature names upgrade-gated functionality.
type Feature string

const (
	FeaturePremiumCosmetics Feature = "premium_cosmetics"
	FeaturePremiumStories   Feature = "premium_stories"
	FeaturePDFExport        Feature = "pdf_export"
	FeatureAIInsights       Feature = "ai_insights"
)

// Summary is the full gate snapshot for one user.
type Summary struct {
	IsPro                 bool             `json:"is_pro"`
	IsLifetime            bool             `json:"is_lifetime"`
	HasActiveSubscription bool             `json:"has_active_subscription"`
	Tier                  entitlement.Tier `json:"tier"`

	CanAccessPremiumCosmetics bool `json:"can_access_premium_cosmetics"`
	CanAccessPremiumStories   bool `json:"can_access_premium_stories"`
	CanExportPDF              bool `json:"can_export_pdf"`
	CanSeeAIInsights          bool `json:"can_see_ai_insights"`
	ShouldShowAds             bool `json:"should_show_ads"`

	// Never gated.
	CanLogDaily          bool `json:"can_log_daily"`
	CanUseBasicCosmetics bool `json:"can_use_basic_cosmetics"`
	CanAccessCoreStories bool `json:"can_access_core_stories"`
	CanExportJSON        bool `json:"can_export_json"`
	CanExportCSV         bool `json:"can_export_csv"`
}

// Service answers feature access questions.
type Service struct {
	*framework.ServiceEngine
	entitlements Entitlements
}

// New constructs the facade over an entitlement source.
func New(entitlements Entitlements, log *logger.Logger) *Service {
	return &Service{
		ServiceEngine: framework.NewServiceEngine(framework.ServiceConfig{
			Name:        "access",
			Description: "feature gates composed from entitlements",
			Logger:      log,
		}),
		entitlements: entitlements,
	}
}

// Summary returns every gate for the user in one snapshot.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	sub, err := s.entitlements.Subscription(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	pro := sub.IsPro()
	return Summary{
		IsPro:                 pro,
		IsLifetime:            sub.IsLifetime(),
		HasActiveSubscription: sub.HasActiveSubscription(),
		Tier:                  sub.Tier,

		CanAccessPremiumCosmetics: pro,
		CanAccessPremiumStories:   pro,
		CanExportPDF:              pro,
		CanSeeAIInsights:          pro,
		ShouldShowAds:             !pro,

		CanLogDaily:          true,
		CanUseBasicCosmetics: true,
		CanAccessCoreStories: true,
		CanExportJSON:        true,
		CanExportCSV:         true,
	}, nil
}

// CanAccessStoryPack reports per-pack access: pro or itemized purchase.
func (s *Service) CanAccessStoryPack(ctx context.Context, userID, packID string) (bool, error) {
	sub, err := s.entitlements.Subscription(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.IsPro() || owns(sub.PurchasedStoryPacks, packID), nil
}

// CanUsePremiumCosmetic reports per-cosmetic access.
func (s *Service) CanUsePremiumCosmetic(ctx context.Context, userID, cosmeticID string) (bool, error) {
	sub, err := s.entitlements.Subscription(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.IsPro() || owns(sub.PurchasedCosmetics, cosmeticID), nil
}

// CanUseCosmeticBundle reports per-bundle access.
func (s *Service) CanUseCosmeticBundle(ctx context.Context, userID, bundleID string) (bool, error) {
	sub, err := s.entitlements.Subscription(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.IsPro() || owns(sub.PurchasedCosmeticBundles, bundleID), nil
}

// RequiresUpgrade reports whether a feature needs a plan upgrade for
// this user. Unknown features never require one.
func (s *Service) RequiresUpgrade(ctx context.Context, userID string, feature Feature) (bool, error) {
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return false, err
	}
	switch feature {
	case FeaturePremiumCosmetics:
		return !summary.CanAccessPremiumCosmetics, nil
	case FeaturePremiumStories:
		return !summary.CanAccessPremiumStories, nil
	case FeaturePDFExport:
		return !summary.CanExportPDF, nil
	case FeatureAIInsights:
		return !summary.CanSeeAIInsights, nil
	default:
		return false, nil
	}
}

func owns(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}
