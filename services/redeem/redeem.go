// Package redeem implements promo-code redemption: a static code
// catalog granting points or a lifetime unlock, each code usable once
// per user.
package redeem

import (
	"context"
	"errors"
	"strings"

	"github.com/mobble-app/mobble-engine/internal/framework"
	"github.com/mobble-app/mobble-engine/internal/storage"
	"github.com/mobble-app/mobble-engine/pkg/logger"
	"github.com/mobble-app/mobble-engine/services/entitlement"
	"github.com/mobble-app/mobble-engine/services/points"
)

// Errors
var (
	ErrInvalidCode     = errors.New("invalid code")
	ErrAlreadyRedeemed = errors.New("code already redeemed")
)

// GrantKind is what a code pays out.
type GrantKind string

const (
	GrantPoints   GrantKind = "points"
	GrantLifetime GrantKind = "lifetime"
)

// Code is a catalog entry.
type Code struct {
	Code    string    `json:"code"`
	Kind    GrantKind `json:"kind"`
	Points  int64     `json:"points,omitempty"`
	Message string    `json:"message"`
}

// Codes should eventually come from a backend.
var codes = map[string]Code{
	"1000points": {Code: "1000points", Kind: GrantPoints, Points: 1000, Message: "1000 points added!"},
	"welcome50":  {Code: "welcome50", Kind: GrantPoints, Points: 50, Message: "Welcome bonus claimed!"},
	"mobblevip":  {Code: "mobblevip", Kind: GrantLifetime, Message: "Lifetime access unlocked!"},
}

// State tracks which codes a user has used.
type State struct {
	RedeemedCodes []string `json:"redeemed_codes"`
}

// DefaultState returns an empty redemption record.
func DefaultState() State {
	return State{RedeemedCodes: []string{}}
}

// Result reports a successful redemption.
type Result struct {
	Code    string    `json:"code"`
	Kind    GrantKind `json:"kind"`
	Points  int64     `json:"points,omitempty"`
	Message string    `json:"message"`
}

// Ledger credits granted points.
type Ledger interface {
	Credit(ctx context.Context, userID string, amount int64) (points.Account, error)
}

// Entitlements applies lifetime grants.
type Entitlements interface {
	ActivateLifetime(ctx context.Context, userID string) (entitlement.Subscription, error)
}

// Service redeems codes against the catalog.
type Service struct {
	*framework.ServiceEngine
	blobs        *storage.BlobStore
	ledger       Ledger
	entitlements Entitlements
}

// New constructs a redemption service.
func New(adapter storage.Adapter, ledger Ledger, entitlements Entitlements, log *logger.Logger) *Service {
	return &Service{
		ServiceEngine: framework.NewServiceEngine(framework.ServiceConfig{
			Name:        "redeem",
			Description: "promo code redemption",
			Logger:      log,
		}),
		blobs:        storage.NewBlobStore(adapter, storage.KeyRedemptions, log),
		ledger:       ledger,
		entitlements: entitlements,
	}
}

// Redeem applies a code's grant. Codes match case-insensitively and
// each one works once per user; an invalid or repeated code changes
// nothing.
func (s *Service) Redeem(ctx context.Context, userID, code string) (Result, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Result{}, err
	}

	normalized := strings.ToLower(strings.TrimSpace(code))
	entry, ok := codes[normalized]
	if !ok {
		return Result{}, ErrInvalidCode
	}

	state := DefaultState()
	s.blobs.Load(ctx, userID, &state)
	for _, used := range state.RedeemedCodes {
		if used == normalized {
			return Result{}, ErrAlreadyRedeemed
		}
	}

	switch entry.Kind {
	case GrantPoints:
		if _, err := s.ledger.Credit(ctx, userID, entry.Points); err != nil {
			return Result{}, err
		}
	case GrantLifetime:
		if _, err := s.entitlements.ActivateLifetime(ctx, userID); err != nil {
			return Result{}, err
		}
	}

	state.RedeemedCodes = append(state.RedeemedCodes, normalized)
	s.blobs.Save(ctx, userID, &state)

	s.Logger().WithField("user_id", userID).
		WithField("code", normalized).
		WithField("kind", string(entry.Kind)).
		Info("code redeemed")
	s.IncrementCounter("redeem")

	return Result{
		Code:    normalized,
		Kind:    entry.Kind,
		Points:  entry.Points,
		Message: entry.Message,
	}, nil
}

// Redeemed returns the codes the user has already used.
func (s *Service) Redeemed(ctx context.Context, userID string) ([]string, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return nil, err
	}
	state := DefaultState()
	s.blobs.Load(ctx, userID, &state)
	return state.RedeemedCodes, nil
}
