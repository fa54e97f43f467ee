// Package checkin orchestrates a completed daily entry across the
// ledger, the story engine and the prompt engine.
package checkin

import (
	"context"
	"strings"

	"github.com/mobble-app/mobble-engine/internal/framework"
	"github.com/mobble-app/mobble-engine/pkg/logger"
	"github.com/mobble-app/mobble-engine/services/points"
	"github.com/mobble-app/mobble-engine/services/prompts"
	"github.com/mobble-app/mobble-engine/services/story"
)

const basePoints = 10

// EntryPoints computes the points for one entry. Same-day entries earn
// the base reward plus a note bonus by length tier; backdated entries
// earn only the note bonus, so an empty note yields zero.
func EntryPoints(note string, backdated bool) int64 {
	note = strings.TrimSpace(note)

	var bonus int64
	switch n := len([]rune(note)); {
	case n == 0:
		bonus = 0
	case n >= 101:
		bonus = 3
	case n >= 51:
		bonus = 2
	default:
		bonus = 1
	}

	if backdated {
		return bonus
	}
	return basePoints + bonus
}

// Ledger credits earned points.
type Ledger interface {
	Credit(ctx context.Context, userID string, amount int64) (points.Account, error)
}

// Story advances the main journey.
type Story interface {
	RecordCheckIn(ctx context.Context, userID string) (story.CheckInResult, error)
}

// Prompts re-evaluates nudges after the entry lands.
type Prompts interface {
	NextPrompt(ctx context.Context, userID string, pctx prompts.Context) (prompts.Definition, bool, error)
}

// Entry describes a submitted check-in.
type Entry struct {
	Note      string `json:"note"`
	Backdated bool   `json:"backdated"`

	// Context for prompt re-evaluation.
	IsProfileComplete  bool `json:"is_profile_complete"`
	HasActivityLevel   bool `json:"has_activity_level"`
	HasVisitedInsights bool `json:"has_visited_insights"`
	HasStartedJourney  bool `json:"has_started_journey"`
}

// Result is everything the UI needs after a check-in.
type Result struct {
	PointsEarned int64               `json:"points_earned"`
	Available    int64               `json:"available"`
	Story        story.CheckInResult `json:"story"`
	Prompt       *prompts.Definition `json:"prompt,omitempty"`
}

// Service runs the check-in flow.
type Service struct {
	*framework.ServiceEngine
	ledger  Ledger
	story   Story
	prompts Prompts
}

// New constructs the check-in orchestrator.
func New(ledger Ledger, storySvc Story, promptSvc Prompts, log *logger.Logger) *Service {
	return &Service{
		ServiceEngine: framework.NewServiceEngine(framework.ServiceConfig{
			Name:        "checkin",
			Description: "daily check-in orchestration",
			Logger:      log,
		}),
		ledger:  ledger,
		story:   storySvc,
		prompts: promptSvc,
	}
}

// Complete credits the entry's points, advances the story (same-day
// entries only) and surfaces the next prompt if one applies.
func (s *Service) Complete(ctx context.Context, userID string, entry Entry) (Result, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Result{}, err
	}

	result := Result{PointsEarned: EntryPoints(entry.Note, entry.Backdated)}
	account, err := s.ledger.Credit(ctx, userID, result.PointsEarned)
	if err != nil {
		return Result{}, err
	}
	result.Available = account.Available()

	// Backdated entries fill history; the journey only moves on
	// same-day check-ins.
	if !entry.Backdated {
		storyResult, err := s.story.RecordCheckIn(ctx, userID)
		if err != nil {
			return Result{}, err
		}
		result.Story = storyResult
	}

	pctx := prompts.Context{
		IsProfileComplete:  entry.IsProfileComplete,
		HasActivityLevel:   entry.HasActivityLevel,
		TodayEntryHasNote:  !entry.Backdated && strings.TrimSpace(entry.Note) != "",
		HasStartedJourney:  entry.HasStartedJourney,
		HasVisitedInsights: entry.HasVisitedInsights,
	}
	if def, ok, err := s.prompts.NextPrompt(ctx, userID, pctx); err == nil && ok {
		result.Prompt = &def
	}

	s.Logger().WithField("user_id", userID).
		WithField("points", result.PointsEarned).
		WithField("backdated", entry.Backdated).
		Info("check-in completed")
	s.IncrementCounter("complete")
	return result, nil
}
