package prompts

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/mobble-app/mobble-engine/internal/framework"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// Errors
var (
	ErrUnknownPrompt = errors.New("unknown prompt")
)

// Service decides which nudge, if any, to surface next.
type Service struct {
	*framework.ServiceEngine
	store Store
	nowFn func() time.Time
}

// New constructs a prompt engine.
func New(store Store, log *logger.Logger) *Service {
	return &Service{
		ServiceEngine: framework.NewServiceEngine(framework.ServiceConfig{
			Name:        "prompts",
			Description: "contextual nudges with daily dismissal and discovery tracking",
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

func (s *Service) today() string {
	return s.nowFn().UTC().Format("2006-01-02")
}

// load fetches state and rolls the daily dismissal set over when the
// stored date is stale.
func (s *Service) load(ctx context.Context, userID string) State {
	today := s.today()
	state := s.store.Load(ctx, userID, today)
	if state.DismissedToday.Date != today {
		state.DismissedToday = DismissedToday{Date: today, PromptIDs: []string{}}
		state.ShownThisSession = false
	}
	return state
}

// NextPrompt returns at most one prompt for the given context: the
// highest-priority catalog entry that is not dismissed today, not
// permanently discovered, and whose condition holds. Returns false
// once a prompt has already been shown this session.
func (s *Service) NextPrompt(ctx context.Context, userID string, pctx Context) (Definition, bool, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Definition{}, false, err
	}

	state := s.load(ctx, userID)
	if state.ShownThisSession {
		return Definition{}, false, nil
	}

	var eligible []Definition
	for _, def := range definitions {
		if containsStr(state.DismissedToday.PromptIDs, def.ID) {
			continue
		}
		if containsStr(state.DiscoveredFeatures, def.ID) {
			continue
		}
		if def.eligible(pctx) {
			eligible = append(eligible, def)
		}
	}
	if len(eligible) == 0 {
		return Definition{}, false, nil
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Priority < eligible[j].Priority
	})
	return eligible[0], true, nil
}

// Dismiss hides a prompt for the rest of the day and counts as the
// session's one prompt.
func (s *Service) Dismiss(ctx context.Context, userID, promptID string) error {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return err
	}
	if _, ok := DefinitionByID(promptID); !ok {
		return ErrUnknownPrompt
	}

	state := s.load(ctx, userID)
	if !containsStr(state.DismissedToday.PromptIDs, promptID) {
		state.DismissedToday.PromptIDs = append(state.DismissedToday.PromptIDs, promptID)
	}
	state.ShownThisSession = true
	s.store.Save(ctx, userID, state)

	s.Logger().WithField("user_id", userID).
		WithField("prompt_id", promptID).
		Info("prompt dismissed")
	s.IncrementCounter("dismiss")
	return nil
}

// MarkShown records that a prompt was surfaced this session without
// the user acting on it.
func (s *Service) MarkShown(ctx context.Context, userID string) error {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return err
	}

	state := s.load(ctx, userID)
	state.ShownThisSession = true
	s.store.Save(ctx, userID, state)
	s.IncrementCounter("mark_shown")
	return nil
}

// MarkFeatureDiscovered permanently retires a discovery prompt.
func (s *Service) MarkFeatureDiscovered(ctx context.Context, userID, promptID string) error {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return err
	}
	if _, ok := DefinitionByID(promptID); !ok {
		return ErrUnknownPrompt
	}

	state := s.load(ctx, userID)
	if containsStr(state.DiscoveredFeatures, promptID) {
		return nil
	}
	state.DiscoveredFeatures = append(state.DiscoveredFeatures, promptID)
	state.ShownThisSession = true
	s.store.Save(ctx, userID, state)

	s.LogAction("discover_feature", "prompt_state", userID)
	s.IncrementCounter("mark_feature_discovered")
	return nil
}

// MarkInsightsVisited records the insights page visit that retires the
// insights discovery prompt. Unlike MarkFeatureDiscovered it does not
// consume the session's prompt slot.
func (s *Service) MarkInsightsVisited(ctx context.Context, userID string) error {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return err
	}

	state := s.load(ctx, userID)
	if containsStr(state.DiscoveredFeatures, insightsPromptID) {
		return nil
	}
	state.DiscoveredFeatures = append(state.DiscoveredFeatures, insightsPromptID)
	s.store.Save(ctx, userID, state)
	s.IncrementCounter("mark_insights_visited")
	return nil
}

// HasVisitedInsights reports whether the insights page was ever visited.
func (s *Service) HasVisitedInsights(ctx context.Context, userID string) (bool, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return false, err
	}
	state := s.load(ctx, userID)
	return containsStr(state.DiscoveredFeatures, insightsPromptID), nil
}

// State returns the user's prompt bookkeeping after day rollover.
func (s *Service) State(ctx context.Context, userID string) (State, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return State{}, err
	}
	return s.load(ctx, userID), nil
}

// ResetSession clears the one-prompt-per-session gate. The session
// manager calls this on login.
func (s *Service) ResetSession(ctx context.Context, userID string) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return
	}

	state := s.load(ctx, userID)
	if !state.ShownThisSession {
		return
	}
	state.ShownThisSession = false
	s.store.Save(ctx, userID, state)
}

// Reset restores empty prompt state.
func (s *Service) Reset(ctx context.Context, userID string) error {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return err
	}
	s.store.Reset(ctx, userID)
	s.LogAction("reset", "prompt_state", userID)
	return nil
}

func containsStr(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
