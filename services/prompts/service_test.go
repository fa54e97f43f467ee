package prompts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mobble-app/mobble-engine/pkg/logger"
)

func newTestService() *Service {
	return New(NewMemoryStore(), logger.NewNop())
}

// emptyContext makes every prompt condition true.
var emptyContext = Context{}

func TestPrompts_PriorityOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	// Everything missing: the priority-1 profile prompt wins.
	def, ok, err := svc.NextPrompt(ctx, "user-1", emptyContext)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "complete-profile", def.ID)

	// Profile complete but no activity level: the other priority-1 prompt.
	def, ok, err = svc.NextPrompt(ctx, "user-1", Context{IsProfileComplete: true})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "set-activity-level", def.ID)

	// Profile fully set up: the note nudge comes next.
	def, ok, err = svc.NextPrompt(ctx, "user-1", Context{IsProfileComplete: true, HasActivityLevel: true})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "add-notes", def.ID)

	// Nothing applies: no prompt.
	_, ok, err = svc.NextPrompt(ctx, "user-1", Context{
		IsProfileComplete:  true,
		HasActivityLevel:   true,
		TodayEntryHasNote:  true,
		HasStartedJourney:  true,
		HasVisitedInsights: true,
	})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPrompts_OnePromptPerSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	require.NoError(t, svc.MarkShown(ctx, "user-1"))

	_, ok, err := svc.NextPrompt(ctx, "user-1", emptyContext)
	require.NoError(t, err)
	require.False(t, ok)

	// A new session lifts the gate.
	svc.ResetSession(ctx, "user-1")
	_, ok, err = svc.NextPrompt(ctx, "user-1", emptyContext)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPrompts_DismissalResetsNextDay(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	require.NoError(t, svc.Dismiss(ctx, "user-1", "complete-profile"))

	// Dismissing consumed the session slot.
	_, ok, err := svc.NextPrompt(ctx, "user-1", emptyContext)
	require.NoError(t, err)
	require.False(t, ok)

	// Same day, new session: the dismissed prompt stays hidden and the
	// next eligible one surfaces.
	svc.ResetSession(ctx, "user-1")
	def, ok, err := svc.NextPrompt(ctx, "user-1", emptyContext)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "set-activity-level", def.ID)

	// Next day the dismissal expires.
	now = now.Add(24 * time.Hour)
	def, ok, err = svc.NextPrompt(ctx, "user-1", emptyContext)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "complete-profile", def.ID)
}

func TestPrompts_FeatureDiscoveryIsPermanent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	fullySetUp := Context{
		IsProfileComplete: true,
		HasActivityLevel:  true,
		TodayEntryHasNote: true,
	}

	def, ok, err := svc.NextPrompt(ctx, "user-1", fullySetUp)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "discover-story", def.ID)

	require.NoError(t, svc.MarkFeatureDiscovered(ctx, "user-1", "discover-story"))

	// Days later, in a fresh session, the discovered prompt never
	// comes back; the next discovery prompt does.
	now = now.Add(72 * time.Hour)
	svc.ResetSession(ctx, "user-1")
	def, ok, err = svc.NextPrompt(ctx, "user-1", fullySetUp)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "discover-insights", def.ID)
}

func TestPrompts_InsightsVisitRetiresPrompt(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	visited, err := svc.HasVisitedInsights(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, visited)

	require.NoError(t, svc.MarkInsightsVisited(ctx, "user-1"))

	visited, err = svc.HasVisitedInsights(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, visited)

	// Visiting insights does not consume the session's prompt slot.
	state, err := svc.State(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, state.ShownThisSession)
	require.Contains(t, state.DiscoveredFeatures, "discover-insights")
}

func TestPrompts_UnknownPromptRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	require.ErrorIs(t, svc.Dismiss(ctx, "user-1", "nope"), ErrUnknownPrompt)
	require.ErrorIs(t, svc.MarkFeatureDiscovered(ctx, "user-1", "nope"), ErrUnknownPrompt)
}

func TestPrompts_Reset(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	require.NoError(t, svc.Dismiss(ctx, "user-1", "add-notes"))
	require.NoError(t, svc.Reset(ctx, "user-1"))

	state, err := svc.State(ctx, "user-1")
	require.NoError(t, err)
	require.Empty(t, state.DismissedToday.PromptIDs)
	require.Empty(t, state.DiscoveredFeatures)
	require.False(t, state.ShownThisSession)
}
