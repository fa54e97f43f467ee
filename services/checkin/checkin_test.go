package checkin

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mobble-app/mobble-engine/pkg/logger"
	"github.com/mobble-app/mobble-engine/services/points"
	"github.com/mobble-app/mobble-engine/services/prompts"
	"github.com/mobble-app/mobble-engine/services/story"
)

func newTestService(t *testing.T) (*Service, *points.Service, *story.Service) {
	t.Helper()
	log := logger.NewNop()
	ledger := points.New(points.NewMemoryStore(), log)
	storySvc := story.New(story.NewMemoryStore(), log)
	promptSvc := prompts.New(prompts.NewMemoryStore(), log)
	return New(ledger, storySvc, promptSvc, log), ledger, storySvc
}

func TestEntryPoints(t *testing.T) {
	tests := []struct {
		name      string
		note      string
		backdated bool
		want      int64
	}{
		{"same day no note", "", false, 10},
		{"same day whitespace note", "   ", false, 10},
		{"same day short note", "walked the dog", false, 11},
		{"same day medium note", strings.Repeat("a", 51), false, 12},
		{"same day boundary short", strings.Repeat("a", 50), false, 11},
		{"same day detailed note", strings.Repeat("a", 101), false, 13},
		{"same day boundary medium", strings.Repeat("a", 100), false, 12},
		{"backdated no note", "", true, 0},
		{"backdated short note", "quick walk", true, 1},
		{"backdated medium note", strings.Repeat("a", 60), true, 2},
		{"backdated detailed note", strings.Repeat("a", 150), true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EntryPoints(tt.note, tt.backdated))
		})
	}
}

func TestCheckin_SameDayAdvancesStory(t *testing.T) {
	ctx := context.Background()
	svc, ledger, storySvc := newTestService(t)

	result, err := svc.Complete(ctx, "user-1", Entry{Note: "felt great today"})
	require.NoError(t, err)
	require.EqualValues(t, 11, result.PointsEarned)
	require.True(t, result.Story.NewScene)

	available, err := ledger.Available(ctx, "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 11, available)

	progress, err := storySvc.Progress(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, progress.TotalCheckIns)
}

func TestCheckin_BackdatedSkipsStory(t *testing.T) {
	ctx := context.Background()
	svc, ledger, storySvc := newTestService(t)

	result, err := svc.Complete(ctx, "user-1", Entry{Note: "caught up later", Backdated: true})
	require.NoError(t, err)
	require.EqualValues(t, 1, result.PointsEarned)
	require.Equal(t, story.CheckInResult{}, result.Story)

	available, err := ledger.Available(ctx, "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, available)

	progress, err := storySvc.Progress(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 0, progress.TotalCheckIns)
}

func TestCheckin_BackdatedWithoutNoteEarnsNothing(t *testing.T) {
	ctx := context.Background()
	svc, ledger, _ := newTestService(t)

	result, err := svc.Complete(ctx, "user-1", Entry{Backdated: true})
	require.NoError(t, err)
	require.EqualValues(t, 0, result.PointsEarned)

	account, err := ledger.Account(ctx, "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 0, account.TotalEarned)
}

func TestCheckin_SurfacesPrompt(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	// Incomplete profile: the highest-priority nudge rides along.
	result, err := svc.Complete(ctx, "user-1", Entry{Note: "n"})
	require.NoError(t, err)
	require.NotNil(t, result.Prompt)
	require.Equal(t, "complete-profile", result.Prompt.ID)

	// Fully set-up users with a note get no nudge.
	result, err = svc.Complete(ctx, "user-2", Entry{
		Note:               "all good",
		IsProfileComplete:  true,
		HasActivityLevel:   true,
		HasStartedJourney:  true,
		HasVisitedInsights: true,
	})
	require.NoError(t, err)
	require.Nil(t, result.Prompt)
}
