package story

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mobble-app/mobble-engine/pkg/logger"
)

func newTestService() *Service {
	return New(NewMemoryStore(), logger.NewNop())
}

func TestStory_FirstArcProgression(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	// The first arc has seven steps across seven scenes, so every
	// check-in except the last lands on a new scene.
	for i := 1; i <= 6; i++ {
		result, err := svc.RecordCheckIn(ctx, "user-1")
		require.NoError(t, err)
		require.True(t, result.NewScene, "check-in %d", i)
		require.False(t, result.ArcCompleted, "check-in %d", i)
	}

	progress, err := svc.Progress(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "the-path", progress.CurrentArcID)
	require.Equal(t, 6, progress.CurrentSceneIndex)
	require.Len(t, progress.UnlockedScenes, 6)

	// The seventh check-in completes the arc and moves to the next.
	result, err := svc.RecordCheckIn(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, result.NewScene)
	require.True(t, result.ArcCompleted)
	require.True(t, result.NewArc)

	progress, err = svc.Progress(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "the-garden", progress.CurrentArcID)
	require.Equal(t, 0, progress.CurrentSceneIndex)
	require.Equal(t, 0, progress.CheckInsThisArc)
	require.Equal(t, 7, progress.TotalCheckIns)
	require.Equal(t, []string{"the-path"}, progress.CompletedArcs)
}

func TestStory_SceneIndexMatchesCheckIns(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	for i := 0; i < 40; i++ {
		_, err := svc.RecordCheckIn(ctx, "user-1")
		require.NoError(t, err)

		progress, err := svc.Progress(ctx, "user-1")
		require.NoError(t, err)
		arc, ok := ArcByID(progress.CurrentArcID)
		require.True(t, ok)
		require.Equal(t, CalculateSceneIndex(progress.CheckInsThisArc, arc), progress.CurrentSceneIndex)
	}
}

func TestStory_FinalArcStaysOnLastScene(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	// 7 + 10 + 12 check-ins run the whole journey.
	var last CheckInResult
	for i := 0; i < 29; i++ {
		result, err := svc.RecordCheckIn(ctx, "user-1")
		require.NoError(t, err)
		last = result
	}
	require.True(t, last.ArcCompleted)
	require.False(t, last.NewArc)

	progress, err := svc.Progress(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "the-lighthouse", progress.CurrentArcID)
	require.Len(t, progress.CompletedArcs, 3)

	// Further check-ins count but produce no scene or arc events.
	for i := 0; i < 5; i++ {
		result, err := svc.RecordCheckIn(ctx, "user-1")
		require.NoError(t, err)
		require.Equal(t, CheckInResult{}, result)
	}

	progress, err = svc.Progress(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 34, progress.TotalCheckIns)
	require.Equal(t, 11, progress.CurrentSceneIndex)
}

func TestStory_MonotonicProgress(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	var lastScenes, lastArcs, lastTotal int
	lastIndexByArc := map[string]int{}
	for i := 0; i < 35; i++ {
		_, err := svc.RecordCheckIn(ctx, "user-1")
		require.NoError(t, err)

		progress, err := svc.Progress(ctx, "user-1")
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(progress.UnlockedScenes), lastScenes)
		require.GreaterOrEqual(t, len(progress.CompletedArcs), lastArcs)
		require.Greater(t, progress.TotalCheckIns, lastTotal)
		require.GreaterOrEqual(t, progress.CurrentSceneIndex, lastIndexByArc[progress.CurrentArcID])

		lastScenes = len(progress.UnlockedScenes)
		lastArcs = len(progress.CompletedArcs)
		lastTotal = progress.TotalCheckIns
		lastIndexByArc[progress.CurrentArcID] = progress.CurrentSceneIndex
	}
}

func TestStory_StartJourneyIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	progress, err := svc.StartJourney(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, progress.HasStarted())
	started := *progress.JourneyStartedAt

	_, err = svc.RecordCheckIn(ctx, "user-1")
	require.NoError(t, err)

	progress, err = svc.StartJourney(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, started, *progress.JourneyStartedAt)
	require.Equal(t, 1, progress.TotalCheckIns)
}

func TestStory_CurrentSceneAndArcProgress(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	arc, scene, err := svc.CurrentScene(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "the-path", arc.ID)
	require.Equal(t, "path-start", scene.ID)

	_, err = svc.RecordCheckIn(ctx, "user-1")
	require.NoError(t, err)

	_, scene, err = svc.CurrentScene(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "path-first-steps", scene.ID)

	ap, err := svc.ArcProgress(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, ArcProgress{Current: 1, Total: 7, Percentage: 14}, ap)

	// Percentage rounds to nearest: 6 of 7 is 86, not 85.
	for i := 0; i < 5; i++ {
		_, err = svc.RecordCheckIn(ctx, "user-1")
		require.NoError(t, err)
	}
	ap, err = svc.ArcProgress(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, ArcProgress{Current: 6, Total: 7, Percentage: 86}, ap)
}

func TestStory_SidePathLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	require.True(t, svc.CanAffordSidePath("stargazing", 50))
	require.False(t, svc.CanAffordSidePath("stargazing", 49))
	require.False(t, svc.CanAffordSidePath("no-such-path", 1000))

	// Advancing a locked path fails.
	_, err := svc.AdvanceSidePath(ctx, "user-1", "stargazing")
	require.ErrorIs(t, err, ErrSidePathLocked)

	progress, err := svc.UnlockSidePath(ctx, "user-1", "stargazing")
	require.NoError(t, err)
	require.Equal(t, []string{"stargazing"}, progress.UnlockedSidePaths)

	// Unlocking again is a no-op.
	progress, err = svc.UnlockSidePath(ctx, "user-1", "stargazing")
	require.NoError(t, err)
	require.Equal(t, []string{"stargazing"}, progress.UnlockedSidePaths)

	// Three scenes, then completion.
	for i := 1; i <= 3; i++ {
		advanced, err := svc.AdvanceSidePath(ctx, "user-1", "stargazing")
		require.NoError(t, err)
		require.True(t, advanced)

		n, err := svc.SidePathProgress(ctx, "user-1", "stargazing")
		require.NoError(t, err)
		require.Equal(t, i, n)
	}

	progress, err = svc.Progress(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, []string{"stargazing"}, progress.CompletedSidePaths)

	// Nothing left to advance.
	advanced, err := svc.AdvanceSidePath(ctx, "user-1", "stargazing")
	require.NoError(t, err)
	require.False(t, advanced)

	_, err = svc.UnlockSidePath(ctx, "user-1", "no-such-path")
	require.ErrorIs(t, err, ErrUnknownSidePath)
}

func TestStory_SidePathProgressLockedIsZero(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	n, err := svc.SidePathProgress(ctx, "user-1", "rainy-day")
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestCalculateSceneIndex(t *testing.T) {
	arc, ok := ArcByID("the-garden")
	require.True(t, ok)

	require.Equal(t, 0, CalculateSceneIndex(0, arc))
	require.Equal(t, 1, CalculateSceneIndex(1, arc))
	require.Equal(t, 5, CalculateSceneIndex(5, arc))
	require.Equal(t, 9, CalculateSceneIndex(9, arc))
	// Capped at the final scene.
	require.Equal(t, 9, CalculateSceneIndex(50, arc))
}
