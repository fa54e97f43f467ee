package story

import (
	"context"
	"errors"
	"time"

	"github.com/mobble-app/mobble-engine/internal/framework"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// Errors
var (
	ErrUnknownArc      = errors.New("unknown story arc")
	ErrUnknownSidePath = errors.New("unknown side path")
	ErrSidePathLocked  = errors.New("side path not unlocked")
)

// Service drives the story state machine.
type Service struct {
	*framework.ServiceEngine
	store Store
	nowFn func() time.Time
}

// New constructs a story progression service.
func New(store Store, log *logger.Logger) *Service {
	return &Service{
		ServiceEngine: framework.NewServiceEngine(framework.ServiceConfig{
			Name:        "story",
			Description: "check-in driven arc progression and side paths",
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

// Progress returns the user's full story state.
func (s *Service) Progress(ctx context.Context, userID string) (Progress, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Progress{}, err
	}
	return s.store.Load(ctx, userID), nil
}

// StartJourney stamps the journey start time. Calling it again is a
// no-op and does not reset any counters.
func (s *Service) StartJourney(ctx context.Context, userID string) (Progress, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Progress{}, err
	}

	progress := s.store.Load(ctx, userID)
	if progress.HasStarted() {
		return progress, nil
	}

	now := s.nowFn().UTC()
	progress.JourneyStartedAt = &now
	s.store.Save(ctx, userID, progress)

	s.LogAction("start_journey", "story_progress", userID)
	s.IncrementCounter("start_journey")
	return progress, nil
}

// RecordCheckIn advances the story by one daily check-in. The scene
// index never regresses; completing the final arc leaves progress on
// its last scene with no further scene or arc events.
func (s *Service) RecordCheckIn(ctx context.Context, userID string) (CheckInResult, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return CheckInResult{}, err
	}

	progress := s.store.Load(ctx, userID)
	arc, ok := ArcByID(progress.CurrentArcID)
	if !ok {
		s.Logger().WithField("user_id", userID).
			WithField("arc_id", progress.CurrentArcID).
			Warn("check-in on unknown arc, no-op")
		return CheckInResult{}, nil
	}

	progress.TotalCheckIns++
	progress.CheckInsThisArc++
	progress.LastCheckInDate = s.nowFn().UTC().Format("2006-01-02")

	oldIndex := progress.CurrentSceneIndex
	newIndex := CalculateSceneIndex(progress.CheckInsThisArc, arc)

	var result CheckInResult
	if newIndex > oldIndex {
		result.NewScene = true
		progress.CurrentSceneIndex = newIndex
		sceneID := arc.Scenes[newIndex].ID
		if !containsStr(progress.UnlockedScenes, sceneID) {
			progress.UnlockedScenes = append(progress.UnlockedScenes, sceneID)
		}
	}

	atFinalScene := newIndex == len(arc.Scenes)-1
	if atFinalScene && progress.CheckInsThisArc >= arc.TotalSteps && !containsStr(progress.CompletedArcs, arc.ID) {
		result.ArcCompleted = true
		progress.CompletedArcs = append(progress.CompletedArcs, arc.ID)

		if next, ok := NextArc(arc.ID); ok {
			result.NewArc = true
			progress.CurrentArcID = next.ID
			progress.CurrentSceneIndex = 0
			progress.CheckInsThisArc = 0
		}
	}

	s.store.Save(ctx, userID, progress)

	s.Logger().WithField("user_id", userID).
		WithField("arc_id", arc.ID).
		WithField("total_check_ins", progress.TotalCheckIns).
		WithField("new_scene", result.NewScene).
		WithField("arc_completed", result.ArcCompleted).
		Info("check-in recorded")
	s.IncrementCounter("record_check_in")
	return result, nil
}

// CurrentScene returns the arc and scene progress points at.
func (s *Service) CurrentScene(ctx context.Context, userID string) (Arc, Scene, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Arc{}, Scene{}, err
	}

	progress := s.store.Load(ctx, userID)
	arc, ok := ArcByID(progress.CurrentArcID)
	if !ok || progress.CurrentSceneIndex >= len(arc.Scenes) {
		return Arc{}, Scene{}, ErrUnknownArc
	}
	return arc, arc.Scenes[progress.CurrentSceneIndex], nil
}

// ArcProgress returns check-in progress through the current arc.
func (s *Service) ArcProgress(ctx context.Context, userID string) (ArcProgress, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return ArcProgress{}, err
	}

	progress := s.store.Load(ctx, userID)
	arc, ok := ArcByID(progress.CurrentArcID)
	if !ok {
		return ArcProgress{}, nil
	}

	pct := (progress.CheckInsThisArc*100 + arc.TotalSteps/2) / arc.TotalSteps
	if pct > 100 {
		pct = 100
	}
	return ArcProgress{
		Current:    progress.CheckInsThisArc,
		Total:      arc.TotalSteps,
		Percentage: pct,
	}, nil
}

// CanAffordSidePath reports whether the balance covers the unlock cost.
func (s *Service) CanAffordSidePath(sidePathID string, availablePoints int64) bool {
	sp, ok := SidePathByID(sidePathID)
	if !ok {
		return false
	}
	return availablePoints >= sp.PointsCost
}

// UnlockSidePath records a side path unlock. The caller spends points
// through the ledger before calling this; unlocking an already-unlocked
// path succeeds without effect.
func (s *Service) UnlockSidePath(ctx context.Context, userID, sidePathID string) (Progress, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return Progress{}, err
	}
	if _, ok := SidePathByID(sidePathID); !ok {
		return Progress{}, ErrUnknownSidePath
	}

	progress := s.store.Load(ctx, userID)
	if containsStr(progress.UnlockedSidePaths, sidePathID) {
		return progress, nil
	}

	progress.UnlockedSidePaths = append(progress.UnlockedSidePaths, sidePathID)
	s.store.Save(ctx, userID, progress)

	s.Logger().WithField("user_id", userID).
		WithField("side_path_id", sidePathID).
		Info("side path unlocked")
	s.IncrementCounter("unlock_side_path")
	return progress, nil
}

// SidePathProgress counts the path's unlocked scenes, or zero when the
// path itself is still locked.
func (s *Service) SidePathProgress(ctx context.Context, userID, sidePathID string) (int, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return 0, err
	}
	progress := s.store.Load(ctx, userID)
	return sidePathProgress(progress, sidePathID), nil
}

// AdvanceSidePath unlocks the path's next scene in sequence. Unlocking
// the final scene marks the path completed. Returns false when there is
// nothing left to advance.
func (s *Service) AdvanceSidePath(ctx context.Context, userID, sidePathID string) (bool, error) {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return false, err
	}
	sp, ok := SidePathByID(sidePathID)
	if !ok {
		return false, ErrUnknownSidePath
	}

	progress := s.store.Load(ctx, userID)
	if !containsStr(progress.UnlockedSidePaths, sidePathID) {
		return false, ErrSidePathLocked
	}

	current := sidePathProgress(progress, sidePathID)
	if current >= len(sp.Scenes) {
		// Fully explored; mark completed if a crash lost that write.
		if !containsStr(progress.CompletedSidePaths, sidePathID) {
			progress.CompletedSidePaths = append(progress.CompletedSidePaths, sidePathID)
			s.store.Save(ctx, userID, progress)
		}
		return false, nil
	}

	progress.UnlockedScenes = append(progress.UnlockedScenes, sp.Scenes[current].ID)
	if current+1 >= len(sp.Scenes) && !containsStr(progress.CompletedSidePaths, sidePathID) {
		progress.CompletedSidePaths = append(progress.CompletedSidePaths, sidePathID)
	}
	s.store.Save(ctx, userID, progress)

	s.Logger().WithField("user_id", userID).
		WithField("side_path_id", sidePathID).
		WithField("scenes_unlocked", current+1).
		Info("side path advanced")
	s.IncrementCounter("advance_side_path")
	return true, nil
}

// Reset restores the default progress.
func (s *Service) Reset(ctx context.Context, userID string) error {
	userID, err := s.ValidateUser(userID)
	if err != nil {
		return err
	}
	s.store.Reset(ctx, userID)
	s.LogAction("reset", "story_progress", userID)
	return nil
}

func sidePathProgress(progress Progress, sidePathID string) int {
	if !containsStr(progress.UnlockedSidePaths, sidePathID) {
		return 0
	}
	sp, ok := SidePathByID(sidePathID)
	if !ok {
		return 0
	}
	count := 0
	for _, scene := range sp.Scenes {
		if containsStr(progress.UnlockedScenes, scene.ID) {
			count++
		}
	}
	return count
}

func containsStr(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
