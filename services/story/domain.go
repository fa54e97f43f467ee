// Package story implements the check-in driven story progression: a
// fixed sequence of arcs whose scenes unlock as daily check-ins
// accumulate, plus optional point-gated side paths.
package story

import "time"

// Emote is the mascot's mood in a scene.
type Emote string

const (
	EmoteNeutral Emote = "neutral"
	EmoteHappy   Emote = "happy"
	EmoteTired   Emote = "tired"
	EmoteProud   Emote = "proud"
	EmoteCalm    Emote = "calm"
	EmoteCurious Emote = "curious"
	EmoteCozy    Emote = "cozy"
)

// Scene is one beat of an arc or side path.
type Scene struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Emote       Emote  `json:"emote"`
	Background  string `json:"background"`
}

// Arc is a chapter of the main journey. TotalSteps is the number of
// check-ins needed to complete it; scenes unlock evenly across them.
type Arc struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	TotalSteps  int     `json:"total_steps"`
	Scenes      []Scene `json:"scenes"`
}

// Reward is granted on completing a side path.
type Reward struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SidePath is optional bonus content unlocked by spending points.
type SidePath struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PointsCost  int64   `json:"points_cost"`
	Scenes      []Scene `json:"scenes"`
	Reward      *Reward `json:"reward,omitempty"`
}

// Progress is a user's full story state. The counters and the unlocked
// and completed sets only ever grow.
type Progress struct {
	CurrentArcID       string     `json:"current_arc_id"`
	CurrentSceneIndex  int        `json:"current_scene_index"`
	TotalCheckIns      int        `json:"total_check_ins"`
	CheckInsThisArc    int        `json:"check_ins_this_arc"`
	UnlockedScenes     []string   `json:"unlocked_scenes"`
	CompletedArcs      []string   `json:"completed_arcs"`
	UnlockedSidePaths  []string   `json:"unlocked_side_paths"`
	CompletedSidePaths []string   `json:"completed_side_paths"`
	LastCheckInDate    string     `json:"last_check_in_date,omitempty"`
	JourneyStartedAt   *time.Time `json:"journey_started_at,omitempty"`
}

// DefaultProgress starts at the first arc, nothing unlocked.
func DefaultProgress() Progress {
	return Progress{
		CurrentArcID:       arcs[0].ID,
		UnlockedScenes:     []string{},
		CompletedArcs:      []string{},
		UnlockedSidePaths:  []string{},
		CompletedSidePaths: []string{},
	}
}

// HasStarted reports whether the journey has been started.
func (p Progress) HasStarted() bool {
	return p.JourneyStartedAt != nil
}

// CheckInResult reports what a check-in unlocked.
type CheckInResult struct {
	NewScene     bool `json:"new_scene"`
	ArcCompleted bool `json:"arc_completed"`
	NewArc       bool `json:"new_arc"`
}

// ArcProgress is a display-friendly view of progress through the
// current arc.
type ArcProgress struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

var arcs = []Arc{
	{
		ID:          "the-path",
		Name:        "The Path",
		Description: "Mobble notices a gentle path leading somewhere peaceful.",
		TotalSteps:  7,
		Scenes: []Scene{
			{ID: "path-start", Title: "A New Beginning", Description: "Mobble notices a gentle path ahead. It looks inviting.", Emote: EmoteCurious, Background: "path-start"},
			{ID: "path-first-steps", Title: "First Steps", Description: "Mobble took a small step today. The path feels right.", Emote: EmoteHappy, Background: "path-walking"},
			{ID: "path-moving", Title: "Finding Rhythm", Description: "Mobble is starting to enjoy the journey.", Emote: EmoteCalm, Background: "path-meadow"},
			{ID: "path-halfway", Title: "Halfway There", Description: "Mobble paused to look back. Look how far you've come.", Emote: EmoteProud, Background: "path-viewpoint"},
			{ID: "path-tired", Title: "A Moment to Rest", Description: "Mobble found a nice spot to catch their breath.", Emote: EmoteTired, Background: "path-resting"},
			{ID: "path-almost", Title: "Almost There", Description: "Mobble can see something warm ahead.", Emote: EmoteCurious, Background: "path-approaching"},
			{ID: "path-complete", Title: "A Cozy Spot", Description: "Mobble found a peaceful resting place. You helped them get here.", Emote: EmoteCozy, Background: "path-destination"},
		},
	},
	{
		ID:          "the-garden",
		Name:        "The Garden",
		Description: "Beyond the path, Mobble discovers a gentle garden.",
		TotalSteps:  10,
		Scenes: []Scene{
			{ID: "garden-discover", Title: "A Hidden Gate", Description: "Mobble spots an old garden gate. Wonder what's inside?", Emote: EmoteCurious, Background: "garden-gate"},
			{ID: "garden-enter", Title: "Stepping In", Description: "The garden is quiet and welcoming.", Emote: EmoteCalm, Background: "garden-entrance"},
			{ID: "garden-flowers", Title: "First Blooms", Description: "Mobble notices tiny flowers starting to grow.", Emote: EmoteHappy, Background: "garden-flowers"},
			{ID: "garden-bench", Title: "A Quiet Bench", Description: "A perfect spot to sit and breathe.", Emote: EmoteCozy, Background: "garden-bench"},
			{ID: "garden-pond", Title: "Still Waters", Description: "Mobble found a small pond. The water is calm.", Emote: EmoteCalm, Background: "garden-pond"},
			{ID: "garden-butterflies", Title: "Visitors", Description: "Butterflies seem to like Mobble's company.", Emote: EmoteHappy, Background: "garden-butterflies"},
			{ID: "garden-sunset", Title: "Golden Hour", Description: "The garden glows in the evening light.", Emote: EmoteProud, Background: "garden-sunset"},
			{ID: "garden-growing", Title: "Growing Together", Description: "The flowers are blooming more each day. So is Mobble.", Emote: EmoteHappy, Background: "garden-blooming"},
			{ID: "garden-rest", Title: "Tired but Happy", Description: "Mobble worked hard today. Time for a break.", Emote: EmoteTired, Background: "garden-hammock"},
			{ID: "garden-complete", Title: "A Garden Home", Description: "This garden feels like it belongs to Mobble now. You made this happen.", Emote: EmoteCozy, Background: "garden-home"},
		},
	},
	{
		ID:          "the-lighthouse",
		Name:        "The Lighthouse",
		Description: "A distant light calls Mobble toward the coast.",
		TotalSteps:  12,
		Scenes: []Scene{
			{ID: "lighthouse-glimpse", Title: "A Distant Light", Description: "Mobble sees something glowing far away.", Emote: EmoteCurious, Background: "lighthouse-distant"},
			{ID: "lighthouse-coast", Title: "The Coast", Description: "Mobble reaches the shore. The air smells like salt.", Emote: EmoteCalm, Background: "lighthouse-shore"},
			{ID: "lighthouse-waves", Title: "Watching Waves", Description: "Mobble sits and watches the waves for a while.", Emote: EmoteCozy, Background: "lighthouse-waves"},
			{ID: "lighthouse-path", Title: "A Rocky Path", Description: "The path to the lighthouse is a bit tricky.", Emote: EmoteTired, Background: "lighthouse-rocks"},
			{ID: "lighthouse-closer", Title: "Getting Closer", Description: "The lighthouse grows bigger with each step.", Emote: EmoteHappy, Background: "lighthouse-approach"},
			{ID: "lighthouse-door", Title: "The Door", Description: "Mobble stands at the lighthouse entrance.", Emote: EmoteCurious, Background: "lighthouse-door"},
			{ID: "lighthouse-stairs", Title: "Climbing Up", Description: "So many stairs! But Mobble keeps going.", Emote: EmoteTired, Background: "lighthouse-stairs"},
			{ID: "lighthouse-window", Title: "A Window View", Description: "Mobble pauses to look out. Beautiful.", Emote: EmoteCalm, Background: "lighthouse-window"},
			{ID: "lighthouse-almost", Title: "Almost at the Top", Description: "Just a few more steps.", Emote: EmoteProud, Background: "lighthouse-near-top"},
			{ID: "lighthouse-top", Title: "The Top", Description: "Mobble made it. The view is incredible.", Emote: EmoteHappy, Background: "lighthouse-top"},
			{ID: "lighthouse-light", Title: "The Light", Description: "Mobble watches the light spin. It guides others home.", Emote: EmoteProud, Background: "lighthouse-light"},
			{ID: "lighthouse-complete", Title: "A Guiding Light", Description: "Mobble found their beacon. You helped light the way.", Emote: EmoteCozy, Background: "lighthouse-complete"},
		},
	},
}

var sidePaths = []SidePath{
	{
		ID:          "stargazing",
		Name:        "Stargazing Spot",
		Description: "A quiet detour to watch the night sky.",
		PointsCost:  50,
		Scenes: []Scene{
			{ID: "stars-climb", Title: "Night Climb", Description: "Mobble finds a hill as the sun sets.", Emote: EmoteCurious, Background: "stars-hill"},
			{ID: "stars-blanket", Title: "Settling In", Description: "Mobble lays out a cozy blanket.", Emote: EmoteCozy, Background: "stars-blanket"},
			{ID: "stars-watching", Title: "Infinite Wonder", Description: "So many stars. Mobble feels small, but in a good way.", Emote: EmoteCalm, Background: "stars-sky"},
		},
		Reward: &Reward{Type: "cosmetic", ID: "star-crown", Name: "Star Crown"},
	},
	{
		ID:          "rainy-day",
		Name:        "Rainy Day",
		Description: "Sometimes the best journeys happen in the rain.",
		PointsCost:  75,
		Scenes: []Scene{
			{ID: "rain-start", Title: "First Drops", Description: "Mobble feels a drop on their head.", Emote: EmoteCurious, Background: "rain-start"},
			{ID: "rain-puddles", Title: "Puddle Hopping", Description: "Mobble discovers the joy of splashing.", Emote: EmoteHappy, Background: "rain-puddles"},
			{ID: "rain-shelter", Title: "A Dry Spot", Description: "Mobble finds shelter and listens to the rain.", Emote: EmoteCozy, Background: "rain-shelter"},
			{ID: "rain-rainbow", Title: "After the Storm", Description: "A rainbow appears. Worth getting a little wet.", Emote: EmoteProud, Background: "rain-rainbow"},
		},
		Reward: &Reward{Type: "cosmetic", ID: "rain-boots", Name: "Rain Boots"},
	},
	{
		ID:          "cozy-cabin",
		Name:        "The Cozy Cabin",
		Description: "A warm cabin hidden in the woods.",
		PointsCost:  100,
		Scenes: []Scene{
			{ID: "cabin-find", Title: "Smoke in the Distance", Description: "Mobble spots chimney smoke through the trees.", Emote: EmoteCurious, Background: "cabin-smoke"},
			{ID: "cabin-approach", Title: "A Warm Welcome", Description: "The cabin looks inviting. Nobody's home, but the door is open.", Emote: EmoteCalm, Background: "cabin-door"},
			{ID: "cabin-fire", Title: "By the Fire", Description: "Mobble warms up by the crackling fireplace.", Emote: EmoteCozy, Background: "cabin-fire"},
			{ID: "cabin-cocoa", Title: "Hot Cocoa", Description: "Someone left cocoa on the stove. How thoughtful.", Emote: EmoteHappy, Background: "cabin-cocoa"},
			{ID: "cabin-rest", Title: "A Good Rest", Description: "Mobble takes a well-deserved nap. You've both earned it.", Emote: EmoteCozy, Background: "cabin-nap"},
		},
		Reward: &Reward{Type: "cosmetic", ID: "cozy-blanket", Name: "Cozy Blanket"},
	},
}

// Arcs returns the fixed arc sequence.
func Arcs() []Arc {
	out := make([]Arc, len(arcs))
	copy(out, arcs)
	return out
}

// ArcByID looks up an arc.
func ArcByID(id string) (Arc, bool) {
	for _, arc := range arcs {
		if arc.ID == id {
			return arc, true
		}
	}
	return Arc{}, false
}

// NextArc returns the arc after the given one, if any.
func NextArc(id string) (Arc, bool) {
	for i, arc := range arcs {
		if arc.ID == id && i < len(arcs)-1 {
			return arcs[i+1], true
		}
	}
	return Arc{}, false
}

// SidePaths returns the side path catalog.
func SidePaths() []SidePath {
	out := make([]SidePath, len(sidePaths))
	copy(out, sidePaths)
	return out
}

// SidePathByID looks up a side path.
func SidePathByID(id string) (SidePath, bool) {
	for _, sp := range sidePaths {
		if sp.ID == id {
			return sp, true
		}
	}
	return SidePath{}, false
}

// CalculateSceneIndex maps check-ins within an arc to a scene index.
// Check-ins spread evenly across scenes, capped at the final scene.
func CalculateSceneIndex(checkIns int, arc Arc) int {
	if checkIns == 0 || len(arc.Scenes) == 0 {
		return 0
	}
	stepsPerScene := float64(arc.TotalSteps) / float64(len(arc.Scenes))
	index := int(float64(checkIns) / stepsPerScene)
	if index > len(arc.Scenes)-1 {
		return len(arc.Scenes) - 1
	}
	return index
}
