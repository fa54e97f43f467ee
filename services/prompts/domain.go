// Package prompts implements the contextual nudge engine: a static
// prompt catalog filtered by user context, daily dismissals and
// permanent feature discovery, limited to one prompt per session.
package prompts

// Condition selects the context predicate gating a prompt.
type Condition string

const (
	ConditionMissingProfile       Condition = "missing-profile"
	ConditionMissingActivityLevel Condition = "missing-activity-level"
	ConditionNoNoteToday          Condition = "no-note-today"
	ConditionNotStartedJourney    Condition = "not-started-journey"
	ConditionNoInsightsVisit      Condition = "no-insights-visit"
)

// Definition is a catalog prompt. Priority 1 shows first; priority 3
// is feature discovery and never reappears once acted on.
type Definition struct {
	ID          string    `json:"id"`
	Priority    int       `json:"priority"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	ActionLabel string    `json:"action_label"`
	ActionPath  string    `json:"action_path,omitempty"`
	Condition   Condition `json:"condition"`
}

// Context is the snapshot of user state prompts are evaluated against.
type Context struct {
	IsProfileComplete  bool `json:"is_profile_complete"`
	HasActivityLevel   bool `json:"has_activity_level"`
	TodayEntryHasNote  bool `json:"today_entry_has_note"`
	HasStartedJourney  bool `json:"has_started_journey"`
	HasVisitedInsights bool `json:"has_visited_insights"`
}

// DismissedToday is the set of prompts dismissed on a given day.
// A new day starts with an empty set.
type DismissedToday struct {
	Date      string   `json:"date"`
	PromptIDs []string `json:"prompt_ids"`
}

// State is a user's prompt bookkeeping. DiscoveredFeatures is
// permanent; ShownThisSession resets on login.
type State struct {
	DismissedToday     DismissedToday `json:"dismissed_today"`
	ShownThisSession   bool           `json:"shown_this_session"`
	DiscoveredFeatures []string       `json:"discovered_features"`
}

// DefaultState returns empty bookkeeping dated today.
func DefaultState(today string) State {
	return State{
		DismissedToday:     DismissedToday{Date: today, PromptIDs: []string{}},
		DiscoveredFeatures: []string{},
	}
}

const insightsPromptID = "discover-insights"

var definitions = []Definition{
	{
		ID:          "complete-profile",
		Priority:    1,
		Title:       "Complete Your Profile",
		Message:     "Add your details to get personalized insights about your activity.",
		ActionLabel: "Set Up Profile",
		ActionPath:  "/setup",
		Condition:   ConditionMissingProfile,
	},
	{
		ID:          "set-activity-level",
		Priority:    1,
		Title:       "Set Your Activity Level",
		Message:     "Help us understand your lifestyle for better insights.",
		ActionLabel: "Update Profile",
		ActionPath:  "/settings",
		Condition:   ConditionMissingActivityLevel,
	},
	{
		ID:          "add-notes",
		Priority:    2,
		Title:       "Add a Note Next Time",
		Message:     "Notes help track what activities you did and how you felt.",
		ActionLabel: "Got It",
		Condition:   ConditionNoNoteToday,
	},
	{
		ID:          "discover-story",
		Priority:    3,
		Title:       "Discover Mobble's Journey",
		Message:     "Follow along as Mobble grows with each check-in you make.",
		ActionLabel: "Explore",
		ActionPath:  "/story",
		Condition:   ConditionNotStartedJourney,
	},
	{
		ID:          "discover-insights",
		Priority:    3,
		Title:       "Check Your Insights",
		Message:     "See patterns in your movement and how you feel over time.",
		ActionLabel: "View Insights",
		ActionPath:  "/insights",
		Condition:   ConditionNoInsightsVisit,
	},
}

// Definitions returns the prompt catalog.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// DefinitionByID looks up a catalog prompt.
func DefinitionByID(id string) (Definition, bool) {
	for _, def := range definitions {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// eligible evaluates a prompt's condition against the context snapshot.
func (d Definition) eligible(ctx Context) bool {
	switch d.Condition {
	case ConditionMissingProfile:
		return !ctx.IsProfileComplete
	case ConditionMissingActivityLevel:
		return ctx.IsProfileComplete && !ctx.HasActivityLevel
	case ConditionNoNoteToday:
		return !ctx.TodayEntryHasNote
	case ConditionNotStartedJourney:
		return !ctx.HasStartedJourney
	case ConditionNoInsightsVisit:
		return !ctx.HasVisitedInsights
	default:
		return false
	}
}
