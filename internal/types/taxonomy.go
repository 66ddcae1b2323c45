// Package types provides type definitions for structured data used throughout the jd-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Category names within a RoleEntry. Every role carries all three, even when empty.
const (
	CategorySkills       = "skills"
	CategoryAchievements = "achievements"
	CategoryActivities   = "activities"
)

// CategoryOrder is the canonical iteration order for categories.
// Map iteration order is not stable, so anything that needs deterministic
// output (suggestions, rendering, dashboards) walks categories in this order.
var CategoryOrder = []string{CategorySkills, CategoryAchievements, CategoryActivities}

// ItemMetrics holds the four weighted metrics attached to a single skill,
// achievement, or activity. All fields default to zero; a missing or
// unparsable metric never invalidates the others.
type ItemMetrics struct {
	Importance     float64 `json:"importance"`
	SelectionScore float64 `json:"selection_score"`
	RejectionScore float64 `json:"rejection_score"`
	Rating         float64 `json:"rating"`
}

// RoleEntry groups the extracted items for one role into the three fixed
// categories. Each category maps item name to its metrics.
type RoleEntry struct {
	Skills       map[string]ItemMetrics `json:"skills"`
	Achievements map[string]ItemMetrics `json:"achievements"`
	Activities   map[string]ItemMetrics `json:"activities"`
}

// NewRoleEntry returns a RoleEntry with all three categories initialized,
// so an empty category serializes as {} rather than null.
func NewRoleEntry() *RoleEntry {
	return &RoleEntry{
		Skills:       make(map[string]ItemMetrics),
		Achievements: make(map[string]ItemMetrics),
		Activities:   make(map[string]ItemMetrics),
	}
}

// Category returns the item map for the given category name, or nil if the
// name is not one of the three known categories.
func (r *RoleEntry) Category(name string) map[string]ItemMetrics {
	switch name {
	case CategorySkills:
		return r.Skills
	case CategoryAchievements:
		return r.Achievements
	case CategoryActivities:
		return r.Activities
	default:
		return nil
	}
}

// ItemCount returns the total number of items across all categories.
func (r *RoleEntry) ItemCount() int {
	return len(r.Skills) + len(r.Achievements) + len(r.Activities)
}

// Taxonomy maps role name to its extracted entry. Role names are matched
// exactly; differently cased or spaced variants are distinct roles.
type Taxonomy map[string]*RoleEntry

// ItemCount returns the total number of items across all roles.
func (t Taxonomy) ItemCount() int {
	total := 0
	for _, entry := range t {
		total += entry.ItemCount()
	}
	return total
}

// ThresholdPair holds the two decision cutoffs derived from a taxonomy.
// Both values are floored at 0.1 so downstream comparisons never see a
// degenerate zero threshold.
type ThresholdPair struct {
	Selection float64 `json:"selection_threshold"`
	Rejection float64 `json:"rejection_threshold"`
}

// Analysis is the complete result of one extraction pass: the parsed
// taxonomy, role names in first-seen order, the raw model response, derived
// thresholds, and a sampled set of edit suggestions.
type Analysis struct {
	Roles            []string      `json:"roles"`
	SkillsData       Taxonomy      `json:"skills_data"`
	RawResponse      string        `json:"raw_response"`
	Thresholds       ThresholdPair `json:"thresholds"`
	SuggestedPrompts []string      `json:"suggested_prompts"`
}
