// Package parsing converts the semi-structured skill-matrix text returned by
// the model into a validated Role -> Category -> Item -> Metrics taxonomy.
package parsing

import (
	"strings"

	"github.com/jonathan/jd-analyzer/internal/types"
)

// RoleHeaderToken introduces a role block in the model response.
const RoleHeaderToken = "Role:"

// categoryHeaders maps the fixed section headers to category names.
// Detection is substring-based because models decorate headers with markdown.
// Order matters: "Skilled Activities:" must not be mistaken for "Skills:".
var categoryHeaders = []struct {
	header   string
	category string
}{
	{"Skills:", types.CategorySkills},
	{"Achievements/Certifications:", types.CategoryAchievements},
	{"Skilled Activities:", types.CategoryActivities},
}

// ParseResult holds everything a caller may need from one parse pass:
// the taxonomy, role names in first-seen order, and the original raw text.
type ParseResult struct {
	Roles      []string
	SkillsData types.Taxonomy
	Raw        string
}

// state tracks the line-classification state machine.
type state int

const (
	// stateSeekingRole skips preamble before the first role header.
	stateSeekingRole state = iota
	// stateSeekingRoleName follows a bare "Role:" header whose name is on the next line.
	stateSeekingRoleName
	// stateSeekingCategory skips lines between a role name and its first category header.
	stateSeekingCategory
	// stateInItemList accepts "- item: metrics" lines for the current category.
	stateInItemList
)

// lineKind classifies a single trimmed line.
type lineKind int

const (
	lineOther lineKind = iota
	lineRoleHeader
	lineCategoryHeader
	lineItem
)

// Parse extracts a taxonomy from raw model output. It never fails: malformed
// item lines are dropped individually, stray prose and unknown headers are
// skipped, and input with no role headers yields an empty result.
func Parse(raw string) *ParseResult {
	res := &ParseResult{
		Roles:      []string{},
		SkillsData: make(types.Taxonomy),
		Raw:        raw,
	}

	st := stateSeekingRole
	var current *types.RoleEntry
	var category map[string]types.ItemMetrics

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		kind, payload := classifyLine(trimmed)

		// A role header always starts a new block, regardless of state.
		if kind == lineRoleHeader {
			if payload == "" {
				st = stateSeekingRoleName
				current = nil
				category = nil
				continue
			}
			current = res.startRole(payload)
			category = nil
			st = stateSeekingCategory
			continue
		}

		// The first non-blank line after a bare "Role:" is the role name.
		if st == stateSeekingRoleName {
			if trimmed == "" {
				continue
			}
			current = res.startRole(trimmed)
			category = nil
			st = stateSeekingCategory
			continue
		}

		switch kind {
		case lineCategoryHeader:
			if current != nil {
				category = current.Category(payload)
				st = stateInItemList
			}
		case lineItem:
			if st != stateInItemList || category == nil {
				continue
			}
			name, metrics, ok := parseItemLine(payload)
			if !ok {
				// One malformed line never aborts the role or the parse.
				continue
			}
			category[name] = metrics
		}
	}

	return res
}

// startRole records a role in first-seen order and returns a fresh entry.
// A repeated role header resets that role's entry; names are matched exactly.
func (r *ParseResult) startRole(name string) *types.RoleEntry {
	if _, seen := r.SkillsData[name]; !seen {
		r.Roles = append(r.Roles, name)
	}
	entry := types.NewRoleEntry()
	r.SkillsData[name] = entry
	return entry
}

// classifyLine identifies a trimmed line and extracts its payload: the
// remainder after "Role:" for role headers, the category name for category
// headers, or the line itself for item lines.
func classifyLine(trimmed string) (lineKind, string) {
	if idx := strings.Index(trimmed, RoleHeaderToken); idx >= 0 {
		return lineRoleHeader, strings.TrimSpace(trimmed[idx+len(RoleHeaderToken):])
	}
	for _, ch := range categoryHeaders {
		if strings.Contains(trimmed, ch.header) {
			return lineCategoryHeader, ch.category
		}
	}
	if strings.HasPrefix(trimmed, "-") {
		return lineItem, trimmed
	}
	return lineOther, ""
}

// parseItemLine splits "- <name>: <metrics>" into an item name and parsed
// metrics. An item without a colon yields zeroed metrics. A malformed numeric
// token anywhere in the metrics text rejects the whole line (ok=false).
func parseItemLine(line string) (string, types.ItemMetrics, bool) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "-"))

	name := body
	metricsText := ""
	if idx := strings.Index(body, ":"); idx >= 0 {
		name = strings.TrimSpace(body[:idx])
		metricsText = body[idx+1:]
	}
	if name == "" {
		return "", types.ItemMetrics{}, false
	}

	metrics, err := parseMetrics(metricsText)
	if err != nil {
		return "", types.ItemMetrics{}, false
	}
	return name, metrics, true
}
