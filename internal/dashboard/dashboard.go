// Package dashboard turns analyzed roles into chart-ready payloads for the
// hiring dashboard, optionally splitting large item sets across several
// dashboards.
package dashboard

import (
	"fmt"
	"sort"

	"github.com/jonathan/jd-analyzer/internal/types"
)

// Payload is one dashboard's worth of data: plain nested primitives, safe to
// serialize as-is for the frontend.
type Payload struct {
	Title       string                       `json:"title"`
	Description string                       `json:"description"`
	Role        string                       `json:"role"`
	Category    string                       `json:"category"`
	Data        map[string]types.ItemMetrics `json:"data"`
}

// Build creates dashboard payloads for every requested role found in the
// taxonomy, along with the threshold pair for the whole taxonomy. Roles
// absent from the taxonomy are skipped, not errors. Items are distributed
// across NumberOfDashboards splits in sorted-name order so repeated calls
// produce identical layouts.
func Build(req types.DashboardRequest) []Payload {
	splits := req.NumberOfDashboards
	if splits < 1 {
		splits = 1
	}

	var payloads []Payload
	for _, role := range req.Roles {
		entry, ok := req.SkillsData[role]
		if !ok {
			continue
		}
		payloads = append(payloads, buildForRole(role, entry, splits)...)
	}
	return payloads
}

// buildForRole splits one role's skills into n payloads.
func buildForRole(role string, entry *types.RoleEntry, n int) []Payload {
	items := entry.Skills

	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	if n == 1 || len(names) <= 1 {
		return []Payload{{
			Title:       fmt.Sprintf("%s Dashboard", role),
			Description: fmt.Sprintf("Complete analysis for %s", role),
			Role:        role,
			Category:    types.CategorySkills,
			Data:        copyItems(names, items),
		}}
	}

	if n > len(names) {
		n = len(names)
	}

	payloads := make([]Payload, 0, n)
	chunk := (len(names) + n - 1) / n
	for i := 0; i < n; i++ {
		start := i * chunk
		end := min(start+chunk, len(names))
		if start >= end {
			break
		}
		payloads = append(payloads, Payload{
			Title:       fmt.Sprintf("%s Dashboard (%d of %d)", role, i+1, n),
			Description: fmt.Sprintf("Analysis split %d for %s", i+1, role),
			Role:        role,
			Category:    types.CategorySkills,
			Data:        copyItems(names[start:end], items),
		})
	}
	return payloads
}

// copyItems extracts the named items into a fresh map.
func copyItems(names []string, items map[string]types.ItemMetrics) map[string]types.ItemMetrics {
	out := make(map[string]types.ItemMetrics, len(names))
	for _, name := range names {
		out[name] = items[name]
	}
	return out
}
