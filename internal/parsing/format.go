package parsing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/jd-analyzer/internal/types"
)

// categoryTitles maps category names back to their section headers.
var categoryTitles = map[string]string{
	types.CategorySkills:       "Skills:",
	types.CategoryAchievements: "Achievements/Certifications:",
	types.CategoryActivities:   "Skilled Activities:",
}

// FormatTaxonomy renders a taxonomy back into the canonical response text
// format, the inverse of Parse. The refinement prompt embeds this rendering
// so the model sees (and preserves) the exact structure it must return.
// Items are sorted by name for stable output.
func FormatTaxonomy(roles []string, data types.Taxonomy) string {
	var sb strings.Builder

	for _, role := range roles {
		entry, ok := data[role]
		if !ok {
			continue
		}

		fmt.Fprintf(&sb, "%s %s\n", RoleHeaderToken, role)
		for _, category := range types.CategoryOrder {
			sb.WriteString(categoryTitles[category])
			sb.WriteString("\n")

			items := entry.Category(category)
			for _, name := range sortedItemNames(items) {
				m := items[name]
				fmt.Fprintf(&sb,
					"- %s: Importance: %.1f%% Selection Score: %.1f%% Rejection Score: %.1f%% Rating: %.1f/10\n",
					name, m.Importance, m.SelectionScore, m.RejectionScore, m.Rating)
			}
			sb.WriteString("\n")
		}
	}

	if sb.Len() == 0 {
		return ""
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// sortedItemNames returns item names in lexical order.
func sortedItemNames(items map[string]types.ItemMetrics) []string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
