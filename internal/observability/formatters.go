// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/jd-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs a human-readable summary of an analysis: roles, the
// top items per role by importance, and the derived thresholds.
func (p *Printer) PrintAnalysis(a *types.Analysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Roles found: %d\n", len(a.Roles)))

	for _, role := range a.Roles {
		entry := a.SkillsData[role]
		if entry == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s (%d items)\n", role, entry.ItemCount()))

		items := topItemsByImportance(entry, maxItemsToShow)
		for _, item := range items {
			sb.WriteString(fmt.Sprintf("  • %s  %.0f%% imp, %.1f/10\n",
				item.name, item.metrics.Importance, item.metrics.Rating))
		}
		if entry.ItemCount() > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", entry.ItemCount()-maxItemsToShow))
		}
	}

	sb.WriteString(fmt.Sprintf("\nSelection threshold: %.2f%%\n", a.Thresholds.Selection))
	sb.WriteString(fmt.Sprintf("Rejection threshold: %.2f%%", a.Thresholds.Rejection))

	p.printBox("JOB DESCRIPTION ANALYSIS", sb.String())
}

// PrintSuggestions outputs the sampled edit suggestions.
func (p *Printer) PrintSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}

	var sb strings.Builder
	for i, s := range suggestions {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, s))
		if i < len(suggestions)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SUGGESTED REFINEMENTS", sb.String())
}

// PrintThresholds outputs just the threshold pair.
func (p *Printer) PrintThresholds(t types.ThresholdPair) {
	content := fmt.Sprintf("Selection: %.2f%%\nRejection: %.2f%%", t.Selection, t.Rejection)
	p.printBox("THRESHOLD SCORES", content)
}

type namedItem struct {
	name    string
	metrics types.ItemMetrics
}

// topItemsByImportance flattens a role entry and returns the n most
// important items, ties broken by name for stable output.
func topItemsByImportance(entry *types.RoleEntry, n int) []namedItem {
	var items []namedItem
	for _, category := range types.CategoryOrder {
		for name, metrics := range entry.Category(category) {
			items = append(items, namedItem{name: name, metrics: metrics})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].metrics.Importance != items[j].metrics.Importance {
			return items[i].metrics.Importance > items[j].metrics.Importance
		}
		return items[i].name < items[j].name
	})

	if len(items) > n {
		items = items[:n]
	}
	return items
}
