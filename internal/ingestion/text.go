// Package ingestion normalizes raw job-description text before analysis.
// Upstream sources (document extraction, URL fetches, pasted text) produce
// inconsistent whitespace and line endings; the cleanup here keeps list
// structure intact so downstream line classification stays reliable.
package ingestion

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// CleanText normalizes line endings, trims trailing whitespace, collapses
// runs of spaces inside regular lines, and caps consecutive blank lines at
// two. Lines starting with a list marker keep their marker and indentation.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = cleanLine(line)
		if line == "" {
			blanks++
			if blanks > 2 {
				continue
			}
		} else {
			blanks = 0
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// cleanLine normalizes a single line while preserving list structure.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")

	// Keep bullet lines as-is apart from inner space collapsing; the leading
	// marker is what the parser classifies on.
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		marker := trimmed[:2]
		rest := multiSpace.ReplaceAllString(strings.TrimSpace(trimmed[2:]), " ")
		return marker + rest
	}

	return multiSpace.ReplaceAllString(trimmed, " ")
}
