package parsing

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/jd-analyzer/internal/types"
)

// Metric labels expected inside an item line's metrics text.
const (
	labelImportance     = "Importance"
	labelSelectionScore = "Selection Score"
	labelRejectionScore = "Rejection Score"
	labelRating         = "Rating"
)

// parseMetrics extracts the four metric fields from the text following an
// item name. The text is split on '%' into fragments; each fragment is
// matched against one label at most, in fixed precedence order. Unmatched
// fragments are ignored. A fragment that names a label but carries a
// malformed number fails the whole line.
func parseMetrics(metricsText string) (types.ItemMetrics, error) {
	var m types.ItemMetrics

	for _, fragment := range strings.Split(metricsText, "%") {
		fragment = strings.TrimSpace(fragment)

		switch {
		case strings.Contains(fragment, labelImportance):
			v, err := parseMetricValue(valueAfter(fragment, labelImportance+":"))
			if err != nil {
				return types.ItemMetrics{}, err
			}
			m.Importance = v
		case strings.Contains(fragment, labelSelectionScore):
			v, err := parseMetricValue(valueAfter(fragment, labelSelectionScore+":"))
			if err != nil {
				return types.ItemMetrics{}, err
			}
			m.SelectionScore = v
		case strings.Contains(fragment, labelRejectionScore):
			v, err := parseMetricValue(valueAfter(fragment, labelRejectionScore+":"))
			if err != nil {
				return types.ItemMetrics{}, err
			}
			m.RejectionScore = v
		case strings.Contains(fragment, labelRating):
			value := valueAfter(fragment, labelRating+":")
			// Ratings arrive as "8/10"; keep the numerator, whatever the max.
			if idx := strings.Index(value, "/"); idx >= 0 {
				value = value[:idx]
			}
			v, err := parseMetricValue(value)
			if err != nil {
				return types.ItemMetrics{}, err
			}
			m.Rating = v
		}
	}

	return m, nil
}

// valueAfter returns the trimmed text after the last occurrence of label,
// or the whole fragment when the label (with colon) is absent. In the latter
// case the numeric parse fails and the item line is dropped, matching the
// per-line isolation contract.
func valueAfter(fragment, label string) string {
	if idx := strings.LastIndex(fragment, label); idx >= 0 {
		return strings.TrimSpace(fragment[idx+len(label):])
	}
	return strings.TrimSpace(fragment)
}

// parseMetricValue parses a float and rejects non-finite values, so NaN and
// Inf never enter the taxonomy.
func parseMetricValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
