// Package scoring derives selection/rejection decision thresholds from a
// parsed skill taxonomy.
package scoring

import "github.com/jonathan/jd-analyzer/internal/types"

const (
	// thresholdFloor prevents degenerate zero thresholds.
	thresholdFloor = 0.1

	// Fallback pair returned when no item carries any score signal.
	defaultSelectionThreshold = 0.5
	defaultRejectionThreshold = 0.3
)

// CalculateThresholds aggregates every item across every role and category
// into a single threshold pair. An item joins the sample only when at least
// one of importance, selection score, or rejection score is non-zero, so
// placeholder items do not drag the means toward zero. Each included item
// contributes its score weighted by importance/100; the thresholds are the
// arithmetic means of those weighted scores, floored at 0.1.
func CalculateThresholds(data types.Taxonomy) types.ThresholdPair {
	var selectionSum, rejectionSum float64
	count := 0

	for _, entry := range data {
		for _, category := range types.CategoryOrder {
			for _, m := range entry.Category(category) {
				if m.Importance == 0 && m.SelectionScore == 0 && m.RejectionScore == 0 {
					continue
				}
				selectionSum += m.SelectionScore * m.Importance / 100
				rejectionSum += m.RejectionScore * m.Importance / 100
				count++
			}
		}
	}

	if count == 0 {
		return types.ThresholdPair{
			Selection: defaultSelectionThreshold,
			Rejection: defaultRejectionThreshold,
		}
	}

	return types.ThresholdPair{
		Selection: max(thresholdFloor, selectionSum/float64(count)),
		Rejection: max(thresholdFloor, rejectionSum/float64(count)),
	}
}
