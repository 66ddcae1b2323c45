// Package suggest produces bounded, randomly sampled edit suggestions for an
// extracted skill taxonomy, used to drive iterative refinement.
package suggest

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/jonathan/jd-analyzer/internal/types"
)

// Fallback is returned as the sole suggestion when no taxonomy has been
// extracted yet.
const Fallback = "Please upload and analyze a job description first."

// Caps for the proposed increments.
const (
	maxRating  = 10
	maxPercent = 100

	ratingStep     = 1
	importanceStep = 5
	scoreStep      = 10
)

// Generate builds four candidate suggestions per item (one per metric, each a
// bounded increment) and returns a uniform sample of min(count, pool) of them
// without replacement. The candidate pool is assembled deterministically
// (roles in first-seen order, categories in canonical order, items sorted by
// name) so a seeded rng yields reproducible output. A nil rng gets a
// time-seeded source.
func Generate(roles []string, data types.Taxonomy, count int, rng *rand.Rand) []string {
	if len(data) == 0 {
		return []string{Fallback}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	pool := candidates(roles, data)
	n := min(count, len(pool))
	if n <= 0 {
		return []string{}
	}

	sampled := make([]string, 0, n)
	for _, idx := range rng.Perm(len(pool))[:n] {
		sampled = append(sampled, pool[idx])
	}
	return sampled
}

// candidates returns the full suggestion pool in deterministic order.
func candidates(roles []string, data types.Taxonomy) []string {
	var pool []string

	for _, role := range roles {
		entry, ok := data[role]
		if !ok {
			continue
		}
		for _, category := range types.CategoryOrder {
			items := entry.Category(category)

			names := make([]string, 0, len(items))
			for name := range items {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				m := items[name]
				pool = append(pool,
					fmt.Sprintf("Update %s's rating from %.1f to %.1f",
						name, m.Rating, min(maxRating, m.Rating+ratingStep)),
					fmt.Sprintf("Change %s's importance from %.1f%% to %.1f%%",
						name, m.Importance, min(maxPercent, m.Importance+importanceStep)),
					fmt.Sprintf("Set %s's selection score from %.1f%% to %.1f%%",
						name, m.SelectionScore, min(maxPercent, m.SelectionScore+scoreStep)),
					fmt.Sprintf("Adjust %s's rejection score from %.1f%% to %.1f%%",
						name, m.RejectionScore, min(maxPercent, m.RejectionScore+scoreStep)),
				)
			}
		}
	}

	return pool
}
