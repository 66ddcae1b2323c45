package scoring

import (
	"testing"

	"github.com/jonathan/jd-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
)

func entryWithSkills(skills map[string]types.ItemMetrics) *types.RoleEntry {
	entry := types.NewRoleEntry()
	for name, m := range skills {
		entry.Skills[name] = m
	}
	return entry
}

func TestCalculateThresholds_EmptyTaxonomy(t *testing.T) {
	pair := CalculateThresholds(types.Taxonomy{})

	assert.Equal(t, 0.5, pair.Selection)
	assert.Equal(t, 0.3, pair.Rejection)
}

func TestCalculateThresholds_SingleItem(t *testing.T) {
	data := types.Taxonomy{
		"Engineer": entryWithSkills(map[string]types.ItemMetrics{
			"Python": {Importance: 50, SelectionScore: 80, RejectionScore: 20},
		}),
	}

	pair := CalculateThresholds(data)

	// 80 * 50/100 = 40, 20 * 50/100 = 10
	assert.Equal(t, 40.0, pair.Selection)
	assert.Equal(t, 10.0, pair.Rejection)
}

func TestCalculateThresholds_ZeroedItemsExcluded(t *testing.T) {
	data := types.Taxonomy{
		"Engineer": entryWithSkills(map[string]types.ItemMetrics{
			"Python":      {Importance: 50, SelectionScore: 80, RejectionScore: 20},
			"Placeholder": {},
			"OnlyRating":  {Rating: 9},
		}),
	}

	pair := CalculateThresholds(data)

	// Only Python counts; rating alone is not a score signal.
	assert.Equal(t, 40.0, pair.Selection)
	assert.Equal(t, 10.0, pair.Rejection)
}

func TestCalculateThresholds_MeanAcrossItems(t *testing.T) {
	data := types.Taxonomy{
		"Engineer": entryWithSkills(map[string]types.ItemMetrics{
			"A": {Importance: 100, SelectionScore: 60, RejectionScore: 40},
			"B": {Importance: 50, SelectionScore: 40, RejectionScore: 20},
		}),
	}

	pair := CalculateThresholds(data)

	// selection: (60 + 20) / 2 = 40, rejection: (40 + 10) / 2 = 25
	assert.InDelta(t, 40.0, pair.Selection, 1e-9)
	assert.InDelta(t, 25.0, pair.Rejection, 1e-9)
}

func TestCalculateThresholds_FlooredAtMinimum(t *testing.T) {
	data := types.Taxonomy{
		"Engineer": entryWithSkills(map[string]types.ItemMetrics{
			// Importance-only item: included in the sample, weighted scores 0.
			"Python": {Importance: 40},
		}),
	}

	pair := CalculateThresholds(data)

	assert.Equal(t, 0.1, pair.Selection)
	assert.Equal(t, 0.1, pair.Rejection)
}

func TestCalculateThresholds_SpansRolesAndCategories(t *testing.T) {
	engineer := types.NewRoleEntry()
	engineer.Skills["Go"] = types.ItemMetrics{Importance: 100, SelectionScore: 50, RejectionScore: 10}
	engineer.Achievements["Cert"] = types.ItemMetrics{Importance: 100, SelectionScore: 30, RejectionScore: 30}

	manager := types.NewRoleEntry()
	manager.Activities["Hiring"] = types.ItemMetrics{Importance: 100, SelectionScore: 10, RejectionScore: 50}

	pair := CalculateThresholds(types.Taxonomy{"Engineer": engineer, "Manager": manager})

	assert.InDelta(t, 30.0, pair.Selection, 1e-9)
	assert.InDelta(t, 30.0, pair.Rejection, 1e-9)
}
