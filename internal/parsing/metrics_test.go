package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetrics_AllFourFields(t *testing.T) {
	m, err := parseMetrics(" Importance: 60% Selection Score: 70% Rejection Score: 10% Rating: 8/10")
	require.NoError(t, err)

	assert.Equal(t, 60.0, m.Importance)
	assert.Equal(t, 70.0, m.SelectionScore)
	assert.Equal(t, 10.0, m.RejectionScore)
	assert.Equal(t, 8.0, m.Rating)
}

func TestParseMetrics_DecimalValues(t *testing.T) {
	m, err := parseMetrics(" Importance: 33.3% Selection Score: 12.5% Rejection Score: 4.2% Rating: 7.5/10")
	require.NoError(t, err)

	assert.Equal(t, 33.3, m.Importance)
	assert.Equal(t, 12.5, m.SelectionScore)
	assert.Equal(t, 4.2, m.RejectionScore)
	assert.Equal(t, 7.5, m.Rating)
}

func TestParseMetrics_EmptyText(t *testing.T) {
	m, err := parseMetrics("")
	require.NoError(t, err)
	assert.Zero(t, m.Importance)
	assert.Zero(t, m.SelectionScore)
	assert.Zero(t, m.RejectionScore)
	assert.Zero(t, m.Rating)
}

func TestParseMetrics_UnmatchedFragmentsIgnored(t *testing.T) {
	m, err := parseMetrics(" Importance: 40% (very high priority) Rating: 6/10")
	require.NoError(t, err)
	assert.Equal(t, 40.0, m.Importance)
	assert.Equal(t, 6.0, m.Rating)
}

func TestParseMetrics_ValuesAbove100Accepted(t *testing.T) {
	// No upper clamping; the prompt contract owns sane ranges.
	m, err := parseMetrics(" Importance: 150% Selection Score: 200%")
	require.NoError(t, err)
	assert.Equal(t, 150.0, m.Importance)
	assert.Equal(t, 200.0, m.SelectionScore)
}

func TestParseMetrics_MalformedNumberFails(t *testing.T) {
	_, err := parseMetrics(" Importance: high% Selection Score: 70%")
	assert.Error(t, err)
}

func TestParseMetrics_LabelWithoutColonFails(t *testing.T) {
	// "Importance 40" matches the label but has no "Importance:" token, so
	// the whole fragment is fed to the number parser and fails.
	_, err := parseMetrics(" Importance 40%")
	assert.Error(t, err)
}

func TestParseMetrics_RatingWithoutMaxSuffix(t *testing.T) {
	m, err := parseMetrics(" Rating: 9")
	require.NoError(t, err)
	assert.Equal(t, 9.0, m.Rating)
}

func TestParseMetricValue_RejectsNonFinite(t *testing.T) {
	for _, s := range []string{"NaN", "Inf", "+Inf", "-Inf"} {
		_, err := parseMetricValue(s)
		assert.Error(t, err, "value %q must be rejected", s)
	}
}
