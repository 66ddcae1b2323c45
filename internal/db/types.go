package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jd-analyzer/internal/types"
)

// AnalysisRecord is a persisted job-description analysis
type AnalysisRecord struct {
	ID               uuid.UUID            `json:"id"`
	JobURL           *string              `json:"job_url,omitempty"`
	Roles            []string             `json:"roles"`
	SkillsData       types.Taxonomy       `json:"skills_data"`
	RawResponse      string               `json:"raw_response"`
	Thresholds       types.ThresholdPair  `json:"thresholds"`
	SuggestedPrompts []string             `json:"suggested_prompts"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// AnalysisCreateInput carries the fields needed to persist a new analysis
type AnalysisCreateInput struct {
	JobURL   *string
	Analysis *types.Analysis
}

// ListAnalysesOptions contains pagination parameters for listing analyses
type ListAnalysesOptions struct {
	Limit  int
	Offset int
}

// Analysis converts a stored record back into its in-memory form
func (r *AnalysisRecord) Analysis() *types.Analysis {
	return &types.Analysis{
		Roles:            r.Roles,
		SkillsData:       r.SkillsData,
		RawResponse:      r.RawResponse,
		Thresholds:       r.Thresholds,
		SuggestedPrompts: r.SuggestedPrompts,
	}
}
