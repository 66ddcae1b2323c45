package types

import "github.com/go-playground/validator/v10"

// AnalyzeRequest represents the request to analyze a job description.
// Exactly one of Text or JobURL must be provided; the handler enforces the
// mutual exclusion, the validator enforces the rest.
type AnalyzeRequest struct {
	Text   string `json:"text,omitempty"`
	JobURL string `json:"job_url,omitempty" validate:"omitempty,url"`
}

// RefineRequest represents a free-form refinement instruction against an
// existing analysis session.
type RefineRequest struct {
	Instruction string `json:"instruction" validate:"required,min=1"`
}

// DashboardRequest represents the request to split analyzed roles into
// chart-ready dashboard payloads.
type DashboardRequest struct {
	Roles              []string `json:"roles" validate:"required,min=1"`
	SkillsData         Taxonomy `json:"skills_data" validate:"required"`
	NumberOfDashboards int      `json:"number_of_dashboards" validate:"omitempty,min=1,max=20"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the RefineRequest using the validator.
func (r *RefineRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the DashboardRequest using the validator.
func (r *DashboardRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
