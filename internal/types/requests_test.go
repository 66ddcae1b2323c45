package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     AnalyzeRequest
		wantErr bool
	}{
		{"text only", AnalyzeRequest{Text: "We are hiring."}, false},
		{"valid url", AnalyzeRequest{JobURL: "https://example.com/job"}, false},
		{"malformed url", AnalyzeRequest{JobURL: "not-a-url"}, true},
		{"empty is structurally valid", AnalyzeRequest{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRefineRequestValidate(t *testing.T) {
	assert.Error(t, (&RefineRequest{}).Validate())
	assert.NoError(t, (&RefineRequest{Instruction: "Raise Python to 80%"}).Validate())
}

func TestDashboardRequestValidate(t *testing.T) {
	valid := &DashboardRequest{
		Roles:      []string{"Engineer"},
		SkillsData: Taxonomy{"Engineer": NewRoleEntry()},
	}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&DashboardRequest{SkillsData: Taxonomy{}}).Validate())

	tooMany := &DashboardRequest{
		Roles:              []string{"Engineer"},
		SkillsData:         Taxonomy{},
		NumberOfDashboards: 50,
	}
	assert.Error(t, tooMany.Validate())
}
