package analysis

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/jd-analyzer/internal/llm"
	"github.com/jonathan/jd-analyzer/internal/parsing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const engineerResponse = `Role: Engineer
Skills:
- Python: Importance: 50% Selection Score: 80% Rejection Score: 20% Rating: 8/10
`

// mockClient implements llm.Client for testing
type mockClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	delay     time.Duration
	requests  []llm.Request
}

func (m *mockClient) Generate(_ context.Context, req llm.Request, _ llm.ModelTier) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return "", m.err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp, nil
}

func (m *mockClient) GetModel(_ llm.ModelTier) string { return "mock-model" }
func (m *mockClient) Close() error                    { return nil }

func TestAnalyze_EndToEnd(t *testing.T) {
	client := &mockClient{responses: []string{engineerResponse}}
	session := NewSession(client, WithRand(rand.New(rand.NewSource(1))))

	analysis, err := session.Analyze(context.Background(), "We are hiring an engineer.")
	require.NoError(t, err)

	require.Equal(t, []string{"Engineer"}, analysis.Roles)
	m := analysis.SkillsData["Engineer"].Skills["Python"]
	assert.Equal(t, 50.0, m.Importance)
	assert.Equal(t, 8.0, m.Rating)

	// 80 * 50/100 = 40, 20 * 50/100 = 10
	assert.Equal(t, 40.0, analysis.Thresholds.Selection)
	assert.Equal(t, 10.0, analysis.Thresholds.Rejection)

	// One item yields four candidate suggestions, all sampled.
	assert.Len(t, analysis.SuggestedPrompts, 4)
	assert.Equal(t, engineerResponse, analysis.RawResponse)
}

func TestAnalyze_EmbedsJobTextInPrompt(t *testing.T) {
	client := &mockClient{responses: []string{engineerResponse}}
	session := NewSession(client)

	_, err := session.Analyze(context.Background(), "the job text")
	require.NoError(t, err)

	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].Prompt(), "the job text")
	assert.NotContains(t, client.requests[0].Prompt(), "{{.Context}}")
}

func TestAnalyze_GenerationFailure(t *testing.T) {
	client := &mockClient{err: errors.New("quota exceeded")}
	session := NewSession(client)

	_, err := session.Analyze(context.Background(), "text")
	require.Error(t, err)

	var apiErr *parsing.APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Error(), "quota exceeded")
	assert.Nil(t, session.Current())
}

func TestAnalyze_ZeroRolesIsValidEmptyResult(t *testing.T) {
	client := &mockClient{responses: []string{"The model rambled without structure."}}
	session := NewSession(client)

	analysis, err := session.Analyze(context.Background(), "text")
	require.NoError(t, err)

	assert.Empty(t, analysis.Roles)
	assert.Equal(t, 0.5, analysis.Thresholds.Selection)
	assert.Equal(t, 0.3, analysis.Thresholds.Rejection)
	assert.Equal(t, []string{"Please upload and analyze a job description first."}, analysis.SuggestedPrompts)
}

func TestRefine_ReplacesStateWholesale(t *testing.T) {
	refined := `Role: Engineer
Skills:
- Python: Importance: 50% Selection Score: 90% Rejection Score: 20% Rating: 9/10
`
	client := &mockClient{responses: []string{engineerResponse, refined}}
	session := NewSession(client, WithRand(rand.New(rand.NewSource(1))))

	_, err := session.Analyze(context.Background(), "text")
	require.NoError(t, err)

	analysis, err := session.Refine(context.Background(), "Raise Python's rating to 9")
	require.NoError(t, err)

	assert.Equal(t, 9.0, analysis.SkillsData["Engineer"].Skills["Python"].Rating)
	assert.Equal(t, 9.0, session.Current().SkillsData["Engineer"].Skills["Python"].Rating)
}

func TestRefine_PromptCarriesCurrentTaxonomyAndInstruction(t *testing.T) {
	client := &mockClient{responses: []string{engineerResponse}}
	session := NewSession(client)

	_, err := session.Analyze(context.Background(), "text")
	require.NoError(t, err)

	_, err = session.Refine(context.Background(), "Raise Python's importance")
	require.NoError(t, err)

	require.Len(t, client.requests, 2)
	prompt := client.requests[1].Prompt()
	assert.Contains(t, prompt, "Role: Engineer")
	assert.Contains(t, prompt, "- Python: Importance: 50.0%")
	assert.Contains(t, prompt, "Instruction: Raise Python's importance")
}

func TestRefine_ZeroRolesKeepsPriorState(t *testing.T) {
	client := &mockClient{responses: []string{engineerResponse, "Sorry, I cannot help with that."}}
	session := NewSession(client)

	_, err := session.Analyze(context.Background(), "text")
	require.NoError(t, err)

	_, err = session.Refine(context.Background(), "Do something")
	require.Error(t, err)

	var zeroErr *parsing.ZeroRolesError
	require.ErrorAs(t, err, &zeroErr)

	current := session.Current()
	require.NotNil(t, current)
	assert.Equal(t, []string{"Engineer"}, current.Roles)
	assert.Equal(t, 8.0, current.SkillsData["Engineer"].Skills["Python"].Rating)
}

func TestRefine_GenerationFailureKeepsPriorState(t *testing.T) {
	client := &mockClient{responses: []string{engineerResponse}}
	session := NewSession(client)

	_, err := session.Analyze(context.Background(), "text")
	require.NoError(t, err)

	client.err = errors.New("deadline exceeded")
	_, err = session.Refine(context.Background(), "Do something")

	var apiErr *parsing.APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{"Engineer"}, session.Current().Roles)
}

func TestRefine_WithoutAnalysis(t *testing.T) {
	session := NewSession(&mockClient{responses: []string{engineerResponse}})

	_, err := session.Refine(context.Background(), "Do something")
	assert.ErrorIs(t, err, ErrNoAnalysis)
}

func TestRefine_BusySession(t *testing.T) {
	client := &mockClient{
		responses: []string{engineerResponse, engineerResponse},
		delay:     100 * time.Millisecond,
	}
	session := NewSession(client)

	_, err := session.Analyze(context.Background(), "text")
	require.NoError(t, err)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, refineErr := session.Refine(context.Background(), "slow refinement")
		done <- refineErr
	}()

	<-started
	time.Sleep(20 * time.Millisecond) // let the first refinement take the lock

	_, err = session.Refine(context.Background(), "second refinement")
	assert.ErrorIs(t, err, ErrRefinementBusy)

	require.NoError(t, <-done)
}

func TestCurrent_NilBeforeAnalysis(t *testing.T) {
	session := NewSession(&mockClient{})
	assert.Nil(t, session.Current())
}

func TestAnalyze_MultilineResponsePreserved(t *testing.T) {
	raw := strings.Join([]string{
		"Role: Backend Engineer",
		"Skills:",
		"- Go: Importance: 60% Selection Score: 70% Rejection Score: 10% Rating: 9/10",
		"",
		"Role: Frontend Engineer",
		"Skills:",
		"- React: Importance: 40% Selection Score: 50% Rejection Score: 30% Rating: 7/10",
		"",
	}, "\n")
	client := &mockClient{responses: []string{raw}}
	session := NewSession(client)

	analysis, err := session.Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []string{"Backend Engineer", "Frontend Engineer"}, analysis.Roles)
}
