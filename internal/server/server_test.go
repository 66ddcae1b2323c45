package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-analyzer/internal/llm"
)

// mockClient implements llm.Client with canned responses
type mockClient struct {
	response string
	err      error
	requests []llm.Request
}

func (m *mockClient) Generate(_ context.Context, req llm.Request, _ llm.ModelTier) (string, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockClient) GetModel(llm.ModelTier) string { return "mock-model" }
func (m *mockClient) Close() error                  { return nil }

const extractionResponse = `Role: Software Engineer
Skills:
- Python: Importance: 50% Selection Score: 80% Rejection Score: 20% Rating: 8/10`

// newTestServer builds a server with a mock generation client and no database
func newTestServer(client llm.Client) *Server {
	if client == nil {
		client = &mockClient{response: extractionResponse}
	}
	return &Server{
		client:   client,
		sessions: newSessionRegistry(0),
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestCreateAnalysis(t *testing.T) {
	s := newTestServer(nil)

	body := `{"text": "We are hiring a software engineer."}`
	req := httptest.NewRequest(http.MethodPost, "/analyses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleCreateAnalysis(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, []string{"Software Engineer"}, resp.Analysis.Roles)
	assert.InDelta(t, 40.0, resp.Analysis.Thresholds.Selection, 1e-9)
	assert.InDelta(t, 10.0, resp.Analysis.Thresholds.Rejection, 1e-9)
	assert.NotEmpty(t, resp.Analysis.SuggestedPrompts)
}

func TestCreateAnalysis_MissingInput(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodPost, "/analyses", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	s.handleCreateAnalysis(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "text or job_url")
}

func TestCreateAnalysis_TextAndURLExclusive(t *testing.T) {
	s := newTestServer(nil)

	body := `{"text": "some text", "job_url": "https://example.com/job"}`
	req := httptest.NewRequest(http.MethodPost, "/analyses", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	s.handleCreateAnalysis(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAnalysis_InvalidBody(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodPost, "/analyses", bytes.NewBufferString(`{not json`))
	w := httptest.NewRecorder()

	s.handleCreateAnalysis(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAnalysis_GenerationFailure(t *testing.T) {
	s := newTestServer(&mockClient{err: assert.AnError})

	body := `{"text": "We are hiring."}`
	req := httptest.NewRequest(http.MethodPost, "/analyses", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	s.handleCreateAnalysis(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestListAnalyses_NoDatabase(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/analyses", nil)
	w := httptest.NewRecorder()

	s.handleListAnalyses(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetAnalysis_NoDatabase(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/analyses/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()

	s.handleGetAnalysis(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDeleteAnalysis_NoDatabase(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodDelete, "/analyses/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()

	s.handleDeleteAnalysis(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
