package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/jd-analyzer/internal/analysis"
	"github.com/jonathan/jd-analyzer/internal/dashboard"
	"github.com/jonathan/jd-analyzer/internal/db"
	"github.com/jonathan/jd-analyzer/internal/fetch"
	"github.com/jonathan/jd-analyzer/internal/ingestion"
	"github.com/jonathan/jd-analyzer/internal/parsing"
	"github.com/jonathan/jd-analyzer/internal/scoring"
	"github.com/jonathan/jd-analyzer/internal/types"
)

// AnalysisResponse represents the response for analysis and session endpoints
type AnalysisResponse struct {
	SessionID string          `json:"session_id"`
	Analysis  *types.Analysis `json:"analysis"`
}

// SuggestionsResponse represents the response for /sessions/{id}/suggestions
type SuggestionsResponse struct {
	SessionID        string   `json:"session_id"`
	SuggestedPrompts []string `json:"suggested_prompts"`
}

// DashboardsResponse represents the response for POST /dashboards. The
// thresholds are recomputed from the submitted skills data so callers see
// cutoffs consistent with the payloads.
type DashboardsResponse struct {
	Dashboards []dashboard.Payload `json:"dashboards"`
	Count      int                 `json:"count"`
	types.ThresholdPair
}

// handleCreateAnalysis runs skill extraction over job-description text or a
// job posting URL and opens a new session holding the result
func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" && req.JobURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "Either text or job_url is required")
		return
	}
	if req.Text != "" && req.JobURL != "" {
		s.errorResponse(w, http.StatusBadRequest, "text and job_url are mutually exclusive")
		return
	}

	text := req.Text
	if text == "" {
		fetched, err := fetch.JobPostingText(r.Context(), req.JobURL, fetch.DefaultOptions())
		if err != nil {
			log.Printf("Failed to fetch job posting %s: %v", req.JobURL, err)
			s.errorResponse(w, http.StatusBadGateway, "Failed to fetch job posting: "+err.Error())
			return
		}
		text = fetched
	}
	text = ingestion.CleanText(text)

	id, sess := s.sessions.Create(s.client)
	result, err := sess.Analyze(r.Context(), text)
	if err != nil {
		s.generationErrorResponse(w, err)
		return
	}

	if s.db != nil {
		input := &db.AnalysisCreateInput{Analysis: result}
		if req.JobURL != "" {
			input.JobURL = &req.JobURL
		}
		if rec, err := s.db.SaveAnalysis(r.Context(), input); err != nil {
			log.Printf("Failed to persist analysis: %v", err)
		} else {
			s.sessions.BindRecord(id, rec.ID)
			log.Printf("Persisted analysis %s", rec.ID)
		}
	}

	s.jsonResponse(w, http.StatusCreated, AnalysisResponse{
		SessionID: id.String(),
		Analysis:  result,
	})
}

// handleGetSession returns the current analysis held by a session
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	current := sess.Current()
	if current == nil {
		s.errorResponse(w, http.StatusNotFound, "Session has no analysis yet")
		return
	}

	s.jsonResponse(w, http.StatusOK, AnalysisResponse{
		SessionID: id.String(),
		Analysis:  current,
	})
}

// handleRefineSession applies a user instruction to a session's taxonomy
func (s *Server) handleRefineSession(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	var req types.RefineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := sess.Refine(r.Context(), req.Instruction)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrRefinementBusy):
			s.errorResponse(w, http.StatusConflict, "Another refinement is already in progress")
		case errors.Is(err, analysis.ErrNoAnalysis):
			s.errorResponse(w, http.StatusConflict, "Session has no analysis to refine")
		default:
			s.generationErrorResponse(w, err)
		}
		return
	}

	if s.db != nil {
		if recordID, ok := s.sessions.Record(id); ok {
			if _, err := s.db.UpdateAnalysis(r.Context(), recordID, result); err != nil {
				log.Printf("Failed to persist refined analysis %s: %v", recordID, err)
			}
		}
	}

	s.jsonResponse(w, http.StatusOK, AnalysisResponse{
		SessionID: id.String(),
		Analysis:  result,
	})
}

// handleGetSuggestions returns the sampled edit suggestions for a session
func (s *Server) handleGetSuggestions(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	current := sess.Current()
	if current == nil {
		s.errorResponse(w, http.StatusNotFound, "Session has no analysis yet")
		return
	}

	s.jsonResponse(w, http.StatusOK, SuggestionsResponse{
		SessionID:        id.String(),
		SuggestedPrompts: current.SuggestedPrompts,
	})
}

// handleCreateDashboards splits a taxonomy into dashboard payloads
func (s *Server) handleCreateDashboards(w http.ResponseWriter, r *http.Request) {
	var req types.DashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	payloads := dashboard.Build(req)
	s.jsonResponse(w, http.StatusOK, DashboardsResponse{
		Dashboards:    payloads,
		Count:         len(payloads),
		ThresholdPair: scoring.CalculateThresholds(req.SkillsData),
	})
}

// sessionFromPath resolves the {id} path value into a live session
func (s *Server) sessionFromPath(w http.ResponseWriter, r *http.Request) (*analysis.Session, uuid.UUID, bool) {
	idStr := r.PathValue("id")
	if idStr == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return nil, uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID format")
		return nil, uuid.Nil, false
	}

	sess := s.sessions.Get(id)
	if sess == nil {
		s.errorResponse(w, http.StatusNotFound, "Session not found")
		return nil, uuid.Nil, false
	}

	return sess, id, true
}

// generationErrorResponse maps generation failures onto HTTP statuses
func (s *Server) generationErrorResponse(w http.ResponseWriter, err error) {
	var apiErr *parsing.APICallError
	if errors.As(err, &apiErr) {
		log.Printf("Generation call failed: %v", err)
		s.errorResponse(w, http.StatusBadGateway, apiErr.Error())
		return
	}

	var zeroErr *parsing.ZeroRolesError
	if errors.As(err, &zeroErr) {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.errorResponse(w, http.StatusInternalServerError, err.Error())
}
