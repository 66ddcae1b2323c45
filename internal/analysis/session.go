// Package analysis orchestrates job-description analysis and iterative
// refinement against the text-generation collaborator. A Session owns the
// last successfully parsed taxonomy; refinements replace it wholesale and
// never leave partial state behind.
package analysis

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/jonathan/jd-analyzer/internal/llm"
	"github.com/jonathan/jd-analyzer/internal/parsing"
	"github.com/jonathan/jd-analyzer/internal/prompts"
	"github.com/jonathan/jd-analyzer/internal/scoring"
	"github.com/jonathan/jd-analyzer/internal/suggest"
	"github.com/jonathan/jd-analyzer/internal/types"
)

// DefaultSuggestionCount is the number of edit suggestions sampled per analysis.
const DefaultSuggestionCount = 5

var (
	// ErrRefinementBusy is returned when a refinement is already in flight
	// for this session. A refinement reads and replaces session state
	// non-atomically, so at most one may run at a time.
	ErrRefinementBusy = errors.New("a refinement is already in progress for this session")

	// ErrNoAnalysis is returned when Refine is called before any successful
	// analysis has populated the session.
	ErrNoAnalysis = errors.New("no analyzed job description in this session")
)

// Session holds the analysis state for one user session. Sessions are
// independent; nothing is shared across them.
type Session struct {
	client llm.Client
	rng    *rand.Rand
	count  int

	// mu guards the retained taxonomy. The maps are never mutated after a
	// parse, only swapped wholesale, so snapshots taken under mu stay valid
	// after release.
	mu    sync.Mutex
	roles []string
	data  types.Taxonomy
	raw   string
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for suggestion sampling, so callers
// and tests can make sampling deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithSuggestionCount overrides the number of sampled suggestions.
func WithSuggestionCount(n int) Option {
	return func(s *Session) { s.count = n }
}

// NewSession creates a session bound to a text-generation client.
func NewSession(client llm.Client, opts ...Option) *Session {
	s := &Session{
		client: client,
		count:  DefaultSuggestionCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs the extraction prompt over raw job-description text, parses
// the response into a taxonomy, and replaces the session state. Text that
// yields zero roles is a valid (empty) analysis here; only refinement treats
// it as failure.
func (s *Session) Analyze(ctx context.Context, text string) (*types.Analysis, error) {
	req := llm.Request{
		Template:  prompts.MustGet("analysis.json", "extract-skill-matrix"),
		Variables: map[string]string{"Context": text},
	}

	response, err := s.client.Generate(ctx, req, llm.TierStandard)
	if err != nil {
		return nil, &parsing.APICallError{Message: "job description analysis failed", Cause: err}
	}

	result := parsing.Parse(response)

	s.mu.Lock()
	defer s.mu.Unlock()
	analysis := s.buildAnalysis(result)
	s.roles = result.Roles
	s.data = result.SkillsData
	s.raw = result.Raw

	return analysis, nil
}

// Refine sends the retained taxonomy plus a free-form instruction to the
// model and replaces the session state with the re-parsed response. The
// retained state is untouched unless the refinement produces at least one
// role.
func (s *Session) Refine(ctx context.Context, instruction string) (*types.Analysis, error) {
	if !s.mu.TryLock() {
		return nil, ErrRefinementBusy
	}
	defer s.mu.Unlock()

	if len(s.roles) == 0 {
		return nil, ErrNoAnalysis
	}

	req := llm.Request{
		Template: prompts.MustGet("analysis.json", "refine-skill-matrix"),
		Variables: map[string]string{
			"SkillsData":  parsing.FormatTaxonomy(s.roles, s.data),
			"Instruction": instruction,
		},
	}

	response, err := s.client.Generate(ctx, req, llm.TierStandard)
	if err != nil {
		return nil, &parsing.APICallError{Message: "refinement failed", Cause: err}
	}

	result := parsing.Parse(response)
	if len(result.Roles) == 0 {
		return nil, &parsing.ZeroRolesError{Raw: result.Raw}
	}

	analysis := s.buildAnalysis(result)

	s.roles = result.Roles
	s.data = result.SkillsData
	s.raw = result.Raw

	return analysis, nil
}

// Restore seeds the session from a previously saved analysis so that
// refinement can resume across process restarts.
func (s *Session) Restore(a *types.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles = a.Roles
	s.data = a.SkillsData
	s.raw = a.RawResponse
}

// Current returns a snapshot of the retained analysis, or nil if nothing has
// been analyzed yet.
func (s *Session) Current() *types.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data) == 0 && len(s.roles) == 0 {
		return nil
	}
	return s.buildAnalysis(&parsing.ParseResult{
		Roles:      s.roles,
		SkillsData: s.data,
		Raw:        s.raw,
	})
}

// buildAnalysis derives thresholds and suggestions for a parse result.
func (s *Session) buildAnalysis(result *parsing.ParseResult) *types.Analysis {
	return &types.Analysis{
		Roles:            result.Roles,
		SkillsData:       result.SkillsData,
		RawResponse:      result.Raw,
		Thresholds:       scoring.CalculateThresholds(result.SkillsData),
		SuggestedPrompts: suggest.Generate(result.Roles, result.SkillsData, s.count, s.rng),
	}
}
