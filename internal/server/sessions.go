package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/jd-analyzer/internal/analysis"
	"github.com/jonathan/jd-analyzer/internal/llm"
)

// sessionRegistry tracks analysis sessions by ID. Sessions live for the
// lifetime of the process; persistence of their results is handled
// separately by the analyses store.
type sessionRegistry struct {
	mu              sync.RWMutex
	sessions        map[uuid.UUID]*analysis.Session
	records         map[uuid.UUID]uuid.UUID
	suggestionCount int
}

func newSessionRegistry(suggestionCount int) *sessionRegistry {
	return &sessionRegistry{
		sessions:        make(map[uuid.UUID]*analysis.Session),
		records:         make(map[uuid.UUID]uuid.UUID),
		suggestionCount: suggestionCount,
	}
}

// Create registers a new session bound to the given client
func (r *sessionRegistry) Create(client llm.Client) (uuid.UUID, *analysis.Session) {
	var opts []analysis.Option
	if r.suggestionCount > 0 {
		opts = append(opts, analysis.WithSuggestionCount(r.suggestionCount))
	}
	sess := analysis.NewSession(client, opts...)

	id := uuid.New()
	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()
	return id, sess
}

// Get returns the session for an ID, or nil when unknown
func (r *sessionRegistry) Get(id uuid.UUID) *analysis.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// BindRecord associates a session with its persisted analysis record so
// later refinements update the same row
func (r *sessionRegistry) BindRecord(sessionID, recordID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[sessionID] = recordID
}

// Record returns the persisted record ID bound to a session, if any
func (r *sessionRegistry) Record(sessionID uuid.UUID) (uuid.UUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recordID, ok := r.records[sessionID]
	return recordID, ok
}
