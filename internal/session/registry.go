package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/krishkumar84/assignmentDude/internal/models"
)

// Summary is the lightweight per-session view returned by Registry.List.
type Summary struct {
	SessionID     string    `json:"session_id"`
	CandidateName string    `json:"candidate_name"`
	StartTime     time.Time `json:"start_time"`
	Status        string    `json:"status"`
	Duration      float64   `json:"duration"`
	EventCount    int       `json:"event_count"`
}

// Registry owns the process-wide id to tracker map. It serializes creation
// and lookup; it never inspects or mutates the state of a tracker it holds.
// Sessions are retained for the process lifetime, there is no eviction.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Tracker

	policy *models.Policy
	log    *zap.Logger
}

// NewRegistry creates an empty registry. Trackers it creates share the given
// policy and logger.
func NewRegistry(policy *models.Policy, log *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Tracker),
		policy:   policy,
		log:      log,
	}
}

// Create starts a new session for a candidate and returns its tracker. Ids
// are uuid-based so concurrent creates can never collide the way
// wall-clock-string ids do.
func (r *Registry) Create(candidateName string) *Tracker {
	sessionID := fmt.Sprintf("session_%s", uuid.NewString())
	tracker := NewTracker(sessionID, candidateName, r.policy, r.log)

	r.mu.Lock()
	r.sessions[sessionID] = tracker
	r.mu.Unlock()

	r.log.Info("Session started",
		zap.String("session_id", sessionID),
		zap.String("candidate_name", candidateName),
	)
	return tracker
}

// Get returns the tracker for a session id, or ErrSessionNotFound.
func (r *Registry) Get(sessionID string) (*Tracker, error) {
	r.mu.RLock()
	tracker, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return tracker, nil
}

// List returns a summary for every known session, ordered by start time.
func (r *Registry) List() []Summary {
	r.mu.RLock()
	trackers := make([]*Tracker, 0, len(r.sessions))
	for _, t := range r.sessions {
		trackers = append(trackers, t)
	}
	r.mu.RUnlock()

	summaries := make([]Summary, 0, len(trackers))
	for _, t := range trackers {
		summaries = append(summaries, t.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartTime.Before(summaries[j].StartTime)
	})
	return summaries
}
