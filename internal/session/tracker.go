package session

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/krishkumar84/assignmentDude/internal/models"
)

// Tracker owns the mutable state of one proctoring session. It is the only
// writer of that state; scoring and reporting consume read-only snapshots.
//
// ClassifyAndUpdate must not be called concurrently for the same session
// (frames arrive on one ordered channel). Snapshot, Stats and Duration may
// race with ingestion, so all state access goes through the tracker mutex to
// keep snapshots internally consistent.
type Tracker struct {
	mu sync.Mutex

	sessionID     string
	candidateName string
	startTime     time.Time
	endTime       *time.Time

	events []models.DetectionEvent

	totalLookingAway       float64 // seconds
	totalNoFace            float64 // seconds
	faceAbsentSince        *time.Time
	lookingAwaySince       *time.Time
	consecutiveNoFace      int
	consecutiveLookingAway int

	policy *models.Policy
	log    *zap.Logger

	// now is the tracker's clock. It stamps events and drives episode
	// accounting, so replaying frames with an injected clock reproduces
	// the original durations.
	now func() time.Time
}

// NewTracker creates a tracker for a freshly started session.
func NewTracker(sessionID, candidateName string, policy *models.Policy, log *zap.Logger) *Tracker {
	t := &Tracker{
		sessionID:     sessionID,
		candidateName: candidateName,
		policy:        policy,
		log:           log,
		now:           time.Now,
	}
	t.startTime = t.now()
	return t
}

// ClassifyAndUpdate converts one frame's perception results into zero or
// more detection events, appends them to the session log and updates the
// episode counters. Called at most once per frame.
//
// Focus classification is a fixed priority chain: no_face, then
// multiple_faces, then looking_away when head yaw or pitch exceeds the
// policy threshold. At most one focus event is produced per frame. Object
// classification is independent: one unauthorized_object event per detection
// whose class is in the policy set.
func (t *Tracker) ClassifyAndUpdate(focus models.FocusResult, objects []models.ObjectDetection) ([]models.DetectionEvent, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.endTime != nil {
		return nil, fmt.Errorf("%w: session %s already ended", ErrInvalidState, t.sessionID)
	}

	// Validate the whole frame before touching any counter so a malformed
	// result degrades to "no events this frame" with state intact.
	if err := focus.Validate(); err != nil {
		return nil, err
	}
	for _, obj := range objects {
		if err := obj.Validate(); err != nil {
			return nil, err
		}
	}

	now := t.now()
	var events []models.DetectionEvent

	focusType, focusEvent := t.classifyFocus(focus, now)
	if focusEvent != nil {
		events = append(events, *focusEvent)
	}

	// Episode accounting follows the frame's focus classification, not the
	// appended events, so unauthorized_object events in the same frame never
	// close an open episode.
	if focusType == models.EventNoFace {
		t.consecutiveNoFace++
		if t.faceAbsentSince == nil {
			start := now
			t.faceAbsentSince = &start
		}
	} else {
		t.closeNoFaceEpisode(now)
	}

	if focusType == models.EventLookingAway {
		t.consecutiveLookingAway++
		if t.lookingAwaySince == nil {
			start := now
			t.lookingAwaySince = &start
		}
	} else {
		t.closeLookingAwayEpisode(now)
	}

	for _, obj := range objects {
		if !t.policy.IsUnauthorized(obj.Class) {
			continue
		}
		t.log.Debug("Unauthorized object detected",
			zap.String("session_id", t.sessionID),
			zap.String("class", obj.Class),
			zap.Float64("confidence", obj.Confidence),
		)
		events = append(events, models.DetectionEvent{
			EventType:  models.EventUnauthorizedObject,
			Confidence: obj.Confidence,
			Timestamp:  now,
			Details: models.UnauthorizedObjectDetails{
				ObjectType: obj.Class,
				BBox:       obj.BBox,
			},
		})
	}

	t.events = append(t.events, events...)
	return events, nil
}

// classifyFocus applies the priority chain and returns the focus event type
// for this frame ("" when the frame is non-violating) plus the event itself.
func (t *Tracker) classifyFocus(focus models.FocusResult, now time.Time) (models.EventType, *models.DetectionEvent) {
	switch {
	case !focus.FaceDetected:
		return models.EventNoFace, &models.DetectionEvent{
			EventType:  models.EventNoFace,
			Confidence: 1.0,
			Timestamp:  now,
			Details:    models.NoFaceDetails{Message: "No face detected"},
		}
	case focus.MultipleFaces:
		return models.EventMultipleFaces, &models.DetectionEvent{
			EventType:  models.EventMultipleFaces,
			Confidence: focus.Confidence,
			Timestamp:  now,
			Details:    models.MultipleFacesDetails{FaceCount: focus.FaceCount},
		}
	case math.Abs(focus.GazeData.HeadYaw) > t.policy.HeadPoseThreshold ||
		math.Abs(focus.GazeData.HeadPitch) > t.policy.HeadPoseThreshold:
		return models.EventLookingAway, &models.DetectionEvent{
			EventType:  models.EventLookingAway,
			Confidence: focus.Confidence,
			Timestamp:  now,
			Details: models.LookingAwayDetails{
				HeadYaw:   focus.GazeData.HeadYaw,
				HeadPitch: focus.GazeData.HeadPitch,
				HeadRoll:  focus.GazeData.HeadRoll,
			},
		}
	}
	return "", nil
}

func (t *Tracker) closeNoFaceEpisode(now time.Time) {
	if t.faceAbsentSince != nil {
		t.totalNoFace += t.elapsedSeconds(*t.faceAbsentSince, now)
		t.faceAbsentSince = nil
	}
	t.consecutiveNoFace = 0
}

func (t *Tracker) closeLookingAwayEpisode(now time.Time) {
	if t.lookingAwaySince != nil {
		t.totalLookingAway += t.elapsedSeconds(*t.lookingAwaySince, now)
		t.lookingAwaySince = nil
	}
	t.consecutiveLookingAway = 0
}

// elapsedSeconds clamps negative intervals (clock skew) to zero so episode
// totals never go backwards.
func (t *Tracker) elapsedSeconds(from, to time.Time) float64 {
	elapsed := to.Sub(from).Seconds()
	if elapsed < 0 {
		t.log.Warn("Negative episode duration clamped to zero",
			zap.String("session_id", t.sessionID),
			zap.Time("episode_start", from),
			zap.Time("now", to),
		)
		return 0
	}
	return elapsed
}

// End closes the session: sets the end time and force-closes any still-open
// episode as of now. Calling End on an already-ended session is an error.
func (t *Tracker) End() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.endTime != nil {
		return fmt.Errorf("%w: session %s already ended", ErrInvalidState, t.sessionID)
	}

	now := t.now()
	t.closeNoFaceEpisode(now)
	t.closeLookingAwayEpisode(now)
	t.endTime = &now
	return nil
}

// Duration returns the session length in seconds, measured against the end
// time when closed and against the tracker clock while open.
func (t *Tracker) Duration() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.durationLocked()
}

func (t *Tracker) durationLocked() float64 {
	end := t.now()
	if t.endTime != nil {
		end = *t.endTime
	}
	d := end.Sub(t.startTime).Seconds()
	if d < 0 {
		return 0
	}
	return d
}

// Stats returns a consistent snapshot of the session counters and integrity
// flags.
func (t *Tracker) Stats() models.SessionStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statsLocked()
}

func (t *Tracker) statsLocked() models.SessionStats {
	counts := make(map[models.EventType]int)
	for _, e := range t.events {
		counts[e.EventType]++
	}

	return models.SessionStats{
		SessionID:                    t.sessionID,
		CandidateName:                t.candidateName,
		Duration:                     t.durationLocked(),
		TotalEvents:                  len(t.events),
		EventCounts:                  counts,
		LookingAwayTime:              t.totalLookingAway,
		NoFaceTime:                   t.totalNoFace,
		ConsecutiveNoFaceFrames:      t.consecutiveNoFace,
		ConsecutiveLookingAwayFrames: t.consecutiveLookingAway,
		IntegrityIssues: models.IntegrityIssues{
			LookingAwayViolations: t.totalLookingAway > models.LookingAwayViolationSeconds,
			FaceAbsentViolations:  t.totalNoFace > models.FaceAbsentViolationSeconds,
			MultipleFaces:         counts[models.EventMultipleFaces] > 0,
			UnauthorizedObjects:   counts[models.EventUnauthorizedObject] > 0,
		},
	}
}

// Snapshot captures the full read-only view used by scoring and reporting.
// The capture is a single atomic read relative to ClassifyAndUpdate.
func (t *Tracker) Snapshot() models.SessionSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	events := make([]models.DetectionEvent, len(t.events))
	copy(events, t.events)

	var end *time.Time
	if t.endTime != nil {
		e := *t.endTime
		end = &e
	}

	return models.SessionSnapshot{
		SessionID:     t.sessionID,
		CandidateName: t.candidateName,
		StartTime:     t.startTime,
		EndTime:       end,
		Events:        events,
		Stats:         t.statsLocked(),
	}
}

// SessionID returns the immutable session identifier.
func (t *Tracker) SessionID() string { return t.sessionID }

// CandidateName returns the candidate this session monitors.
func (t *Tracker) CandidateName() string { return t.candidateName }

// StartTime returns when the session was created.
func (t *Tracker) StartTime() time.Time { return t.startTime }

// EndTime returns the end time, or nil while the session is open.
func (t *Tracker) EndTime() *time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.endTime == nil {
		return nil
	}
	e := *t.endTime
	return &e
}

// Summary returns the lightweight listing view of the session.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	status := "active"
	if t.endTime != nil {
		status = "completed"
	}
	return Summary{
		SessionID:     t.sessionID,
		CandidateName: t.candidateName,
		StartTime:     t.startTime,
		Status:        status,
		Duration:      t.durationLocked(),
		EventCount:    len(t.events),
	}
}
