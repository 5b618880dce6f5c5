package models

import "time"

// Violation thresholds for the integrity flags, in seconds. Fixed design
// constants, not configuration.
const (
	LookingAwayViolationSeconds = 5
	FaceAbsentViolationSeconds  = 10
)

// IntegrityIssues are the boolean violation flags derived from a session's
// running counters.
type IntegrityIssues struct {
	LookingAwayViolations bool `json:"looking_away_violations"`
	FaceAbsentViolations  bool `json:"face_absent_violations"`
	MultipleFaces         bool `json:"multiple_faces"`
	UnauthorizedObjects   bool `json:"unauthorized_objects"`
}

// SessionStats is a consistent snapshot of a session's counters, taken
// atomically relative to frame ingestion.
type SessionStats struct {
	SessionID                    string            `json:"session_id"`
	CandidateName                string            `json:"candidate_name"`
	Duration                     float64           `json:"duration"`
	TotalEvents                  int               `json:"total_events"`
	EventCounts                  map[EventType]int `json:"event_counts"`
	LookingAwayTime              float64           `json:"looking_away_time"`
	NoFaceTime                   float64           `json:"no_face_time"`
	ConsecutiveNoFaceFrames      int               `json:"consecutive_no_face_frames"`
	ConsecutiveLookingAwayFrames int               `json:"consecutive_looking_away_frames"`
	IntegrityIssues              IntegrityIssues   `json:"integrity_issues"`
}

// SessionSnapshot is a read-only view of a session taken at one instant for
// scoring and reporting. The events slice is a copy; mutating it does not
// affect the tracker.
type SessionSnapshot struct {
	SessionID     string
	CandidateName string
	StartTime     time.Time
	EndTime       *time.Time
	Events        []DetectionEvent
	Stats         SessionStats
}
