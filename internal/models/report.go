package models

import "time"

// Severity is the fixed qualitative rank assigned to an event.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SessionInfo is the descriptive header of a report.
type SessionInfo struct {
	SessionID       string     `json:"session_id"`
	CandidateName   string     `json:"candidate_name"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes float64    `json:"duration_minutes"`
	Status          string     `json:"status"`
}

// TimelineEntry is one chronological row of the report timeline.
type TimelineEntry struct {
	Timestamp     time.Time    `json:"timestamp"`
	TimeFormatted string       `json:"time_formatted"`
	EventType     EventType    `json:"event_type"`
	Severity      Severity     `json:"severity"`
	Confidence    float64      `json:"confidence"`
	Description   string       `json:"description"`
	Details       EventDetails `json:"details"`
}

// EventAnalysis aggregates the event log into histograms and detected
// behavioral patterns.
type EventAnalysis struct {
	TotalEvents       int               `json:"total_events"`
	EventTypes        map[EventType]int `json:"event_types"`
	SeverityBreakdown map[Severity]int  `json:"severity_breakdown"`
	Patterns          []string          `json:"patterns"`
}

// Report is the immutable integrity assessment derived from a session
// snapshot. Never mutated after generation.
type Report struct {
	SessionInfo     SessionInfo     `json:"session_info"`
	IntegrityScore  float64         `json:"integrity_score"`
	IntegrityGrade  string          `json:"integrity_grade"`
	Passed          bool            `json:"passed"`
	Statistics      SessionStats    `json:"statistics"`
	EventAnalysis   EventAnalysis   `json:"event_analysis"`
	Timeline        []TimelineEntry `json:"timeline"`
	Recommendations []string        `json:"recommendations"`
	GeneratedAt     time.Time       `json:"generated_at"`
}
