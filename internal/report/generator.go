// Package report turns a session snapshot into the integrity assessment
// report: severity-annotated timeline, detected behavioral patterns and
// recommendations. Generation is read-only over the snapshot and never fails,
// a session with zero events yields an empty-but-valid timeline and a
// perfect score.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/krishkumar84/assignmentDude/internal/models"
	"github.com/krishkumar84/assignmentDude/internal/scoring"
)

// Generator produces reports from session snapshots.
type Generator struct {
	now func() time.Time
}

// NewGenerator returns a report generator using the wall clock for the
// generated-at stamp.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Generate composes the full report for a snapshot. The result is immutable;
// generating twice from the same unchanged snapshot yields identical output
// apart from the generated-at stamp.
func (g *Generator) Generate(snap models.SessionSnapshot) models.Report {
	score := scoring.Score(snap.Stats)

	status := "active"
	if snap.EndTime != nil {
		status = "completed"
	}

	return models.Report{
		SessionInfo: models.SessionInfo{
			SessionID:       snap.SessionID,
			CandidateName:   snap.CandidateName,
			StartTime:       snap.StartTime,
			EndTime:         snap.EndTime,
			DurationMinutes: math.Round(snap.Stats.Duration/60*100) / 100,
			Status:          status,
		},
		IntegrityScore:  score,
		IntegrityGrade:  scoring.Grade(score),
		Passed:          scoring.Passed(score),
		Statistics:      snap.Stats,
		EventAnalysis:   AnalyzeEvents(snap.Events),
		Timeline:        Timeline(snap.Events),
		Recommendations: Recommendations(snap.Stats, score),
		GeneratedAt:     g.now(),
	}
}

// EventSeverity assigns the fixed qualitative rank for an event type and
// confidence. Unknown types rank low.
func EventSeverity(eventType models.EventType, confidence float64) models.Severity {
	switch eventType {
	case models.EventLookingAway:
		if confidence < 0.7 {
			return models.SeverityLow
		}
		return models.SeverityMedium
	case models.EventNoFace:
		if confidence < 0.8 {
			return models.SeverityMedium
		}
		return models.SeverityHigh
	case models.EventMultipleFaces:
		return models.SeverityHigh
	case models.EventUnauthorizedObject:
		return models.SeverityCritical
	}
	return models.SeverityLow
}

// Timeline builds the chronological, severity-annotated event timeline.
// Events are re-sorted by timestamp to stay robust against caller-side
// reordering.
func Timeline(events []models.DetectionEvent) []models.TimelineEntry {
	ordered := sortedByTimestamp(events)

	timeline := make([]models.TimelineEntry, 0, len(ordered))
	for _, e := range ordered {
		timeline = append(timeline, models.TimelineEntry{
			Timestamp:     e.Timestamp,
			TimeFormatted: e.Timestamp.Format("15:04:05"),
			EventType:     e.EventType,
			Severity:      EventSeverity(e.EventType, e.Confidence),
			Confidence:    math.Round(e.Confidence*100) / 100,
			Description:   describe(e),
			Details:       e.Details,
		})
	}
	return timeline
}

// AnalyzeEvents aggregates the log into type and severity histograms plus
// the detected patterns.
func AnalyzeEvents(events []models.DetectionEvent) models.EventAnalysis {
	ordered := sortedByTimestamp(events)

	analysis := models.EventAnalysis{
		TotalEvents: len(ordered),
		EventTypes:  make(map[models.EventType]int),
		SeverityBreakdown: map[models.Severity]int{
			models.SeverityLow:      0,
			models.SeverityMedium:   0,
			models.SeverityHigh:     0,
			models.SeverityCritical: 0,
		},
	}

	for _, e := range ordered {
		analysis.EventTypes[e.EventType]++
		analysis.SeverityBreakdown[EventSeverity(e.EventType, e.Confidence)]++
	}

	analysis.Patterns = DetectPatterns(ordered)
	return analysis
}

func sortedByTimestamp(events []models.DetectionEvent) []models.DetectionEvent {
	ordered := make([]models.DetectionEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})
	return ordered
}

func describe(e models.DetectionEvent) string {
	switch e.EventType {
	case models.EventLookingAway:
		return "Candidate looking away from camera"
	case models.EventNoFace:
		return "No face detected in frame"
	case models.EventMultipleFaces:
		return "Multiple faces detected"
	case models.EventUnauthorizedObject:
		objectType := "unknown"
		if d, ok := e.Details.(models.UnauthorizedObjectDetails); ok && d.ObjectType != "" {
			objectType = d.ObjectType
		}
		return fmt.Sprintf("Unauthorized object detected: %s", objectType)
	}
	return fmt.Sprintf("Event: %s", e.EventType)
}
