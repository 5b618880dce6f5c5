package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishkumar84/assignmentDude/internal/models"
)

var testStart = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func eventAt(offset time.Duration, eventType models.EventType, confidence float64) models.DetectionEvent {
	e := models.DetectionEvent{
		EventType:  eventType,
		Confidence: confidence,
		Timestamp:  testStart.Add(offset),
	}
	switch eventType {
	case models.EventNoFace:
		e.Details = models.NoFaceDetails{Message: "No face detected"}
	case models.EventMultipleFaces:
		e.Details = models.MultipleFacesDetails{FaceCount: 2}
	case models.EventLookingAway:
		e.Details = models.LookingAwayDetails{HeadYaw: 30}
	case models.EventUnauthorizedObject:
		e.Details = models.UnauthorizedObjectDetails{ObjectType: "phone"}
	}
	return e
}

func repeated(eventType models.EventType, confidence float64, n int) []models.DetectionEvent {
	events := make([]models.DetectionEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, eventAt(time.Duration(i)*time.Second, eventType, confidence))
	}
	return events
}

func snapshotFor(events []models.DetectionEvent) models.SessionSnapshot {
	counts := make(map[models.EventType]int)
	for _, e := range events {
		counts[e.EventType]++
	}
	return models.SessionSnapshot{
		SessionID:     "session_test",
		CandidateName: "Jane Candidate",
		StartTime:     testStart,
		Events:        events,
		Stats: models.SessionStats{
			SessionID:     "session_test",
			CandidateName: "Jane Candidate",
			Duration:      600,
			TotalEvents:   len(events),
			EventCounts:   counts,
		},
	}
}

func TestEmptySessionReport(t *testing.T) {
	g := NewGenerator()
	r := g.Generate(snapshotFor(nil))

	assert.Equal(t, 100.0, r.IntegrityScore)
	assert.Equal(t, "A (Excellent)", r.IntegrityGrade)
	assert.True(t, r.Passed)
	assert.Empty(t, r.Timeline)
	assert.Empty(t, r.EventAnalysis.Patterns)
	assert.Equal(t, []string{"Session completed with good integrity - no major concerns"}, r.Recommendations)
}

func TestEventSeverity(t *testing.T) {
	tests := []struct {
		eventType  models.EventType
		confidence float64
		want       models.Severity
	}{
		{models.EventLookingAway, 0.5, models.SeverityLow},
		{models.EventLookingAway, 0.7, models.SeverityMedium},
		{models.EventNoFace, 0.5, models.SeverityMedium},
		{models.EventNoFace, 0.8, models.SeverityHigh},
		{models.EventMultipleFaces, 0.1, models.SeverityHigh},
		{models.EventUnauthorizedObject, 0.1, models.SeverityCritical},
		{models.EventType("mystery"), 0.99, models.SeverityLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EventSeverity(tt.eventType, tt.confidence),
			"%s at %v", tt.eventType, tt.confidence)
	}
}

func TestPatternThresholds(t *testing.T) {
	t.Run("five consecutive looking away is quiet", func(t *testing.T) {
		patterns := DetectPatterns(repeated(models.EventLookingAway, 0.9, 5))
		assert.Empty(t, patterns)
	})

	t.Run("six consecutive looking away emits one note", func(t *testing.T) {
		patterns := DetectPatterns(repeated(models.EventLookingAway, 0.9, 6))
		assert.Equal(t, []string{"Extended period of looking away detected"}, patterns)
	})

	t.Run("twelve consecutive looking away emits two notes", func(t *testing.T) {
		patterns := DetectPatterns(repeated(models.EventLookingAway, 0.9, 12))
		assert.Len(t, patterns, 2)
	})

	t.Run("no face threshold is three", func(t *testing.T) {
		assert.Empty(t, DetectPatterns(repeated(models.EventNoFace, 1, 3)))
		assert.Equal(t,
			[]string{"Extended absence from camera detected"},
			DetectPatterns(repeated(models.EventNoFace, 1, 4)))
	})
}

func TestPatternRunResetsOnOtherEvent(t *testing.T) {
	var events []models.DetectionEvent
	events = append(events, repeated(models.EventLookingAway, 0.9, 4)...)
	events = append(events, eventAt(4*time.Second, models.EventMultipleFaces, 0.9))
	for i := 0; i < 4; i++ {
		events = append(events, eventAt(time.Duration(5+i)*time.Second, models.EventLookingAway, 0.9))
	}

	patterns := DetectPatterns(events)
	// Two broken runs of four never cross the threshold; only the
	// multiple-faces summary note remains.
	assert.Equal(t, []string{"Multiple people detected 1 times"}, patterns)
}

func TestPatternUnauthorizedClassesAreDistinctAndSorted(t *testing.T) {
	events := []models.DetectionEvent{
		{EventType: models.EventUnauthorizedObject, Confidence: 0.9, Timestamp: testStart,
			Details: models.UnauthorizedObjectDetails{ObjectType: "phone"}},
		{EventType: models.EventUnauthorizedObject, Confidence: 0.8, Timestamp: testStart.Add(time.Second),
			Details: models.UnauthorizedObjectDetails{ObjectType: "book"}},
		{EventType: models.EventUnauthorizedObject, Confidence: 0.7, Timestamp: testStart.Add(2 * time.Second),
			Details: models.UnauthorizedObjectDetails{ObjectType: "phone"}},
	}

	patterns := DetectPatterns(events)
	require.Len(t, patterns, 1)
	assert.Equal(t, "Unauthorized objects detected: book, phone", patterns[0])
}

func TestTimelineSortedDefensively(t *testing.T) {
	events := []models.DetectionEvent{
		eventAt(5*time.Second, models.EventNoFace, 1),
		eventAt(1*time.Second, models.EventLookingAway, 0.9),
		eventAt(3*time.Second, models.EventMultipleFaces, 0.8),
	}

	timeline := Timeline(events)
	require.Len(t, timeline, 3)
	for i := 1; i < len(timeline); i++ {
		assert.False(t, timeline[i].Timestamp.Before(timeline[i-1].Timestamp))
	}
	assert.Equal(t, models.EventLookingAway, timeline[0].EventType)
	assert.Equal(t, "10:00:01", timeline[0].TimeFormatted)
}

func TestTimelineRoundsConfidence(t *testing.T) {
	timeline := Timeline([]models.DetectionEvent{eventAt(0, models.EventLookingAway, 0.876543)})
	require.Len(t, timeline, 1)
	assert.Equal(t, 0.88, timeline[0].Confidence)
	assert.Equal(t, "Candidate looking away from camera", timeline[0].Description)
}

func TestRecommendationGates(t *testing.T) {
	// Two multiple_faces plus one unauthorized_object: score 80, so the
	// re-examination note must not fire while both event notes do.
	events := []models.DetectionEvent{
		eventAt(0, models.EventMultipleFaces, 0.9),
		eventAt(time.Second, models.EventMultipleFaces, 0.9),
		eventAt(2*time.Second, models.EventUnauthorizedObject, 0.9),
	}
	snap := snapshotFor(events)

	g := NewGenerator()
	r := g.Generate(snap)

	assert.InDelta(t, 80.0, r.IntegrityScore, 0.001)
	assert.Equal(t, "B (Good)", r.IntegrityGrade)
	assert.Contains(t, r.Recommendations, "Multiple people detected - investigate for assistance or cheating")
	assert.Contains(t, r.Recommendations, "Unauthorized objects detected - review for academic dishonesty")
	assert.NotContains(t, r.Recommendations, "Consider re-examination due to low integrity score")
}

func TestRecommendationDurationGates(t *testing.T) {
	stats := models.SessionStats{
		LookingAwayTime: 31,
		NoFaceTime:      61,
		EventCounts:     map[models.EventType]int{},
	}

	recs := Recommendations(stats, 90)
	assert.Contains(t, recs, "Candidate showed significant inattention - review session recording")
	assert.Contains(t, recs, "Extended periods without face detection - technical issues or candidate absence")
	assert.Len(t, recs, 2)
}

func TestGenerateIsIdempotent(t *testing.T) {
	events := append(repeated(models.EventLookingAway, 0.9, 7),
		eventAt(10*time.Second, models.EventUnauthorizedObject, 0.85))
	snap := snapshotFor(events)

	fixed := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	g := &Generator{now: func() time.Time { return fixed }}

	first, err := json.Marshal(g.Generate(snap))
	require.NoError(t, err)
	second, err := json.Marshal(g.Generate(snap))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeEventsHistograms(t *testing.T) {
	events := []models.DetectionEvent{
		eventAt(0, models.EventLookingAway, 0.5),       // low
		eventAt(time.Second, models.EventNoFace, 1),    // high
		eventAt(2*time.Second, models.EventNoFace, .5), // medium
		eventAt(3*time.Second, models.EventUnauthorizedObject, 0.9), // critical
	}

	analysis := AnalyzeEvents(events)
	assert.Equal(t, 4, analysis.TotalEvents)
	assert.Equal(t, 2, analysis.EventTypes[models.EventNoFace])
	assert.Equal(t, 1, analysis.SeverityBreakdown[models.SeverityLow])
	assert.Equal(t, 1, analysis.SeverityBreakdown[models.SeverityMedium])
	assert.Equal(t, 1, analysis.SeverityBreakdown[models.SeverityHigh])
	assert.Equal(t, 1, analysis.SeverityBreakdown[models.SeverityCritical])
}
