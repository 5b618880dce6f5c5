package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/krishkumar84/assignmentDude/internal/models"
)

// Run-length thresholds for the pattern scan. A run must strictly exceed the
// threshold before a note is emitted.
const (
	lookingAwayRunThreshold = 5
	noFaceRunThreshold      = 3
)

// DetectPatterns scans the ordered event log for concerning behavioral
// patterns. Run counters reset on every other event type, and reset again
// after each emitted note so one very long run produces one note per block.
func DetectPatterns(events []models.DetectionEvent) []string {
	var patterns []string
	if len(events) == 0 {
		return patterns
	}

	consecutiveLookingAway := 0
	consecutiveNoFace := 0

	for _, e := range events {
		switch e.EventType {
		case models.EventLookingAway:
			consecutiveLookingAway++
			consecutiveNoFace = 0
		case models.EventNoFace:
			consecutiveNoFace++
			consecutiveLookingAway = 0
		default:
			consecutiveLookingAway = 0
			consecutiveNoFace = 0
		}

		if consecutiveLookingAway > lookingAwayRunThreshold {
			patterns = append(patterns, "Extended period of looking away detected")
			consecutiveLookingAway = 0
		}
		if consecutiveNoFace > noFaceRunThreshold {
			patterns = append(patterns, "Extended absence from camera detected")
			consecutiveNoFace = 0
		}
	}

	multipleFaces := 0
	for _, e := range events {
		if e.EventType == models.EventMultipleFaces {
			multipleFaces++
		}
	}
	if multipleFaces > 0 {
		patterns = append(patterns, fmt.Sprintf("Multiple people detected %d times", multipleFaces))
	}

	if classes := unauthorizedClasses(events); len(classes) > 0 {
		patterns = append(patterns, fmt.Sprintf("Unauthorized objects detected: %s", strings.Join(classes, ", ")))
	}

	return patterns
}

// unauthorizedClasses returns the distinct object classes seen across
// unauthorized_object events, sorted for deterministic output.
func unauthorizedClasses(events []models.DetectionEvent) []string {
	seen := make(map[string]bool)
	for _, e := range events {
		if e.EventType != models.EventUnauthorizedObject {
			continue
		}
		objectType := "unknown"
		if d, ok := e.Details.(models.UnauthorizedObjectDetails); ok && d.ObjectType != "" {
			objectType = d.ObjectType
		}
		seen[objectType] = true
	}

	classes := make([]string, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// Recommendations evaluates the fixed, independently gated rule list against
// the session counters and score.
func Recommendations(stats models.SessionStats, score float64) []string {
	var recommendations []string

	if score < 70 {
		recommendations = append(recommendations, "Consider re-examination due to low integrity score")
	}
	if stats.LookingAwayTime > 30 {
		recommendations = append(recommendations, "Candidate showed significant inattention - review session recording")
	}
	if stats.NoFaceTime > 60 {
		recommendations = append(recommendations, "Extended periods without face detection - technical issues or candidate absence")
	}
	if stats.EventCounts[models.EventMultipleFaces] > 0 {
		recommendations = append(recommendations, "Multiple people detected - investigate for assistance or cheating")
	}
	if stats.EventCounts[models.EventUnauthorizedObject] > 0 {
		recommendations = append(recommendations, "Unauthorized objects detected - review for academic dishonesty")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Session completed with good integrity - no major concerns")
	}
	return recommendations
}
