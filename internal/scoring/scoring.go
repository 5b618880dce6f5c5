// Package scoring derives the 0-100 integrity score from a session snapshot.
// All functions are pure; they never mutate the snapshot.
package scoring

import "github.com/krishkumar84/assignmentDude/internal/models"

// Deduction caps and rates. Fixed design constants.
const (
	lookingAwayCap = 30 // 1 point per 5 seconds
	faceAbsentCap  = 20 // 2 points per 10 seconds
	multiFaceCap   = 20 // 5 points per occurrence
	objectCap      = 30 // 10 points per occurrence

	// PassThreshold is the minimum passing score.
	PassThreshold = 60
)

// Score computes the integrity score: 100 minus four independently capped
// deductions, floored at zero.
func Score(stats models.SessionStats) float64 {
	lookingAway := capped(stats.LookingAwayTime/5*1, lookingAwayCap)
	faceAbsent := capped(stats.NoFaceTime/10*2, faceAbsentCap)
	multiFace := capped(float64(stats.EventCounts[models.EventMultipleFaces])*5, multiFaceCap)
	objects := capped(float64(stats.EventCounts[models.EventUnauthorizedObject])*10, objectCap)

	score := 100 - (lookingAway + faceAbsent + multiFace + objects)
	if score < 0 {
		return 0
	}
	return score
}

func capped(deduction, limit float64) float64 {
	if deduction > limit {
		return limit
	}
	return deduction
}

// Grade maps a score onto the fixed letter grade step function.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A (Excellent)"
	case score >= 80:
		return "B (Good)"
	case score >= 70:
		return "C (Satisfactory)"
	case score >= 60:
		return "D (Poor)"
	default:
		return "F (Fail)"
	}
}

// Passed reports whether a score meets the pass threshold.
func Passed(score float64) bool {
	return score >= PassThreshold
}
