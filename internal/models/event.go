package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrValidation is wrapped by every event validation failure so callers can
// match the whole class with errors.Is.
var ErrValidation = errors.New("validation error")

// EventType identifies the kind of violation a DetectionEvent records.
type EventType string

const (
	EventNoFace             EventType = "no_face"
	EventMultipleFaces      EventType = "multiple_faces"
	EventLookingAway        EventType = "looking_away"
	EventUnauthorizedObject EventType = "unauthorized_object"
)

// EventDetails is the tagged payload of a DetectionEvent. Exactly one
// concrete type is valid per EventType.
type EventDetails interface {
	eventDetails()
}

// NoFaceDetails accompanies a no_face event.
type NoFaceDetails struct {
	Message string `json:"message"`
}

// MultipleFacesDetails accompanies a multiple_faces event.
type MultipleFacesDetails struct {
	FaceCount int `json:"face_count"`
}

// LookingAwayDetails carries the head pose angles that triggered a
// looking_away event.
type LookingAwayDetails struct {
	HeadYaw   float64 `json:"head_yaw"`
	HeadPitch float64 `json:"head_pitch"`
	HeadRoll  float64 `json:"head_roll"`
}

// UnauthorizedObjectDetails accompanies an unauthorized_object event.
type UnauthorizedObjectDetails struct {
	ObjectType string      `json:"object_type"`
	BBox       BoundingBox `json:"bbox"`
}

func (NoFaceDetails) eventDetails()             {}
func (MultipleFacesDetails) eventDetails()      {}
func (LookingAwayDetails) eventDetails()        {}
func (UnauthorizedObjectDetails) eventDetails() {}

// DetectionEvent is a single classified occurrence in a session's append-only
// log. Events are immutable once created; timestamps are assigned by the
// tracker at classification time and are non-decreasing within a session.
type DetectionEvent struct {
	EventType  EventType    `json:"event_type"`
	Confidence float64      `json:"confidence"`
	Timestamp  time.Time    `json:"timestamp"`
	Details    EventDetails `json:"details"`
}

// Validate checks that the confidence is within [0,1] and that the details
// payload matches the shape expected for the event type.
func (e DetectionEvent) Validate() error {
	if e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range [0,1]", ErrValidation, e.Confidence)
	}

	switch e.EventType {
	case EventNoFace:
		if _, ok := e.Details.(NoFaceDetails); !ok {
			return detailsMismatch(e.EventType, e.Details)
		}
	case EventMultipleFaces:
		if _, ok := e.Details.(MultipleFacesDetails); !ok {
			return detailsMismatch(e.EventType, e.Details)
		}
	case EventLookingAway:
		if _, ok := e.Details.(LookingAwayDetails); !ok {
			return detailsMismatch(e.EventType, e.Details)
		}
	case EventUnauthorizedObject:
		if _, ok := e.Details.(UnauthorizedObjectDetails); !ok {
			return detailsMismatch(e.EventType, e.Details)
		}
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrValidation, e.EventType)
	}
	return nil
}

func detailsMismatch(t EventType, d EventDetails) error {
	return fmt.Errorf("%w: details %T do not match event type %q", ErrValidation, d, t)
}

// ToMap renders the event as a transport-agnostic key/value structure with
// the timestamp as an ISO-8601 string. This is the shape that crosses the
// boundary toward the transport layer.
func (e DetectionEvent) ToMap() map[string]any {
	return map[string]any{
		"event_type": string(e.EventType),
		"confidence": e.Confidence,
		"timestamp":  e.Timestamp.Format(time.RFC3339Nano),
		"details":    e.Details,
	}
}
