package models

import (
	"errors"
	"fmt"
)

// ErrMalformedPerception marks perception payloads that are structurally
// invalid. A malformed result fails classification for its frame only; the
// session's state stays intact.
var ErrMalformedPerception = errors.New("malformed perception result")

// GazeData holds the head pose angles, in degrees, estimated for the
// primary face.
type GazeData struct {
	HeadYaw   float64 `json:"head_yaw"`
	HeadPitch float64 `json:"head_pitch"`
	HeadRoll  float64 `json:"head_roll"`
}

// FocusResult is the per-frame output of the external face/gaze estimator.
type FocusResult struct {
	FaceDetected    bool     `json:"face_detected"`
	MultipleFaces   bool     `json:"multiple_faces"`
	FaceCount       int      `json:"face_count"`
	LookingAtCamera bool     `json:"looking_at_camera"`
	Confidence      float64  `json:"confidence"`
	GazeData        GazeData `json:"gaze_data"`
	EyeClosure      bool     `json:"eye_closure"`
}

// Validate rejects focus results the detector boundary should never produce.
func (f FocusResult) Validate() error {
	if f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("%w: focus confidence %v out of range [0,1]", ErrMalformedPerception, f.Confidence)
	}
	if f.FaceCount < 0 {
		return fmt.Errorf("%w: negative face count %d", ErrMalformedPerception, f.FaceCount)
	}
	if f.FaceDetected && f.FaceCount == 0 {
		return fmt.Errorf("%w: face detected but face count is zero", ErrMalformedPerception)
	}
	return nil
}

// BoundingBox locates a detected object within the frame.
type BoundingBox struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ObjectDetection is one detected physical object from the external object
// classifier.
type ObjectDetection struct {
	Class      string      `json:"class"`
	Confidence float64     `json:"confidence"`
	BBox       BoundingBox `json:"bbox"`
}

// Validate rejects object detections with an empty class or an out-of-range
// confidence.
func (o ObjectDetection) Validate() error {
	if o.Class == "" {
		return fmt.Errorf("%w: object detection with empty class", ErrMalformedPerception)
	}
	if o.Confidence < 0 || o.Confidence > 1 {
		return fmt.Errorf("%w: object confidence %v out of range [0,1]", ErrMalformedPerception, o.Confidence)
	}
	return nil
}
