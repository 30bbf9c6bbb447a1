package detector

import (
	"errors"
	"time"

	"gocv.io/x/gocv"
)

// ErrScriptNotFound is returned when the MediaPipe service script cannot be located.
var ErrScriptNotFound = errors.New("hand_service.py not found")

// ErrReplyTimeout is returned when the service does not answer in time.
// The service is killed and restarted by the next request.
var ErrReplyTimeout = errors.New("mediapipe service did not reply in time")

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect. The game tracks one.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// Script is the path of the MediaPipe service script. Empty searches
	// the usual install locations.
	Script string

	// Python is the interpreter used to run Script. Empty prefers a venv
	// interpreter and falls back to python3.
	Python string

	// IdleTimeout stops the subprocess after this long without a request.
	IdleTimeout time.Duration

	// StartTimeout bounds the wait for the service to load its model.
	StartTimeout time.Duration

	// ReplyTimeout bounds the wait for the answer to one frame.
	ReplyTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
		StartTimeout:    30 * time.Second,
		ReplyTimeout:    2 * time.Second,
	}
}
