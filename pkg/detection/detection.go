// Package detection defines the data shapes exchanged with the external
// impact detector and the adapter between those shapes and the scoring
// engine's types.
package detection

import "context"

// Record is one impact reported by the detector.
type Record struct {
	CenterX      float64
	CenterY      float64
	Width        float64
	Height       float64
	Confidence   float64
	Fresh        bool
	InsideTarget bool
	Label        string

	// HasCenter is false when the detector response omitted the center
	// coordinates for this record. Such records degrade to (0,0) in the
	// adapter instead of aborting the analysis.
	HasCenter bool
}

// Result is the full output of one detector run over a target image.
type Result struct {
	Detections   []Record
	TotalImpacts int
	FreshInside  int
	FreshOutside int
	ImageWidth   int
	ImageHeight  int
}

// Detector is the external analysis capability. Implementations run the
// actual image model; the engine only consumes the returned records.
type Detector interface {
	Analyze(ctx context.Context, imagePath string) (*Result, error)
}

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}
