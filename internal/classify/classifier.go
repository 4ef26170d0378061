// Package classify talks to the emotion classification gateway. The gateway
// is an external collaborator: given free text it returns an emotion label
// and a confidence on a 0-100 scale, or fails.
package classify

import (
	"context"
	"errors"
)

// Result is one classification outcome. Confidence is on the gateway's
// 0-100 scale; callers normalizing to [0,1] divide by 100.
type Result struct {
	EmotionType string  `json:"emotion"`
	Confidence  float64 `json:"confidence"`
}

// Classifier classifies a piece of journal text into a single emotion.
// Implementations must honor ctx cancellation and bound each call with a
// timeout; there is no retry inside a Classifier.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// ErrEmptyResult means the gateway responded but the payload carried no
// emotion label. Treated the same as a transport failure by callers.
var ErrEmptyResult = errors.New("classification result has no emotion label")
