// Package classifier adapts image-recognition backends to a single contract:
// ranked (label, confidence) pairs, highest first, empty on any failure.
package classifier

import (
	"context"
	"sort"
)

// DefaultTopK bounds the number of predictions returned.
const DefaultTopK = 10

// Prediction is one ranked label from a classifier.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier produces ranked predictions for an image. Implementations never
// fail: errors are logged and reported as an empty result.
type Classifier interface {
	Classify(ctx context.Context, image []byte) []Prediction
}

// Func adapts a plain function to Classifier.
type Func func(ctx context.Context, image []byte) []Prediction

// Classify calls f.
func (f Func) Classify(ctx context.Context, image []byte) []Prediction {
	return f(ctx, image)
}

// Nop is used when no inference backend is configured.
type Nop struct{}

// Classify always returns no predictions.
func (Nop) Classify(context.Context, []byte) []Prediction { return nil }

// Rank sorts predictions by descending confidence and keeps at most topK.
func Rank(predictions []Prediction, topK int) []Prediction {
	if topK <= 0 {
		topK = DefaultTopK
	}
	ranked := make([]Prediction, 0, len(predictions))
	for _, p := range predictions {
		if p.Label == "" {
			continue
		}
		ranked = append(ranked, p)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
