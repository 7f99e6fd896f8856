package category

import (
	"sort"
	"strings"

	"github.com/nagardrishti/complaint-service/internal/classifier"
)

// ConfidenceFloor is the minimum confidence a prediction needs to be considered.
const ConfidenceFloor = 0.02

// UnknownName is reported when no category could be inferred.
const UnknownName = "Unknown"

// Suggestion is the result of inference. A zero Suggestion means unknown.
type Suggestion struct {
	ID    int
	Name  string
	Label string
	Known bool
}

// Infer walks predictions from highest to lowest confidence and returns the
// first taxonomy entry whose keywords match a surviving label.
func Infer(predictions []classifier.Prediction) Suggestion {
	ordered := make([]classifier.Prediction, len(predictions))
	copy(ordered, predictions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	for _, p := range ordered {
		if p.Confidence < ConfidenceFloor {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(p.Label))
		if label == "" {
			continue
		}
		for _, c := range taxonomy {
			if matches(label, c.Keywords) {
				return Suggestion{ID: c.ID, Name: c.Name, Label: p.Label, Known: true}
			}
		}
	}
	return Suggestion{}
}

// DisplayName returns the category name or "Unknown".
func (s Suggestion) DisplayName() string {
	if !s.Known {
		return UnknownName
	}
	return s.Name
}

func matches(label string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(label, kw) || strings.Contains(kw, label) {
			return true
		}
	}
	return false
}
