package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// HTTPClassifier posts raw image bytes to a remote inference endpoint. It
// understands a TorchServe style object ({"label": probability}) and a list of
// {"label","confidence"} pairs.
type HTTPClassifier struct {
	httpClient *resty.Client
	endpoint   string
	topK       int
	logger     *zap.Logger
}

// NewHTTPClassifier builds a classifier backed by endpoint.
func NewHTTPClassifier(endpoint string, timeout time.Duration, topK int, logger *zap.Logger) *HTTPClassifier {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &HTTPClassifier{
		httpClient: client,
		endpoint:   endpoint,
		topK:       topK,
		logger:     logger,
	}
}

// Classify implements Classifier.
func (c *HTTPClassifier) Classify(ctx context.Context, image []byte) []Prediction {
	if len(image) == 0 {
		return nil
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", http.DetectContentType(image)).
		SetBody(image).
		Post(c.endpoint)
	if err != nil {
		c.logger.Warn("classifier request failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		return nil
	}
	if resp.IsError() {
		c.logger.Warn("classifier returned error status",
			zap.String("endpoint", c.endpoint),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil
	}

	predictions, err := decodePredictions(resp.Body())
	if err != nil {
		c.logger.Warn("classifier response not understood", zap.Error(err))
		return nil
	}
	return Rank(predictions, c.topK)
}

func decodePredictions(body []byte) ([]Prediction, error) {
	var list []Prediction
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var scores map[string]float64
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", err)
	}
	list = make([]Prediction, 0, len(scores))
	for label, confidence := range scores {
		list = append(list, Prediction{Label: label, Confidence: confidence})
	}
	return list, nil
}
