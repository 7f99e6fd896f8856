package service

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nagardrishti/complaint-service/internal/category"
	"github.com/nagardrishti/complaint-service/internal/classifier"
)

// DetectionService suggests a category for a photo before the report is filed.
type DetectionService struct {
	images     ImageStore
	classifier classifier.Classifier
	logger     *zap.Logger
}

// NewDetectionService constructs the service.
func NewDetectionService(images ImageStore, cls classifier.Classifier, logger *zap.Logger) *DetectionService {
	if cls == nil {
		cls = classifier.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetectionService{images: images, classifier: cls, logger: logger}
}

// Detect stores the upload for the duration of the call, classifies it and
// removes it again.
func (s *DetectionService) Detect(ctx context.Context, name string, image []byte) (category.Suggestion, error) {
	img, err := s.images.Save(name, bytes.NewReader(image))
	if err != nil {
		return category.Suggestion{}, fmt.Errorf("store image: %w", err)
	}
	defer func() {
		if err := s.images.Delete(img); err != nil {
			s.logger.Error("delete temporary image failed", zap.String("path", img.Path), zap.Error(err))
		}
	}()

	suggestion := category.Infer(s.classifier.Classify(ctx, image))
	s.logger.Debug("category detected",
		zap.Bool("known", suggestion.Known),
		zap.Int("category_id", suggestion.ID),
		zap.String("label", suggestion.Label))
	return suggestion, nil
}
