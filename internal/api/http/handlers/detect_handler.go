package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/nagardrishti/complaint-service/internal/api/dto"
	"github.com/nagardrishti/complaint-service/internal/category"
	apperrors "github.com/nagardrishti/complaint-service/pkg/util"
)

// Detector suggests a category for a photo.
type Detector interface {
	Detect(ctx context.Context, name string, image []byte) (category.Suggestion, error)
}

// DetectHandler serves the report page's auto-detect call.
type DetectHandler struct {
	detector Detector
}

// NewDetectHandler constructs handler.
func NewDetectHandler(detector Detector) *DetectHandler {
	return &DetectHandler{detector: detector}
}

// Detect handles POST /detect-category.
func (h *DetectHandler) Detect(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", map[string]any{"field": "file"})
	}
	data, err := readUpload(fh)
	if err != nil {
		return err
	}

	suggestion, err := h.detector.Detect(c.UserContext(), fh.Filename, data)
	if err != nil {
		return err
	}

	resp := dto.DetectResponse{Name: suggestion.DisplayName()}
	if suggestion.Known {
		id := suggestion.ID
		resp.SuggestedID = &id
	}
	return c.JSON(resp)
}
