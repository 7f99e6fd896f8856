package handlers

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nagardrishti/complaint-service/internal/api/dto"
	"github.com/nagardrishti/complaint-service/internal/category"
	"github.com/nagardrishti/complaint-service/internal/service"
	apperrors "github.com/nagardrishti/complaint-service/pkg/util"
)

const (
	defaultGreeting   = "Welcome to Nagardrishti"
	msgRegistered     = "Registration Successful!"
	msgReported       = "Report Submitted Successfully!"
	msgUnknownMobile  = "Error: Mobile number not found"
	msgInternalError  = "Error: something went wrong on our side, please try again"
	msgPhotoRequired  = "Error: please attach a photo of the problem"
	msgInvalidForm    = "Error: the form could not be read"
	msgInvalidAddress = "Error: address is required"
)

// Registrar signs citizens up.
type Registrar interface {
	Register(ctx context.Context, fullName, mobile string) (*service.RegistrationOutcome, error)
}

// Submitter files complaints.
type Submitter interface {
	Submit(ctx context.Context, in service.SubmissionInput) (*service.SubmissionOutcome, error)
}

// CitizenHandler serves the public pages.
type CitizenHandler struct {
	registration Registrar
	submission   Submitter
	logger       *zap.Logger
}

// NewCitizenHandler constructs handler.
func NewCitizenHandler(registration Registrar, submission Submitter, logger *zap.Logger) *CitizenHandler {
	return &CitizenHandler{registration: registration, submission: submission, logger: logger}
}

// Home handles GET /.
func (h *CitizenHandler) Home(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"Message": c.Query("msg", defaultGreeting),
	}, Layout)
}

// RegisterPage handles GET /register.
func (h *CitizenHandler) RegisterPage(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{
		"Message": c.Query("msg"),
	}, Layout)
}

// Register handles POST /register.
func (h *CitizenHandler) Register(c *fiber.Ctx) error {
	var form dto.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithMessage(c, "/register", msgInvalidForm)
	}

	out, err := h.registration.Register(c.UserContext(), form.FullName, form.MobileNumber)
	if err != nil {
		if de := apperrors.ToDomainError(err); de.Code == "VALIDATION_FAILED" {
			return redirectWithMessage(c, "/register", "Error: "+de.Message)
		}
		h.logger.Error("registration failed", zap.Error(err))
		return redirectWithMessage(c, "/register", msgInternalError)
	}
	if out.Existing {
		return redirectWithMessage(c, "/", "Welcome back, "+out.User.FullName)
	}
	return redirectWithMessage(c, "/", msgRegistered)
}

// ReportPage handles GET /report.
func (h *CitizenHandler) ReportPage(c *fiber.Ctx) error {
	return c.Render("report", fiber.Map{
		"Message":    c.Query("msg"),
		"Categories": category.All(),
	}, Layout)
}

// Report handles POST /report.
func (h *CitizenHandler) Report(c *fiber.Ctx) error {
	var form dto.ReportForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithMessage(c, "/report", msgInvalidForm)
	}

	in, msg := reportInput(form)
	if msg != "" {
		return redirectWithMessage(c, "/report", msg)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return redirectWithMessage(c, "/report", msgPhotoRequired)
	}
	in.ImageName = fh.Filename
	if in.Image, err = readUpload(fh); err != nil {
		h.logger.Error("read upload failed", zap.Error(err))
		return redirectWithMessage(c, "/report", msgInternalError)
	}
	if len(in.Image) == 0 {
		return redirectWithMessage(c, "/report", msgPhotoRequired)
	}

	out, err := h.submission.Submit(c.UserContext(), in)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return redirectWithMessage(c, "/register", msgUnknownMobile)
	case err != nil:
		fields := []zap.Field{zap.Error(err)}
		if out != nil {
			fields = append(fields, zap.String("state", string(out.State)), zap.Any("trace", out.Trace))
		}
		h.logger.Error("submission failed", fields...)
		return redirectWithMessage(c, "/report", msgInternalError)
	case out.State == service.StateMismatchBlocked:
		return redirectWithMessage(c, "/report", out.MismatchMessage())
	}
	return redirectWithMessage(c, "/", msgReported)
}

// reportInput validates the text fields of the report form. A non-empty
// message means the form must be shown again.
func reportInput(form dto.ReportForm) (service.SubmissionInput, string) {
	categoryID, err := strconv.Atoi(strings.TrimSpace(form.CategoryID))
	if err != nil || !category.Contains(categoryID) {
		return service.SubmissionInput{}, "Error: please choose a complaint category"
	}
	address := strings.TrimSpace(form.Address)
	if address == "" {
		return service.SubmissionInput{}, msgInvalidAddress
	}
	lat, err := parseCoordinate(form.Latitude, 90)
	if err != nil {
		return service.SubmissionInput{}, "Error: latitude must be a number between -90 and 90"
	}
	lon, err := parseCoordinate(form.Longitude, 180)
	if err != nil {
		return service.SubmissionInput{}, "Error: longitude must be a number between -180 and 180"
	}
	return service.SubmissionInput{
		MobileNumber: form.MobileNumber,
		CategoryID:   categoryID,
		Latitude:     lat,
		Longitude:    lon,
		Address:      address,
		Landmark:     form.Landmark,
		Description:  form.Description,
		Override:     parseCheckbox(form.Override),
	}, ""
}

// parseCoordinate treats a blank value as 0, matching forms submitted
// without location access.
func parseCoordinate(raw string, limit float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || v < -limit || v > limit {
		return 0, errors.New("coordinate out of range")
	}
	return v, nil
}
