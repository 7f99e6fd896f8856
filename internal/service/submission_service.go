package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/nagardrishti/complaint-service/internal/category"
	"github.com/nagardrishti/complaint-service/internal/classifier"
	"github.com/nagardrishti/complaint-service/internal/domain"
	"github.com/nagardrishti/complaint-service/internal/events"
	"github.com/nagardrishti/complaint-service/internal/observability"
	"github.com/nagardrishti/complaint-service/internal/registry"
	"github.com/nagardrishti/complaint-service/internal/repository"
	"github.com/nagardrishti/complaint-service/internal/storage"
)

// ErrUserNotFound is returned when the submitting mobile number is not registered.
var ErrUserNotFound = errors.New("user not found")

const flagNoteFormat = "[AI Flag: image looks like '%s'] "

// ImageStore persists uploaded photos.
type ImageStore interface {
	Save(originalName string, r io.Reader) (storage.StoredImage, error)
	Delete(img storage.StoredImage) error
}

// SubmissionService runs the complaint submission workflow.
type SubmissionService struct {
	users      repository.UserRepository
	complaints repository.ComplaintRepository
	history    repository.ComplaintHistoryRepository
	images     ImageStore
	classifier classifier.Classifier
	registry   registry.Client
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// SubmissionDependencies bundles collaborators for SubmissionService.
type SubmissionDependencies struct {
	UserRepo      repository.UserRepository
	ComplaintRepo repository.ComplaintRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	Images        ImageStore
	Classifier    classifier.Classifier
	Registry      registry.Client
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// SubmissionInput is a complaint as entered on the report form.
type SubmissionInput struct {
	MobileNumber string
	CategoryID   int
	Latitude     float64
	Longitude    float64
	Address      string
	Landmark     string
	Description  string
	ImageName    string
	Image        []byte
	Override     bool
}

// SubmissionOutcome records how far a submission got. Complaint is set once
// the row is persisted; Sync is only meaningful after StateSyncAttempted.
type SubmissionOutcome struct {
	State      SubmissionState
	Trace      []SubmissionState
	Complaint  *domain.Complaint
	Submitted  int
	Suggestion category.Suggestion
	Sync       registry.Result[string]
}

// MismatchMessage explains a blocked submission to the citizen.
func (o *SubmissionOutcome) MismatchMessage() string {
	return fmt.Sprintf("The photo looks like '%s', not '%s'. Choose that category, or tick \"submit anyway\" to file it as reported.",
		o.Suggestion.DisplayName(), category.Name(o.Submitted))
}

// NewSubmissionService constructs the service.
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cls := deps.Classifier
	if cls == nil {
		cls = classifier.Nop{}
	}
	return &SubmissionService{
		users:      deps.UserRepo,
		complaints: deps.ComplaintRepo,
		history:    deps.HistoryRepo,
		images:     deps.Images,
		classifier: cls,
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Decide picks the branch taken after classification.
func Decide(submittedID int, suggestion category.Suggestion, override bool) SubmissionState {
	if !suggestion.Known || suggestion.ID == submittedID || !category.Contains(submittedID) || !category.Contains(suggestion.ID) {
		return StateApproved
	}
	if override {
		return StateMismatchOverridden
	}
	return StateMismatchBlocked
}

// Submit runs the workflow. The returned outcome is never nil. An error is
// returned for StateUserNotFound and StateFailed; every other terminal state,
// including StateMismatchBlocked and StateSyncFailed, returns nil.
func (s *SubmissionService) Submit(ctx context.Context, in SubmissionInput) (*SubmissionOutcome, error) {
	out := &SubmissionOutcome{State: StateReceived, Trace: []SubmissionState{StateReceived}, Submitted: in.CategoryID}
	defer func() { s.metrics.RecordOutcome("submission", string(out.State)) }()

	user, err := s.lookupUser(ctx, in.MobileNumber)
	if errors.Is(err, ErrUserNotFound) {
		if err := out.advance(StateUserNotFound); err != nil {
			return out, err
		}
		return out, ErrUserNotFound
	}
	if err != nil {
		return s.fail(out, fmt.Errorf("lookup user: %w", err))
	}
	if err := out.advance(StateValidated); err != nil {
		return out, err
	}

	img, err := s.images.Save(in.ImageName, bytes.NewReader(in.Image))
	if err != nil {
		return s.fail(out, fmt.Errorf("store image: %w", err))
	}
	if err := out.advance(StateImageStored); err != nil {
		return out, err
	}

	out.Suggestion = category.Infer(s.classifier.Classify(ctx, in.Image))
	if err := out.advance(StateClassified); err != nil {
		return out, err
	}

	if err := out.advance(Decide(in.CategoryID, out.Suggestion, in.Override)); err != nil {
		return out, err
	}
	if out.State == StateMismatchBlocked {
		s.discard(img)
		s.logger.Info("submission blocked on category mismatch",
			zap.Int64("user_id", user.ID),
			zap.Int("submitted_category_id", in.CategoryID),
			zap.Int("detected_category_id", out.Suggestion.ID),
			zap.String("detected_label", out.Suggestion.Label))
		return out, nil
	}

	complaint := buildComplaint(user, in, img, out)
	if err := s.complaints.Create(ctx, complaint); err != nil {
		s.discard(img)
		return s.fail(out, fmt.Errorf("persist complaint: %w", err))
	}
	out.Complaint = complaint
	if err := out.advance(StatePersisted); err != nil {
		return out, err
	}
	s.publishSubmitted(ctx, complaint, out)

	if err := out.advance(StateSyncAttempted); err != nil {
		return out, err
	}
	out.Sync = s.sync(ctx, user, complaint)
	if !out.Sync.OK() {
		s.logger.Warn("registry sync failed",
			zap.Int64("complaint_id", complaint.ID),
			zap.String("reason", out.Sync.Reason()))
		publishEvent(ctx, s.dispatcher, events.Event{
			Type:        events.EventComplaintSyncFailed,
			UserID:      user.ID,
			ComplaintID: complaint.ID,
			Payload:     events.ComplaintSyncPayload{Status: complaint.Status, Reason: out.Sync.Reason()},
		})
		return out, out.advance(StateSyncFailed)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:        events.EventComplaintSynced,
		UserID:      user.ID,
		ComplaintID: complaint.ID,
		Payload:     events.ComplaintSyncPayload{TicketID: out.Sync.Value, Status: complaint.Status},
	})
	return out, out.advance(StateSynced)
}

func (s *SubmissionService) lookupUser(ctx context.Context, mobile string) (*domain.User, error) {
	mobile, err := NormalizeMobile(mobile)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.users.GetByMobile(ctx, mobile)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *SubmissionService) fail(out *SubmissionOutcome, err error) (*SubmissionOutcome, error) {
	s.logger.Error("submission failed", zap.String("state", string(out.State)), zap.Error(err))
	if advErr := out.advance(StateFailed); advErr != nil {
		return out, errors.Join(err, advErr)
	}
	return out, err
}

func (s *SubmissionService) discard(img storage.StoredImage) {
	if err := s.images.Delete(img); err != nil {
		s.logger.Error("delete stored image failed", zap.String("path", img.Path), zap.Error(err))
	}
}

// sync posts the complaint to the registry and records the ticket id. A
// failure to record the ticket locally is reported as a sync failure.
func (s *SubmissionService) sync(ctx context.Context, user *domain.User, complaint *domain.Complaint) registry.Result[string] {
	if s.registry == nil {
		return registry.Failure[string](registry.ErrNotConfigured)
	}
	result := s.registry.PostComplaint(ctx, registry.ComplaintPayload{
		MobileNumber: user.MobileNumber,
		CategoryID:   complaint.CategoryID,
		Latitude:     complaint.Latitude,
		Longitude:    complaint.Longitude,
		Address:      complaint.Address,
		Landmark:     deref(complaint.Landmark),
		ImageURL:     complaint.ImageURL,
		Description:  deref(complaint.Description),
	})
	if !result.OK() {
		return result
	}

	oldStatus := complaint.Status
	newStatus := oldStatus
	if oldStatus == domain.ComplaintStatusPendingSync {
		newStatus = domain.ComplaintStatusSynced
	}
	if err := s.complaints.UpdateSync(ctx, complaint.ID, result.Value, newStatus); err != nil {
		return registry.Failure[string](fmt.Errorf("record ticket %s: %w", result.Value, err))
	}
	ticket := result.Value
	complaint.RegistryTicketID = &ticket
	complaint.Status = newStatus

	if newStatus != oldStatus && s.history != nil {
		entry := &domain.ComplaintHistory{
			ComplaintID: complaint.ID,
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
			Note:        "registry ticket " + ticket,
		}
		if err := s.history.Create(ctx, entry); err != nil {
			s.logger.Error("record complaint history failed", zap.Int64("complaint_id", complaint.ID), zap.Error(err))
		}
	}
	return result
}

func (s *SubmissionService) publishSubmitted(ctx context.Context, complaint *domain.Complaint, out *SubmissionOutcome) {
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:        events.EventComplaintSubmitted,
		UserID:      complaint.UserID,
		ComplaintID: complaint.ID,
		Payload: events.ComplaintSubmittedPayload{
			CategoryID: complaint.CategoryID,
			Status:     complaint.Status,
			Address:    complaint.Address,
		},
	})
	if !hasTrace(out, StateMismatchOverridden) {
		return
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:        events.EventComplaintFlagged,
		UserID:      complaint.UserID,
		ComplaintID: complaint.ID,
		Payload: events.ComplaintFlaggedPayload{
			SubmittedCategoryID: complaint.CategoryID,
			DetectedCategoryID:  out.Suggestion.ID,
			DetectedLabel:       out.Suggestion.Label,
		},
	})
}

func buildComplaint(user *domain.User, in SubmissionInput, img storage.StoredImage, out *SubmissionOutcome) *domain.Complaint {
	status := domain.ComplaintStatusPendingSync
	description := strings.TrimSpace(in.Description)
	if out.State == StateMismatchOverridden {
		status = domain.ComplaintStatusFlaggedSynced
		description = strings.TrimSpace(fmt.Sprintf(flagNoteFormat, out.Suggestion.Name) + description)
	}
	return &domain.Complaint{
		UserID:      user.ID,
		CategoryID:  in.CategoryID,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Address:     strings.TrimSpace(in.Address),
		Landmark:    optional(in.Landmark),
		ImageURL:    img.URL,
		Description: optional(description),
		Status:      status,
	}
}

func hasTrace(out *SubmissionOutcome, state SubmissionState) bool {
	for _, s := range out.Trace {
		if s == state {
			return true
		}
	}
	return false
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
