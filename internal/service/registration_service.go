package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/nagardrishti/complaint-service/internal/domain"
	"github.com/nagardrishti/complaint-service/internal/events"
	"github.com/nagardrishti/complaint-service/internal/registry"
	"github.com/nagardrishti/complaint-service/internal/repository"
	apperrors "github.com/nagardrishti/complaint-service/pkg/util"
)

// RegistrationService signs citizens up by mobile number.
type RegistrationService struct {
	users      repository.UserRepository
	registry   registry.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// RegistrationDependencies bundles collaborators for RegistrationService.
type RegistrationDependencies struct {
	UserRepo   repository.UserRepository
	Registry   registry.Client
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegistrationOutcome describes what Register did. Existing is set when the
// mobile number was already known; Registry is only meaningful for new users.
type RegistrationOutcome struct {
	User     *domain.User
	Existing bool
	Registry registry.Result[int64]
}

// NewRegistrationService constructs the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		users:      deps.UserRepo,
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Register returns the existing user for mobile, or creates one and tries to
// register it with the external registry. A registry failure still leaves
// the local user in place.
func (s *RegistrationService) Register(ctx context.Context, fullName, mobile string) (*RegistrationOutcome, error) {
	mobile, err := NormalizeMobile(mobile)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetByMobile(ctx, mobile)
	switch {
	case err == nil:
		return &RegistrationOutcome{User: existing, Existing: true}, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, apperrors.NewValidationError("full name is required", map[string]any{"field": "full_name"})
	}
	user := &domain.User{MobileNumber: mobile, FullName: fullName}
	created, err := s.users.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if !created {
		// lost a race with a concurrent registration for the same number
		existing, err := s.users.GetByMobile(ctx, mobile)
		if err != nil {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		return &RegistrationOutcome{User: existing, Existing: true}, nil
	}

	result := s.registerExternally(ctx, user)
	if result.OK() {
		if err := s.users.SetRegistryID(ctx, user.ID, result.Value); err != nil {
			s.logger.Error("store registry user id failed",
				zap.Int64("user_id", user.ID),
				zap.Int64("registry_user_id", result.Value),
				zap.Error(err))
		} else {
			id := result.Value
			user.RegistryUserID = &id
		}
	} else {
		s.logger.Warn("registry registration failed",
			zap.Int64("user_id", user.ID),
			zap.String("reason", result.Reason()))
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Payload: events.UserRegisteredPayload{
			MobileNumber:   user.MobileNumber,
			RegistryUserID: user.RegistryUserID,
			RegistryError:  result.Reason(),
		},
	})

	return &RegistrationOutcome{User: user, Registry: result}, nil
}

func (s *RegistrationService) registerExternally(ctx context.Context, user *domain.User) registry.Result[int64] {
	if s.registry == nil {
		return registry.Failure[int64](registry.ErrNotConfigured)
	}
	return s.registry.RegisterUser(ctx, user.FullName, user.MobileNumber)
}
