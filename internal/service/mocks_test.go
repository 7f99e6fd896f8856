package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nagardrishti/complaint-service/internal/domain"
	"github.com/nagardrishti/complaint-service/internal/events"
	"github.com/nagardrishti/complaint-service/internal/registry"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) SetRegistryID(ctx context.Context, id, registryUserID int64) error {
	return m.Called(ctx, id, registryUserID).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	args := m.Called(ctx, mobile)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

type mockComplaintRepo struct{ mock.Mock }

func (m *mockComplaintRepo) Create(ctx context.Context, complaint *domain.Complaint) error {
	return m.Called(ctx, complaint).Error(0)
}

func (m *mockComplaintRepo) UpdateSync(ctx context.Context, id int64, ticketID string, status domain.ComplaintStatus) error {
	return m.Called(ctx, id, ticketID, status).Error(0)
}

func (m *mockComplaintRepo) UpdateStatus(ctx context.Context, id int64, status domain.ComplaintStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockComplaintRepo) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	args := m.Called(ctx, id)
	complaint, _ := args.Get(0).(*domain.Complaint)
	return complaint, args.Error(1)
}

func (m *mockComplaintRepo) ListRecent(ctx context.Context) ([]domain.Complaint, error) {
	args := m.Called(ctx)
	complaints, _ := args.Get(0).([]domain.Complaint)
	return complaints, args.Error(1)
}

type mockHistoryRepo struct{ mock.Mock }

func (m *mockHistoryRepo) Create(ctx context.Context, history *domain.ComplaintHistory) error {
	return m.Called(ctx, history).Error(0)
}

func (m *mockHistoryRepo) ListByComplaint(ctx context.Context, complaintID int64) ([]domain.ComplaintHistory, error) {
	args := m.Called(ctx, complaintID)
	history, _ := args.Get(0).([]domain.ComplaintHistory)
	return history, args.Error(1)
}

type mockRegistry struct{ mock.Mock }

func (m *mockRegistry) RegisterUser(ctx context.Context, fullName, mobileNumber string) registry.Result[int64] {
	return m.Called(ctx, fullName, mobileNumber).Get(0).(registry.Result[int64])
}

func (m *mockRegistry) PostComplaint(ctx context.Context, payload registry.ComplaintPayload) registry.Result[string] {
	return m.Called(ctx, payload).Get(0).(registry.Result[string])
}

// recordingDispatcher keeps published events in order.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}
