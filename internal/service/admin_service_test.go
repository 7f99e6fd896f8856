package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nagardrishti/complaint-service/internal/domain"
	"github.com/nagardrishti/complaint-service/internal/events"
	apperrors "github.com/nagardrishti/complaint-service/pkg/util"
)

func newAdminFixture() (*AdminService, *mockUserRepo, *mockComplaintRepo, *mockHistoryRepo, *recordingDispatcher) {
	users := &mockUserRepo{}
	complaints := &mockComplaintRepo{}
	history := &mockHistoryRepo{}
	dispatcher := &recordingDispatcher{}
	svc := NewAdminService(AdminDependencies{
		UserRepo:      users,
		ComplaintRepo: complaints,
		HistoryRepo:   history,
		Dispatcher:    dispatcher,
	})
	return svc, users, complaints, history, dispatcher
}

func seedDashboard(users *mockUserRepo, complaints *mockComplaintRepo) {
	ticket := "CABCDEFGH12"
	users.On("List", mock.Anything).Return([]domain.User{
		{ID: 1, FullName: "Asha Rao", MobileNumber: "9876543210"},
		{ID: 2, FullName: "Vikram Joshi", MobileNumber: "9123456780"},
	}, nil)
	complaints.On("ListRecent", mock.Anything).Return([]domain.Complaint{
		{ID: 3, UserID: 2, CategoryID: 9, Address: "Baner", Status: domain.ComplaintStatusPendingSync, CreatedAt: time.Now()},
		{ID: 2, UserID: 1, CategoryID: 2, Address: "Kothrud", Status: domain.ComplaintStatusSynced, RegistryTicketID: &ticket, CreatedAt: time.Now()},
		{ID: 1, UserID: 1, CategoryID: 42, Address: "Aundh", Status: domain.ComplaintStatusPendingSync, CreatedAt: time.Now()},
	}, nil)
}

func TestAdminDashboard(t *testing.T) {
	svc, users, complaints, _, _ := newAdminFixture()
	seedDashboard(users, complaints)

	dash, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Len(t, dash.Users, 2)
	require.Len(t, dash.Complaints, 3)
	assert.Equal(t, int64(3), dash.Complaints[0].ID)
	assert.Equal(t, "Stagnant water", dash.Complaints[0].CategoryName)
	assert.Equal(t, "Vikram Joshi", dash.Complaints[0].ReporterName)
	assert.Equal(t, "Unknown", dash.Complaints[2].CategoryName)
	assert.Equal(t, 2, dash.StatusCounts[domain.ComplaintStatusPendingSync])
	assert.Equal(t, 1, dash.StatusCounts[domain.ComplaintStatusSynced])
}

func TestAdminDashboard_Error(t *testing.T) {
	svc, users, complaints, _, _ := newAdminFixture()
	users.On("List", mock.Anything).Return(nil, errors.New("db down"))
	complaints.On("ListRecent", mock.Anything).Return([]domain.Complaint{}, nil)

	_, err := svc.Dashboard(context.Background())
	assert.Error(t, err)
}

func TestAdminResolve(t *testing.T) {
	svc, _, complaints, history, dispatcher := newAdminFixture()
	complaints.On("GetByID", mock.Anything, int64(4)).Return(&domain.Complaint{ID: 4, UserID: 1, Status: domain.ComplaintStatusFlaggedSynced}, nil)
	complaints.On("UpdateStatus", mock.Anything, int64(4), domain.ComplaintStatusResolved).Return(nil)
	history.On("Create", mock.Anything, mock.MatchedBy(func(h *domain.ComplaintHistory) bool {
		return h.OldStatus == domain.ComplaintStatusFlaggedSynced &&
			h.NewStatus == domain.ComplaintStatusResolved &&
			h.Note == "resolved by admin: bin cleared"
	})).Return(nil)

	complaint, err := svc.Resolve(context.Background(), 4, "admin", " bin cleared ")

	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusResolved, complaint.Status)
	assert.Equal(t, []events.EventType{events.EventComplaintResolved}, dispatcher.types())
	history.AssertExpectations(t)
}

func TestAdminResolve_AlreadyResolved(t *testing.T) {
	svc, _, complaints, _, _ := newAdminFixture()
	complaints.On("GetByID", mock.Anything, int64(4)).Return(&domain.Complaint{ID: 4, Status: domain.ComplaintStatusResolved}, nil)

	_, err := svc.Resolve(context.Background(), 4, "admin", "")

	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
	complaints.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminResolve_NotFound(t *testing.T) {
	svc, _, complaints, _, _ := newAdminFixture()
	complaints.On("GetByID", mock.Anything, int64(99)).Return(nil, pgx.ErrNoRows)

	_, err := svc.Resolve(context.Background(), 99, "admin", "")

	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestAdminComplaintDetail(t *testing.T) {
	svc, users, complaints, history, _ := newAdminFixture()
	complaints.On("GetByID", mock.Anything, int64(2)).Return(&domain.Complaint{ID: 2, UserID: 1, CategoryID: 2}, nil)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, FullName: "Asha Rao", MobileNumber: "9876543210"}, nil)
	history.On("ListByComplaint", mock.Anything, int64(2)).Return([]domain.ComplaintHistory{
		{ID: 1, ComplaintID: 2, OldStatus: domain.ComplaintStatusPendingSync, NewStatus: domain.ComplaintStatusSynced},
	}, nil)

	detail, err := svc.Complaint(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, "Dustbins not cleaned", detail.CategoryName)
	assert.Equal(t, "9876543210", detail.Mobile)
	assert.Len(t, detail.History, 1)
}

func TestAdminExportXLSX(t *testing.T) {
	svc, users, complaints, _, _ := newAdminFixture()
	seedDashboard(users, complaints)

	data, err := svc.ExportXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, exportHeaders[:3], rows[0][:3])
	assert.Equal(t, "3", rows[1][0])
	assert.Equal(t, "Stagnant water", rows[1][3])
	assert.Equal(t, "CABCDEFGH12", rows[2][11])
}
