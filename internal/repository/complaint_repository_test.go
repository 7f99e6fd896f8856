package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagardrishti/complaint-service/internal/domain"
)

var complaintCols = []string{
	"id", "user_id", "category_id", "latitude", "longitude", "address", "landmark",
	"image_url", "description", "swachhata_complaint_id", "status", "created_at",
}

func TestComplaintRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewComplaintRepository(mock)
	now := time.Now()
	desc := "overflowing since Monday"

	complaint := &domain.Complaint{
		UserID:      3,
		CategoryID:  2,
		Latitude:    12.97,
		Longitude:   77.59,
		Address:     "MG Road",
		ImageURL:    "/uploads/a.jpg",
		Description: &desc,
		Status:      domain.ComplaintStatusPendingSync,
	}

	mock.ExpectQuery(`INSERT INTO complaints`).
		WithArgs(int64(3), 2, 12.97, 77.59, "MG Road", (*string)(nil), "/uploads/a.jpg", &desc, (*string)(nil), domain.ComplaintStatusPendingSync).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), now))

	require.NoError(t, repo.Create(context.Background(), complaint))
	assert.Equal(t, int64(11), complaint.ID)
	assert.Equal(t, now, complaint.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_UpdateSync(t *testing.T) {
	mock := newMockPool(t)
	repo := NewComplaintRepository(mock)

	mock.ExpectExec(`UPDATE complaints SET swachhata_complaint_id=\$1, status=\$2`).
		WithArgs("CABCDE12345", domain.ComplaintStatusSynced, int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE complaints SET swachhata_complaint_id`).
		WithArgs("CABCDE12345", domain.ComplaintStatusSynced, int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.UpdateSync(context.Background(), 11, "CABCDE12345", domain.ComplaintStatusSynced))
	assert.ErrorIs(t, repo.UpdateSync(context.Background(), 99, "CABCDE12345", domain.ComplaintStatusSynced), pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_UpdateStatus(t *testing.T) {
	mock := newMockPool(t)
	repo := NewComplaintRepository(mock)

	mock.ExpectExec(`UPDATE complaints SET status=\$1 WHERE id=\$2`).
		WithArgs(domain.ComplaintStatusResolved, int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), 5, domain.ComplaintStatusResolved))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_ListRecent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewComplaintRepository(mock)
	now := time.Now()
	ticket := "CXYZ0000001"
	landmark := "near temple"

	mock.ExpectQuery(`FROM complaints ORDER BY id DESC`).
		WillReturnRows(pgxmock.NewRows(complaintCols).
			AddRow(int64(2), int64(1), 4, 1.5, 2.5, "Ring Road", &landmark, "/uploads/b.png", nil, &ticket, domain.ComplaintStatusSynced, now).
			AddRow(int64(1), int64(1), 2, 1.0, 2.0, "MG Road", nil, "/uploads/a.png", nil, nil, domain.ComplaintStatusPendingSync, now))

	complaints, err := repo.ListRecent(context.Background())
	require.NoError(t, err)
	require.Len(t, complaints, 2)
	assert.Equal(t, int64(2), complaints[0].ID)
	assert.Equal(t, "near temple", *complaints[0].Landmark)
	assert.Equal(t, ticket, *complaints[0].RegistryTicketID)
	assert.Nil(t, complaints[1].RegistryTicketID)
	assert.Equal(t, domain.ComplaintStatusPendingSync, complaints[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_GetByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewComplaintRepository(mock)

	mock.ExpectQuery(`FROM complaints WHERE id=\$1`).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestComplaintHistoryRepository(t *testing.T) {
	mock := newMockPool(t)
	repo := NewComplaintHistoryRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO complaint_history`).
		WithArgs(int64(5), domain.ComplaintStatusPendingSync, domain.ComplaintStatusSynced, "registry ticket CA").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	mock.ExpectQuery(`FROM complaint_history WHERE complaint_id=\$1`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "complaint_id", "old_status", "new_status", "note", "created_at"}).
			AddRow(int64(1), int64(5), domain.ComplaintStatusPendingSync, domain.ComplaintStatusSynced, "registry ticket CA", now))

	entry := &domain.ComplaintHistory{
		ComplaintID: 5,
		OldStatus:   domain.ComplaintStatusPendingSync,
		NewStatus:   domain.ComplaintStatusSynced,
		Note:        "registry ticket CA",
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.Equal(t, int64(1), entry.ID)

	entries, err := repo.ListByComplaint(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ComplaintStatusSynced, entries[0].NewStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}
