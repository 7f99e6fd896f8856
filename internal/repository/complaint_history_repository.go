package repository

import (
	"context"

	"github.com/nagardrishti/complaint-service/internal/domain"
)

// ComplaintHistoryRepository stores status transition audit entries.
type ComplaintHistoryRepository interface {
	Create(ctx context.Context, history *domain.ComplaintHistory) error
	ListByComplaint(ctx context.Context, complaintID int64) ([]domain.ComplaintHistory, error)
}

type complaintHistoryRepository struct {
	db DBTX
}

// NewComplaintHistoryRepository builds repository.
func NewComplaintHistoryRepository(db DBTX) ComplaintHistoryRepository {
	return &complaintHistoryRepository{db: db}
}

func (r *complaintHistoryRepository) Create(ctx context.Context, history *domain.ComplaintHistory) error {
	const query = `
        INSERT INTO complaint_history (complaint_id, old_status, new_status, note)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		history.ComplaintID,
		history.OldStatus,
		history.NewStatus,
		history.Note,
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *complaintHistoryRepository) ListByComplaint(ctx context.Context, complaintID int64) ([]domain.ComplaintHistory, error) {
	const query = `
        SELECT id, complaint_id, old_status, new_status, note, created_at
        FROM complaint_history WHERE complaint_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ComplaintHistory
	for rows.Next() {
		var history domain.ComplaintHistory
		if err := rows.Scan(
			&history.ID,
			&history.ComplaintID,
			&history.OldStatus,
			&history.NewStatus,
			&history.Note,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
