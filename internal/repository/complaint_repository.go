package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nagardrishti/complaint-service/internal/domain"
)

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	UpdateSync(ctx context.Context, id int64, ticketID string, status domain.ComplaintStatus) error
	UpdateStatus(ctx context.Context, id int64, status domain.ComplaintStatus) error
	GetByID(ctx context.Context, id int64) (*domain.Complaint, error)
	ListRecent(ctx context.Context) ([]domain.Complaint, error)
}

type complaintRepository struct {
	db DBTX
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(db DBTX) ComplaintRepository {
	return &complaintRepository{db: db}
}

const complaintColumns = `id, user_id, category_id, latitude, longitude, address, landmark,
               image_url, description, swachhata_complaint_id, status, created_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (user_id, category_id, latitude, longitude, address, landmark,
            image_url, description, swachhata_complaint_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		complaint.UserID,
		complaint.CategoryID,
		complaint.Latitude,
		complaint.Longitude,
		complaint.Address,
		complaint.Landmark,
		complaint.ImageURL,
		complaint.Description,
		complaint.RegistryTicketID,
		complaint.Status,
	).Scan(&complaint.ID, &complaint.CreatedAt)
}

func (r *complaintRepository) UpdateSync(ctx context.Context, id int64, ticketID string, status domain.ComplaintStatus) error {
	const query = `
        UPDATE complaints SET swachhata_complaint_id=$1, status=$2
        WHERE id=$3`
	return execOne(ctx, r.db, query, ticketID, status, id)
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id int64, status domain.ComplaintStatus) error {
	const query = `UPDATE complaints SET status=$1 WHERE id=$2`
	return execOne(ctx, r.db, query, status, id)
}

func (r *complaintRepository) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	return scanComplaint(r.db.QueryRow(ctx, query, id))
}

func (r *complaintRepository) ListRecent(ctx context.Context) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *complaint)
	}
	return result, rows.Err()
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var c domain.Complaint
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.CategoryID,
		&c.Latitude,
		&c.Longitude,
		&c.Address,
		&c.Landmark,
		&c.ImageURL,
		&c.Description,
		&c.RegistryTicketID,
		&c.Status,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func execOne(ctx context.Context, db DBTX, query string, args ...any) error {
	cmd, err := db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
