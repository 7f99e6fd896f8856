package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/nagardrishti/complaint-service/internal/domain"
)

// UserRepository defines persistence access for citizens.
type UserRepository interface {
	// CreateIfAbsent inserts user unless the mobile number is taken. It
	// reports false when another row already owns the number.
	CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error)
	SetRegistryID(ctx context.Context, id, registryUserID int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error) {
	const query = `
        INSERT INTO users (mobile_number, full_name, swachhata_user_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (mobile_number) DO NOTHING
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		user.MobileNumber,
		user.FullName,
		user.RegistryUserID,
	).Scan(&user.ID, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) SetRegistryID(ctx context.Context, id, registryUserID int64) error {
	const query = `
        UPDATE users SET swachhata_user_id=$1
        WHERE id=$2 AND swachhata_user_id IS NULL`

	cmd, err := r.db.Exec(ctx, query, registryUserID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT id, mobile_number, full_name, swachhata_user_id, created_at
        FROM users WHERE id=$1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	const query = `
        SELECT id, mobile_number, full_name, swachhata_user_id, created_at
        FROM users WHERE mobile_number=$1`
	return scanUser(r.db.QueryRow(ctx, query, mobile))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT id, mobile_number, full_name, swachhata_user_id, created_at
        FROM users ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.MobileNumber,
		&user.FullName,
		&user.RegistryUserID,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
