package postgres

import (
	"context"
	"database/sql"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{
		db,
	}
}

const userColumns = `user_id, username, email, password_hash, COALESCE(phone, ''), is_driver, is_admin, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.IsDriver,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `INSERT INTO users (user_id, username, email, password_hash, phone, is_driver, is_admin)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		RETURNING user_id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.UserID, user.Username, user.Email, user.PasswordHash, user.Phone, user.IsDriver, user.IsAdmin,
	).Scan(
		&user.UserID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23502":
				return nil, domain.NewError(domain.KindValidationFailed, "required field is missing")
			case "23505":
				return nil, domain.NewError(domain.KindValidationFailed, "username or email already taken")
			}
		}
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to create user")
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get user")
	}
	return user, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get user")
	}
	return user, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list users")
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, domain.WrapError(domain.KindPersistence, err, "failed to scan user")
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list users")
	}
	return users, nil
}

// DeleteUser removes the user together with their rides and loyalty
// record. The schema cascades both foreign keys.
func (r *UserRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM users WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return domain.WrapError(domain.KindPersistence, err, "failed to delete user")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.WrapError(domain.KindPersistence, err, "failed to delete user")
	}
	if rowsAffected == 0 {
		return domain.NewError(domain.KindNotFound, "user not found")
	}
	return nil
}

func (r *UserRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, domain.WrapError(domain.KindPersistence, err, "failed to count users")
	}
	return count, nil
}
