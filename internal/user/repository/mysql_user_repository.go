package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/allisson/authcore/internal/database"
	"github.com/allisson/authcore/internal/user/domain"

	apperrors "github.com/allisson/authcore/internal/errors"
)

// MySQLUserRepository handles user persistence for MySQL.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

// Create inserts a new user. MySQL's auto-increment assigns the id.
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (name, email, password, email_verified_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, NOW(), NOW())`

	result, err := querier.ExecContext(ctx, query, user.Name, user.Email, user.Password, user.EmailVerifiedAt)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get user id")
	}
	user.ID = id

	return nil
}

// GetByID retrieves a user by id.
func (r *MySQLUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, email, password, email_verified_at, created_at, updated_at
			  FROM users WHERE id = ?`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password,
		&user.EmailVerifiedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by id")
	}

	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, email, password, email_verified_at, created_at, updated_at
			  FROM users WHERE email = ?`

	err := querier.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password,
		&user.EmailVerifiedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by email")
	}

	return &user, nil
}

// Update persists changes to name, email, password and email_verified_at.
func (r *MySQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users
			  SET name = ?, email = ?, password = ?, email_verified_at = ?, updated_at = NOW()
			  WHERE id = ?`

	_, err := querier.ExecContext(
		ctx, query, user.Name, user.Email, user.Password, user.EmailVerifiedAt, user.ID,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update user")
	}

	// MySQL reports zero affected rows for no-op updates, so existence is
	// confirmed by the follow-up read.
	updated, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	user.UpdatedAt = updated.UpdatedAt

	return nil
}

// Delete removes a user. Token rows cascade at the database level.
func (r *MySQLUserRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM users WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete user")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read delete result")
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List retrieves users ordered by id, with offset/limit pagination.
func (r *MySQLUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, email, password, email_verified_at, created_at, updated_at
			  FROM users ORDER BY id LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer rows.Close() //nolint:errcheck

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Password,
			&user.EmailVerifiedAt, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user")
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate users")
	}

	return users, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint
// violation (error 1062).
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate entry")
}
