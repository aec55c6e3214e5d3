package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	authDomain "github.com/allisson/authcore/internal/auth/domain"
	"github.com/allisson/authcore/internal/database"
	apperrors "github.com/allisson/authcore/internal/errors"
)

// MySQLTokenRepository implements token persistence for MySQL.
// Uses an auto-increment primary key for atomic id generation and transaction
// support via database.GetTx().
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// Create inserts a new token row. MySQL's auto-increment assigns the id.
// Returns ErrOwnerNotFound when owner_id doesn't reference an existing user.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens (owner_id, type, created_at, ttl, revoked)
			  VALUES (?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		token.OwnerID,
		token.Type,
		token.CreatedAt,
		token.TTL,
		token.Revoked,
	)
	if err != nil {
		if isMySQLForeignKeyViolation(err) {
			return authDomain.ErrOwnerNotFound
		}
		return apperrors.Wrap(err, "failed to create token")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get token id")
	}
	token.ID = id

	return nil
}

// Get retrieves a token by id. Returns ErrTokenNotFound if the token doesn't exist.
func (m *MySQLTokenRepository) Get(ctx context.Context, tokenID int64) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, type, created_at, ttl, revoked
			  FROM tokens WHERE id = ?`

	var token authDomain.Token

	err := querier.QueryRowContext(ctx, query, tokenID).Scan(
		&token.ID,
		&token.OwnerID,
		&token.Type,
		&token.CreatedAt,
		&token.TTL,
		&token.Revoked,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}

	return &token, nil
}

// GetByOwnerAndType lists tokens of one type belonging to an owner, newest first.
func (m *MySQLTokenRepository) GetByOwnerAndType(
	ctx context.Context,
	ownerID int64,
	tokenType authDomain.TokenType,
) ([]*authDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, type, created_at, ttl, revoked
			  FROM tokens
			  WHERE owner_id = ? AND type = ?
			  ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, ownerID, tokenType)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tokens by owner and type")
	}
	defer rows.Close() //nolint:errcheck

	var tokens []*authDomain.Token
	for rows.Next() {
		var token authDomain.Token
		err := rows.Scan(
			&token.ID,
			&token.OwnerID,
			&token.Type,
			&token.CreatedAt,
			&token.TTL,
			&token.Revoked,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan token")
		}
		tokens = append(tokens, &token)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tokens")
	}

	return tokens, nil
}

// UpdateRevoked is a partial update restricted to the revoked flag.
// Returns ErrTokenNotFound if the token doesn't exist.
func (m *MySQLTokenRepository) UpdateRevoked(
	ctx context.Context,
	tokenID int64,
	revoked bool,
) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE tokens SET revoked = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, revoked, tokenID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to update token")
	}

	// MySQL reports zero affected rows both for missing ids and no-op updates,
	// so existence is confirmed by the follow-up read.
	if _, err := result.RowsAffected(); err != nil {
		return nil, apperrors.Wrap(err, "failed to read update result")
	}

	return m.Get(ctx, tokenID)
}

// Delete permanently removes a token row and returns the deleted record.
// Returns ErrTokenNotFound if the token doesn't exist.
func (m *MySQLTokenRepository) Delete(ctx context.Context, tokenID int64) (*authDomain.Token, error) {
	token, err := m.Get(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM tokens WHERE id = ?`
	if _, err := querier.ExecContext(ctx, query, tokenID); err != nil {
		return nil, apperrors.Wrap(err, "failed to delete token")
	}

	return token, nil
}

// DeleteExpired removes tokens whose expiry (created_at + ttl) is more than
// the given number of days before now. With dryRun it only counts the rows.
func (m *MySQLTokenRepository) DeleteExpired(
	ctx context.Context,
	now time.Time,
	days int,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	cutoff := now.Unix() - int64(days)*86400

	if dryRun {
		query := `SELECT COUNT(*) FROM tokens WHERE created_at + ttl < ?`
		var count int64
		if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count expired tokens")
		}
		return count, nil
	}

	query := `DELETE FROM tokens WHERE created_at + ttl < ?`
	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted tokens")
	}

	return count, nil
}

// isMySQLForeignKeyViolation checks if the error is a MySQL foreign key
// constraint violation (error 1452).
func isMySQLForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint fails")
}
