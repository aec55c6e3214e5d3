// Package repository provides data persistence implementations for token records.
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

// PostgreSQLTokenRepository implements token persistence for PostgreSQL.
// Uses a bigserial primary key for atomic id generation and transaction
// support via database.GetTx().
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Create inserts a new token row. The database sequence assigns the id, so
// concurrent creations never collide. Returns ErrOwnerNotFound when owner_id
// doesn't reference an existing user.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tokens (owner_id, type, created_at, ttl, revoked)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		token.OwnerID,
		token.Type,
		token.CreatedAt,
		token.TTL,
		token.Revoked,
	).Scan(&token.ID)
	if err != nil {
		if isPostgreSQLForeignKeyViolation(err) {
			return authDomain.ErrOwnerNotFound
		}
		return apperrors.Wrap(err, "failed to create token")
	}

	return nil
}

// Get retrieves a token by id. Returns ErrTokenNotFound if the token doesn't exist.
func (p *PostgreSQLTokenRepository) Get(ctx context.Context, tokenID int64) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, type, created_at, ttl, revoked
			  FROM tokens WHERE id = $1`

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
func (p *PostgreSQLTokenRepository) GetByOwnerAndType(
	ctx context.Context,
	ownerID int64,
	tokenType authDomain.TokenType,
) ([]*authDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, type, created_at, ttl, revoked
			  FROM tokens
			  WHERE owner_id = $1 AND type = $2
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

// UpdateRevoked is a partial update restricted to the revoked flag; all other
// columns are immutable after creation. Returns ErrTokenNotFound if the token
// doesn't exist.
func (p *PostgreSQLTokenRepository) UpdateRevoked(
	ctx context.Context,
	tokenID int64,
	revoked bool,
) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tokens SET revoked = $1 WHERE id = $2
			  RETURNING id, owner_id, type, created_at, ttl, revoked`

	var token authDomain.Token

	err := querier.QueryRowContext(ctx, query, revoked, tokenID).Scan(
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
		return nil, apperrors.Wrap(err, "failed to update token")
	}

	return &token, nil
}

// Delete permanently removes a token row and returns the deleted record.
// Returns ErrTokenNotFound if the token doesn't exist.
func (p *PostgreSQLTokenRepository) Delete(ctx context.Context, tokenID int64) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM tokens WHERE id = $1
			  RETURNING id, owner_id, type, created_at, ttl, revoked`

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
		return nil, apperrors.Wrap(err, "failed to delete token")
	}

	return &token, nil
}

// DeleteExpired removes tokens whose expiry (created_at + ttl) is more than
// the given number of days before now. With dryRun it only counts the rows.
func (p *PostgreSQLTokenRepository) DeleteExpired(
	ctx context.Context,
	now time.Time,
	days int,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	cutoff := now.Unix() - int64(days)*86400

	if dryRun {
		query := `SELECT COUNT(*) FROM tokens WHERE created_at + ttl < $1`
		var count int64
		if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count expired tokens")
		}
		return count, nil
	}

	query := `DELETE FROM tokens WHERE created_at + ttl < $1`
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

// isPostgreSQLForeignKeyViolation checks if the error is a PostgreSQL foreign
// key constraint violation.
func isPostgreSQLForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}
