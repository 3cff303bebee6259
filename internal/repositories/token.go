package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/shared"
)

// ErrTokenNotFound is returned when no stored token matches a lookup.
var ErrTokenNotFound = errors.New("token not found")

// TokenRepository implements [models.Repository] for [models.StoredToken] persistence.
type TokenRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.StoredToken] = (*TokenRepository)(nil)

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

const tokenColumns = `id, sequence, access_token, expires_at, source, created_at, updated_at, deleted_at`

// Create inserts a token with a generated ID and sequence
func (r *TokenRepository) Create(token *models.StoredToken) error {
	if err := token.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "tokens")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	token.SetID(id)
	token.SetSequence(sequence)

	query := `
		INSERT INTO tokens (id, sequence, access_token, expires_at, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, token.AccessToken(), token.ExpiresAt(), token.Source(), token.CreatedAt(), token.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}

	return nil
}

// Get retrieves a token by ID, excluding soft-deleted tokens
func (r *TokenRepository) Get(id string) (*models.StoredToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE id = ? AND deleted_at IS NULL`

	token, err := scanToken(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}
	return token, nil
}

// Latest returns the most recently stored token, expired or not.
func (r *TokenRepository) Latest() (*models.StoredToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT 1`

	token, err := scanToken(r.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}
	return token, nil
}

// LatestUsable returns the most recently stored token that has not expired at now.
func (r *TokenRepository) LatestUsable(now time.Time) (*models.StoredToken, error) {
	query := `
		SELECT ` + tokenColumns + ` FROM tokens
		WHERE deleted_at IS NULL AND expires_at > ?
		ORDER BY sequence DESC LIMIT 1
	`

	token, err := scanToken(r.db.QueryRow(query, now.UTC()))
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}
	return token, nil
}

// Delete soft-deletes a token by ID
func (r *TokenRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE tokens SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w or already deleted: %s", ErrTokenNotFound, id)
	}

	return nil
}

// DeleteAll soft-deletes every stored token and returns how many were removed.
func (r *TokenRepository) DeleteAll() (int64, error) {
	result, err := r.db.Exec(`UPDATE tokens SET deleted_at = ? WHERE deleted_at IS NULL`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete tokens: %w", err)
	}
	return result.RowsAffected()
}

// List retrieves tokens matching the given criteria, newest first, excluding soft-deleted tokens.
//
// Supported criteria: "source" (string) and "usable_at" (time.Time).
func (r *TokenRepository) List(criteria map[string]any) ([]*models.StoredToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE deleted_at IS NULL`
	args := []any{}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}
	if at, ok := criteria["usable_at"].(time.Time); ok {
		query += " AND expires_at > ?"
		args = append(args, at.UTC())
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*models.StoredToken
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tokens, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanToken(s scanner) (*models.StoredToken, error) {
	var (
		id          string
		sequence    int
		accessToken string
		expiresAt   time.Time
		source      string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	if err := s.Scan(&id, &sequence, &accessToken, &expiresAt, &source, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}
	return models.RestoreStoredToken(id, sequence, accessToken, expiresAt, source, createdAt, updatedAt, deleted), nil
}
