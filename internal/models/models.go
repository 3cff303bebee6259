// package models defines the data model for the catalog client
package models

import (
	"errors"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Track represents a track flattened for display and export.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration"` // Duration in seconds
	ISRC     string `json:"isrc,omitempty"`
	Position int    `json:"position"` // 1-based
}

// Collection is an ordered list of tracks under a heading.
type Collection struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"` // playlist, album or artist
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Owner       string  `json:"owner,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Public      bool    `json:"public"`
	Tracks      []Track `json:"tracks"`
}

// Duration returns the summed duration of every track, in seconds.
func (c *Collection) Duration() int {
	total := 0
	for _, t := range c.Tracks {
		total += t.Duration
	}
	return total
}

var (
	ErrMissingToken  = errors.New("access token is required")
	ErrMissingExpiry = errors.New("expiry is required")
)

// StoredToken is an access token persisted between runs.
type StoredToken struct {
	id          string
	sequence    int
	accessToken string
	expiresAt   time.Time
	source      string
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

var _ Model = (*StoredToken)(nil)

// NewStoredToken creates an unsaved token. source records where it came from (e.g. the token URL).
func NewStoredToken(accessToken string, expiresAt time.Time, source string) *StoredToken {
	now := time.Now().UTC()
	return &StoredToken{
		accessToken: accessToken,
		expiresAt:   expiresAt.UTC(),
		source:      source,
		createdAt:   now,
		updatedAt:   now,
	}
}

// RestoreStoredToken rebuilds a token read from the database.
func RestoreStoredToken(id string, sequence int, accessToken string, expiresAt time.Time, source string, createdAt, updatedAt time.Time, deletedAt *time.Time) *StoredToken {
	return &StoredToken{
		id:          id,
		sequence:    sequence,
		accessToken: accessToken,
		expiresAt:   expiresAt,
		source:      source,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		deletedAt:   deletedAt,
	}
}

func (t *StoredToken) ID() string            { return t.id }
func (t *StoredToken) SetID(id string)       { t.id = id }
func (t *StoredToken) Sequence() int         { return t.sequence }
func (t *StoredToken) SetSequence(seq int)   { t.sequence = seq }
func (t *StoredToken) AccessToken() string   { return t.accessToken }
func (t *StoredToken) ExpiresAt() time.Time  { return t.expiresAt }
func (t *StoredToken) Source() string        { return t.source }
func (t *StoredToken) CreatedAt() time.Time  { return t.createdAt }
func (t *StoredToken) UpdatedAt() time.Time  { return t.updatedAt }
func (t *StoredToken) DeletedAt() *time.Time { return t.deletedAt }
func (t *StoredToken) IsDeleted() bool       { return t.deletedAt != nil }

// Usable reports whether the token has not expired at now.
func (t *StoredToken) Usable(now time.Time) bool {
	return !t.IsDeleted() && now.Before(t.expiresAt)
}

// Validate checks the required fields.
func (t *StoredToken) Validate() error {
	if t.accessToken == "" {
		return ErrMissingToken
	}
	if t.expiresAt.IsZero() {
		return ErrMissingExpiry
	}
	return nil
}
