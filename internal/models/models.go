// package models defines the data model for the playlist conversion service
package models

import (
	"fmt"
	"strings"
	"time"
)

// NoImage is the sentinel stored in [Track.ImageURL] when the source album
// carries no artwork. Tracks with this sentinel are treated as filtered
// artifacts and are never sent to the matcher.
const NoImage = "no image"

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
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Identity is the authenticated streaming account as shown to the user.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Account is the persisted credential record for an authenticated account.
// One row exists per email; the access token column is rewritten on every
// refresh cycle.
type Account struct {
	id           string
	sequence     int
	Email        string
	ExternalID   string
	AccessToken  string
	RefreshToken string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewAccount creates an Account ready for persistence.
func NewAccount(sequence int, email, externalID, accessToken, refreshToken string) *Account {
	now := time.Now()
	return &Account{
		sequence:     sequence,
		Email:        email,
		ExternalID:   externalID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (a *Account) ID() string           { return a.id }
func (a *Account) Sequence() int        { return a.sequence }
func (a *Account) CreatedAt() time.Time { return a.createdAt }
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }

func (a *Account) SetID(id string)          { a.id = id }
func (a *Account) SetSequence(seq int)      { a.sequence = seq }
func (a *Account) SetCreatedAt(t time.Time) { a.createdAt = t }
func (a *Account) SetUpdatedAt(t time.Time) { a.updatedAt = t }

// Validate checks required fields before persistence.
func (a *Account) Validate() error {
	if a.Email == "" {
		return fmt.Errorf("account email is required")
	}
	if a.RefreshToken == "" {
		return fmt.Errorf("account refresh token is required")
	}
	return nil
}

// PlaylistSummary is the minimal playlist shape used for selection lists.
type PlaylistSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url"`
	TrackCount int    `json:"track_count"`
}

// Track is a single playlist entry fetched from the streaming catalog.
// Immutable once fetched. Artists preserves the catalog's ordering; matching
// uses only the first entry.
type Track struct {
	Title    string   `json:"title"`
	Artists  []string `json:"artists"`
	ImageURL string   `json:"image_url"`
}

// PrimaryArtist returns the first credited artist, or "" for artist-less
// entries (podcast episodes, local files).
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// SearchQuery builds the free-text query sent to the video catalog.
func (t Track) SearchQuery() string {
	return strings.TrimSpace(t.Title + " " + t.PrimaryArtist())
}

// MatchCandidate is a single video-catalog entry selected to represent a
// streaming track.
type MatchCandidate struct {
	VideoURL     string `json:"video_url"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// RunState enumerates the lifecycle of a conversion run.
type RunState int

const (
	RunIdle RunState = iota
	RunRunning
	RunCompleted
	RunFailed
)

func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunRunning:
		return "running"
	case RunCompleted:
		return "completed"
	case RunFailed:
		return "failed"
	default:
		return ""
	}
}

// ConversionResult holds the ordered output of one pipeline run. Matches
// preserve the relative order of their source tracks; skipped and unmatched
// tracks leave no placeholder, so len(Matches) <= Total.
type ConversionResult struct {
	RunID     string           `json:"run_id"`
	State     RunState         `json:"state"`
	Matches   []MatchCandidate `json:"matches"`
	Total     int              `json:"total"`
	Skipped   int              `json:"skipped"`   // filtered before matching (no artwork)
	Unmatched int              `json:"unmatched"` // search returned zero results
	Failed    int              `json:"failed"`    // lookup errors, logged and skipped
}

// MatchRate returns the percentage of input tracks that produced a match.
func (r *ConversionResult) MatchRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(len(r.Matches)) / float64(r.Total) * 100
}
