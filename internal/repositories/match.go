package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nagavel/spottube/internal/models"
	"github.com/nagavel/spottube/internal/shared"
)

// MatchRepository caches video match candidates keyed by the search query
// that produced them, so repeated conversions of the same playlist do not
// burn search quota.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new [MatchRepository] with the given database connection
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Get returns the cached candidate for a query, or false when absent.
func (r *MatchRepository) Get(query string) (*models.MatchCandidate, bool) {
	row := r.db.QueryRow(`
		SELECT video_url, title, channel_title, thumbnail_url
		FROM matches
		WHERE query = ?
	`, query)

	var candidate models.MatchCandidate
	err := row.Scan(&candidate.VideoURL, &candidate.Title, &candidate.ChannelTitle, &candidate.ThumbnailURL)
	if err != nil {
		return nil, false
	}
	return &candidate, true
}

// Put stores a candidate for a query. Duplicate queries are silently ignored
// (UNIQUE constraint violations count as already cached).
func (r *MatchRepository) Put(query string, candidate models.MatchCandidate) error {
	sequence, err := NextSequence(r.db, "matches")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now()
	_, err = r.db.Exec(`
		INSERT INTO matches (id, sequence, query, video_url, title, channel_title, thumbnail_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, shared.GenerateID(), sequence, query, candidate.VideoURL, candidate.Title,
		candidate.ChannelTitle, candidate.ThumbnailURL, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache match: %w", err)
	}

	return nil
}
