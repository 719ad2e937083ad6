package services

import (
	"context"

	"github.com/nagavel/spottube/internal/models"
	"golang.org/x/oauth2"
)

// TokenProvider supplies the current access token for an outbound call.
//
// Implementations must return the freshest token on every call: the refresh
// cycle can swap the token mid-batch, so callers fetch per request and never
// cache a token across a multi-call operation.
type TokenProvider interface {
	Token() (*oauth2.Token, error)
}

// CatalogReader wraps the streaming service's read operations behind a
// stable shape.
type CatalogReader interface {
	// UserProfile retrieves the authenticated account's identity.
	UserProfile(ctx context.Context) (*models.Identity, error)

	// ListPlaylists fetches all playlists owned by the account. Every
	// playlist must carry at least one cover image; a missing image array is
	// a malformed-data condition.
	ListPlaylists(ctx context.Context) ([]models.PlaylistSummary, error)

	// ListTracks fetches every item in a playlist. Entries without album
	// artwork get the [models.NoImage] sentinel rather than an error.
	ListTracks(ctx context.Context, playlistID string) ([]models.Track, error)
}

// VideoSearcher issues a search against the video catalog and returns
// candidates in the catalog's relevance order.
type VideoSearcher interface {
	Search(ctx context.Context, query string) ([]models.MatchCandidate, error)
}
