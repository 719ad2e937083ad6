// package tasks implements track matching and playlist conversion.
//
// The core abstractions are [TrackMatcher], which resolves a single track to
// its best YouTube candidate, and [ConvertEngine], which walks a playlist and
// collects matches. Operations emit progress updates via channels for
// non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nagavel/spottube/internal/models"
	"github.com/nagavel/spottube/internal/services"
	"github.com/nagavel/spottube/internal/shared"
)

// searchTimeout bounds a single video lookup. A lookup that exceeds it fails
// that track only.
const searchTimeout = 10 * time.Second

// MatchPolicy selects one candidate from a non-empty result page, or nil to
// decline them all.
type MatchPolicy interface {
	Select(query string, candidates []models.MatchCandidate) *models.MatchCandidate
}

// FirstResultPolicy takes the first candidate the search returns, trusting
// provider relevance ranking. This overmatches on ambiguous titles; a ranked
// policy can replace it without touching the engine.
type FirstResultPolicy struct{}

func (FirstResultPolicy) Select(query string, candidates []models.MatchCandidate) *models.MatchCandidate {
	if len(candidates) == 0 {
		return nil
	}
	return &candidates[0]
}

// MatchCache is an optional read-through cache keyed by search query.
type MatchCache interface {
	Get(query string) (*models.MatchCandidate, bool)
	Put(query string, candidate models.MatchCandidate) error
}

// TrackMatcher resolves tracks to video candidates.
//
// A nil candidate with a nil error means no match: the query ran and the
// catalog had nothing acceptable. Errors are reserved for lookup failures.
type TrackMatcher interface {
	MatchTrack(ctx context.Context, track models.Track) (*models.MatchCandidate, error)
	MatchQuery(ctx context.Context, query string) (*models.MatchCandidate, error)
}

// Matcher implements TrackMatcher over a video search backend.
type Matcher struct {
	searcher services.VideoSearcher
	policy   MatchPolicy
	cache    MatchCache
	logger   *log.Logger
}

// NewMatcher creates a Matcher with the given search backend and selection
// policy. The cache is optional; pass nil to search every query.
func NewMatcher(searcher services.VideoSearcher, policy MatchPolicy, cache MatchCache, logger *log.Logger) *Matcher {
	if policy == nil {
		policy = FirstResultPolicy{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Matcher{
		searcher: searcher,
		policy:   policy,
		cache:    cache,
		logger:   logger,
	}
}

// MatchTrack resolves a track via its derived search query.
func (m *Matcher) MatchTrack(ctx context.Context, track models.Track) (*models.MatchCandidate, error) {
	return m.MatchQuery(ctx, track.SearchQuery())
}

// MatchQuery searches for the query and applies the selection policy.
// Each lookup gets its own deadline; a timeout surfaces as [shared.ErrLookup].
func (m *Matcher) MatchQuery(ctx context.Context, query string) (*models.MatchCandidate, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidArgument)
	}

	if m.cache != nil {
		if candidate, ok := m.cache.Get(query); ok {
			return candidate, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	candidates, err := m.searcher.Search(ctx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: search timed out for %q", shared.ErrLookup, query)
		}
		return nil, err
	}

	candidate := m.policy.Select(query, candidates)
	if candidate == nil {
		return nil, nil
	}

	if m.cache != nil {
		if err := m.cache.Put(query, *candidate); err != nil {
			m.logger.Warn("match cache write failed", "query", query, "error", err)
		}
	}
	return candidate, nil
}

// Engine defines playlist conversion operations.
type Engine interface {
	// ConvertPlaylist fetches a playlist's tracks and matches each against
	// the video catalog, collecting matched candidates in playlist order.
	ConvertPlaylist(ctx context.Context, progress chan<- ProgressUpdate, playlistID string) (*models.ConversionResult, error)

	// ConvertQuery matches a single free-text query.
	ConvertQuery(ctx context.Context, query string) (*models.MatchCandidate, error)
}

// ConvertEngine implements Engine over a catalog reader and a track matcher.
type ConvertEngine struct {
	catalog services.CatalogReader
	matcher TrackMatcher
	logger  *log.Logger
}

// NewConvertEngine creates a ConvertEngine with the provided collaborators.
func NewConvertEngine(catalog services.CatalogReader, matcher TrackMatcher, logger *log.Logger) *ConvertEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ConvertEngine{
		catalog: catalog,
		matcher: matcher,
		logger:  logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls the run.
func (e *ConvertEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ConvertPlaylist walks the playlist's tracks in order, skipping tracks
// without artwork, and matches the rest one at a time.
//
// A failed lookup loses that track only; the run continues and the failure
// is counted on the result. The returned result's Matches preserve source
// ordering with non-matches removed.
func (e *ConvertEngine) ConvertPlaylist(ctx context.Context, progress chan<- ProgressUpdate, playlistID string) (*models.ConversionResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog reader not initialized", shared.ErrServiceUnavailable)
	}
	if e.matcher == nil {
		return nil, fmt.Errorf("%w: track matcher not initialized", shared.ErrServiceUnavailable)
	}

	result := &models.ConversionResult{
		RunID: shared.GenerateID(),
		State: models.RunRunning,
	}

	e.sendProgress(progress, fetchingPlaylistUpdate(1, 1))

	tracks, err := e.catalog.ListTracks(ctx, playlistID)
	if err != nil {
		result.State = models.RunFailed
		return nil, fmt.Errorf("failed to list playlist tracks: %w", err)
	}

	total := len(tracks)
	result.Total = total
	result.Matches = make([]models.MatchCandidate, 0, total)

	e.sendProgress(progress, fetchedTracksUpdate(1, 1, tracks))

	for i, track := range tracks {
		if track.ImageURL == models.NoImage {
			result.Skipped++
			e.sendProgress(progress, skippedTrackUpdate(i+1, total, &track))
			continue
		}

		e.sendProgress(progress, searchVideosUpdate(i+1, total, &track))

		candidate, err := e.matcher.MatchTrack(ctx, track)
		if err != nil {
			result.Failed++
			e.logger.Warn("track lookup failed", "run", result.RunID, "track", track.Title, "error", err)
			continue
		}
		if candidate == nil {
			result.Unmatched++
			continue
		}

		result.Matches = append(result.Matches, *candidate)
	}

	result.State = models.RunCompleted
	e.sendProgress(progress, summaryUpdate(result))

	return result, nil
}

// ConvertQuery matches a single free-text query outside any playlist run.
func (e *ConvertEngine) ConvertQuery(ctx context.Context, query string) (*models.MatchCandidate, error) {
	if e.matcher == nil {
		return nil, fmt.Errorf("%w: track matcher not initialized", shared.ErrServiceUnavailable)
	}
	return e.matcher.MatchQuery(ctx, query)
}
