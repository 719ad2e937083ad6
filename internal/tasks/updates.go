package tasks

import (
	"fmt"

	"github.com/nagavel/spottube/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylist Phase = iota
	FetchTracks
	SearchVideos
	Summarize
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylist:
		return "fetch_playlist"
	case FetchTracks:
		return "fetch_tracks"
	case SearchVideos:
		return "search_videos"
	case Summarize:
		return "summarize"
	default:
		return ""
	}
}

func fetchingPlaylistUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    step,
		Total:   total,
		Message: "Fetching playlist from Spotify...",
	}
}

func fetchedTracksUpdate(step, total int, tracks []models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetched %d tracks", len(tracks)),
		Data:    tracks,
	}
}

func searchVideosUpdate(step, total int, track *models.Track) ProgressUpdate {
	update := ProgressUpdate{
		Phase:   SearchVideos,
		Step:    step,
		Total:   total,
		Message: "Searching YouTube for matches...",
	}

	if track != nil {
		update.Message = fmt.Sprintf("Searching: %s", track.SearchQuery())
		update.Data = track
	}
	return update
}

func skippedTrackUpdate(step, total int, track *models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Skipping (no artwork): %s", track.Title),
		Data:    track,
	}
}

func summaryUpdate(result *models.ConversionResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Summarize,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Matched %d of %d tracks", len(result.Matches), result.Total),
		Data:    result,
	}
}
