// Spotify implementation of [CatalogReader]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nagavel/spottube/internal/models"
	"github.com/nagavel/spottube/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// spotifyScopes is the full set of scopes requested at authorization time.
var spotifyScopes = []string{
	"ugc-image-upload",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"streaming",
	"app-remote-control",
	"user-read-email",
	"user-read-private",
	"playlist-read-collaborative",
	"playlist-modify-public",
	"playlist-read-private",
	"playlist-modify-private",
	"user-library-modify",
	"user-library-read",
	"user-top-read",
	"user-read-playback-position",
	"user-read-recently-played",
	"user-follow-read",
	"user-follow-modify",
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Album   SpotifyAlbum    `json:"album"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
type SpotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// spotifyPage is the generic paginated envelope the Web API returns.
type spotifyPage[T any] struct {
	Items  []T     `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   *string `json:"next"`
}

// SpotifyService implements [CatalogReader] over the Spotify Web API.
//
// The access token is fetched from the [TokenProvider] once per outbound
// request, so a background refresh mid-batch takes effect on the next call.
type SpotifyService struct {
	config     *oauth2.Config
	provider   TokenProvider
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a Spotify catalog reader with the given OAuth2
// client credentials and token provider.
func NewSpotifyService(credentials map[string]string, provider TokenProvider) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		provider:   provider,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// OAuthConfig exposes the OAuth2 config for the session manager and the
// callback server.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// SetTokenProvider wires the token provider after construction. Used to break
// the construction cycle between the service and the session manager.
func (s *SpotifyService) SetTokenProvider(provider TokenProvider) {
	s.provider = provider
}

// doRequest performs an authenticated GET against the Spotify API, decoding
// the JSON response into result.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.provider == nil {
		return shared.ErrNotAuthenticated
	}

	token, err := s.provider.Token()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*models.Identity, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}

	return &models.Identity{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}, nil
}

// ListPlaylists retrieves all playlists for the authenticated user,
// following pagination.
//
// Every playlist is required to carry a cover image; an empty image array is
// reported as [shared.ErrCatalogData] rather than panicking downstream.
func (s *SpotifyService) ListPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	var summaries []models.PlaylistSummary
	limit := 50
	offset := 0

	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

		var page spotifyPage[SpotifySimplePlaylist]
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, pl := range page.Items {
			if len(pl.Images) == 0 {
				return nil, fmt.Errorf("%w: playlist %q has no cover images", shared.ErrCatalogData, pl.ID)
			}
			summaries = append(summaries, models.PlaylistSummary{
				ID:         pl.ID,
				Name:       pl.Name,
				ImageURL:   pl.Images[0].URL,
				TrackCount: pl.Tracks.Total,
			})
		}

		if page.Next == nil {
			break
		}
		offset += limit
	}

	return summaries, nil
}

// ListTracks retrieves every item in a playlist, following pagination.
//
// Entries without album artwork get the [models.NoImage] sentinel. Artist
// names are collected per track, preserving the catalog's order.
func (s *SpotifyService) ListTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if strings.TrimSpace(playlistID) == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	var tracks []models.Track
	limit := 100
	offset := 0

	for {
		endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", playlistID, limit, offset)

		var page spotifyPage[SpotifyPlaylistTrack]
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			track := models.Track{
				Title:    item.Track.Name,
				ImageURL: models.NoImage,
			}
			if len(item.Track.Album.Images) > 0 {
				track.ImageURL = item.Track.Album.Images[0].URL
			}
			for _, artist := range item.Track.Artists {
				track.Artists = append(track.Artists, artist.Name)
			}
			tracks = append(tracks, track)
		}

		if page.Next == nil {
			break
		}
		offset += limit
	}

	return tracks, nil
}
