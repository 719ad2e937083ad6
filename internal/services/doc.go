// Package services defines clients for the two external catalogs: Spotify as
// the streaming source and YouTube as the video destination.
//
// # Spotify Implementation
//
// [SpotifyService] implements [CatalogReader] over the Spotify Web API. It
// does not hold tokens itself: a [TokenProvider] (the session manager) is
// consulted once per outbound request, so background refreshes take effect on
// the very next call without restarting a batch.
//
// Playlist listings treat a missing cover image array as malformed catalog
// data and fail the call. Track listings are softer: a track without album
// artwork gets the [models.NoImage] sentinel and flows through, to be
// filtered later by the conversion pipeline.
//
// # YouTube Implementation
//
// [YouTubeService] implements [VideoSearcher] over the YouTube Data API v3
// search endpoint, authenticated with an API key rather than a user grant.
// Results come back in the API's relevance order; candidate selection is the
// caller's concern.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no token provider wired, or no live session
//   - [shared.ErrMissingCredentials] : client id, secret or API key absent
//   - [shared.ErrCatalogData] : playlist payload missing required fields
//   - [shared.ErrAPIRequest] : Spotify transport or non-2xx response
//   - [shared.ErrLookup] : YouTube search transport, quota or auth failure
package services
