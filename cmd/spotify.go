package main

import (
	"context"

	"github.com/nagavel/spottube/internal/models"
	"github.com/nagavel/spottube/internal/shared"
	"github.com/urfave/cli/v3"
)

// SpotifyPlaylists lists the authenticated account's playlists.
func (r *Runner) SpotifyPlaylists(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	sess, accounts, err := r.buildSession(db)
	if err != nil {
		return err
	}

	if err := r.resumeSession(ctx, sess, accounts, cmd.String("account")); err != nil {
		return err
	}

	playlists, err := r.spotify.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Spotify Playlists")
	for i, pl := range playlists {
		r.writePlain("%d. %s (%d tracks)\n", i+1, pl.Name, pl.TrackCount)
		r.writePlain("   ID: %s\n", pl.ID)
	}

	return nil
}

// SpotifyTracks lists the tracks of one playlist.
func (r *Runner) SpotifyTracks(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist")
	if playlistID == "" {
		return shared.ErrMissingArgument
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	sess, accounts, err := r.buildSession(db)
	if err != nil {
		return err
	}

	if err := r.resumeSession(ctx, sess, accounts, cmd.String("account")); err != nil {
		return err
	}

	tracks, err := r.spotify.ListTracks(ctx, playlistID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Playlist Tracks")
	for i, track := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.PrimaryArtist(), track.Title)
		if track.ImageURL == models.NoImage {
			r.writePlain("   (no artwork)\n")
		}
	}

	return nil
}
