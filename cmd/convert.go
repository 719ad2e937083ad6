package main

import (
	"context"

	"github.com/nagavel/spottube/internal/repositories"
	"github.com/nagavel/spottube/internal/shared"
	"github.com/nagavel/spottube/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ConvertRun matches every track in a playlist against YouTube.
func (r *Runner) ConvertRun(ctx context.Context, cmd *cli.Command) error {
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

	// The refresh cycle keeps the access token live through long runs.
	if err := sess.StartRefreshCycle(); err != nil {
		return err
	}
	defer sess.Stop()

	searcher, err := r.newSearcher(ctx)
	if err != nil {
		return err
	}

	var cache tasks.MatchCache
	if !cmd.Bool("no-cache") {
		cache = repositories.NewMatchRepository(db)
	}

	matcher := tasks.NewMatcher(searcher, tasks.FirstResultPolicy{}, cache, r.logger)
	engine := tasks.NewConvertEngine(r.spotify, matcher, r.logger)

	r.logger.Info("starting conversion", "playlist", playlistID)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPlaylist, tasks.FetchTracks:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SearchVideos:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := engine.ConvertPlaylist(ctx, progressCh, playlistID)
	close(progressCh)

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Conversion Complete!")
	r.writePlain("Run: %s\n", result.RunID)
	r.writePlain("Matched: %d/%d (%.1f%%)\n", len(result.Matches), result.Total, result.MatchRate())
	if result.Skipped > 0 {
		r.writePlain("Skipped (no artwork): %d\n", result.Skipped)
	}
	if result.Unmatched > 0 {
		r.writePlain("No match found: %d\n", result.Unmatched)
	}
	if result.Failed > 0 {
		r.writePlain("Lookup failures: %d\n", result.Failed)
	}

	r.writePlain("\n")
	for i, match := range result.Matches {
		r.writePlain("%d. %s\n", i+1, match.Title)
		r.writePlain("   %s\n", match.VideoURL)
	}

	return nil
}

// ConvertMatch resolves a single free-text query.
func (r *Runner) ConvertMatch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return shared.ErrMissingArgument
	}

	searcher, err := r.newSearcher(ctx)
	if err != nil {
		return err
	}

	matcher := tasks.NewMatcher(searcher, tasks.FirstResultPolicy{}, nil, r.logger)
	engine := tasks.NewConvertEngine(nil, matcher, r.logger)

	candidate, err := engine.ConvertQuery(ctx, query)
	if err != nil {
		return err
	}

	if candidate == nil {
		return r.writePlain("No match found for %q\n", query)
	}

	if cmd.Bool("json") {
		return r.writeJSON(candidate, true)
	}

	r.writePlain("%s\n", candidate.Title)
	r.writePlain("Channel: %s\n", candidate.ChannelTitle)
	r.writePlain("%s\n", candidate.VideoURL)
	return nil
}
