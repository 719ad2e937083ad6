package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/nagavel/spottube/internal/repositories"
	"github.com/nagavel/spottube/internal/services"
	"github.com/nagavel/spottube/internal/session"
	"github.com/nagavel/spottube/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	spotify *services.SpotifyService
	logger  *log.Logger
	output  io.Writer

	// newSearcher builds the video search backend, swappable in tests.
	newSearcher func(ctx context.Context) (services.VideoSearcher, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	Spotify     *services.SpotifyService
	Logger      *log.Logger
	Output      io.Writer
	NewSearcher func(ctx context.Context) (services.VideoSearcher, error)
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:      opts.Config,
		spotify:     opts.Spotify,
		logger:      opts.Logger,
		output:      opts.Output,
		newSearcher: opts.NewSearcher,
	}

	if r.newSearcher == nil {
		r.newSearcher = func(ctx context.Context) (services.VideoSearcher, error) {
			return services.NewYouTubeService(ctx, r.config.Credentials.YouTube.APIKey)
		}
	}

	return r
}

// applyConfigFlag reloads configuration from an explicit --config path,
// replacing whatever main loaded at startup. The Spotify service is rebuilt
// so the new client credentials take effect too.
func (r *Runner) applyConfigFlag(cmd *cli.Command) error {
	if !cmd.IsSet("config") {
		return nil
	}

	config, err := shared.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	r.config = config

	creds := config.Credentials.Spotify
	if creds.ClientID != "" && creds.ClientSecret != "" {
		svc, err := services.NewSpotifyService(creds.Map(), nil)
		if err != nil {
			return err
		}
		r.spotify = svc
	}

	return nil
}

// openDatabase opens the configured SQLite database with pool settings applied.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// buildSession constructs a session over the account store and wires it to
// the Spotify service in both directions, as its token provider and its
// profile source.
func (r *Runner) buildSession(db *sql.DB) (*session.Session, *repositories.AccountRepository, error) {
	if r.spotify == nil {
		return nil, nil, fmt.Errorf("%w: Spotify credentials not configured", shared.ErrServiceUnavailable)
	}

	accounts := repositories.NewAccountRepository(db)
	sess := session.New(r.spotify.OAuthConfig(), accounts, r.logger)
	sess.SetProfiler(r.spotify)
	r.spotify.SetTokenProvider(sess)

	return sess, accounts, nil
}

// resumeSession restores a persisted session, preferring the --account flag
// and falling back to the only stored account.
func (r *Runner) resumeSession(ctx context.Context, sess *session.Session, accounts *repositories.AccountRepository, email string) error {
	if email == "" {
		stored, err := accounts.List(nil)
		if err != nil {
			return err
		}
		if len(stored) == 0 {
			return fmt.Errorf("%w: no stored accounts, run 'spottube auth login' first", shared.ErrNotAuthenticated)
		}
		email = stored[0].Email
	}

	return sess.Resume(ctx, email)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, tracksCommand, convertCommand, matchCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
