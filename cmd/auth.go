package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nagavel/spottube/internal/repositories"
	"github.com/nagavel/spottube/internal/server"
	"github.com/nagavel/spottube/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the browser authorization flow and persists the resulting
// account's credential pair.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.applyConfigFlag(cmd); err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	sess, _, err := r.buildSession(db)
	if err != nil {
		return err
	}

	code, err := r.doOAuth()
	if err != nil {
		return err
	}

	identity, err := sess.Begin(ctx, code)
	if err != nil {
		return err
	}

	r.writePlain("✓ Authenticated as %s\n", identity.Email)
	return nil
}

// AuthStatus lists stored accounts.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	accounts := repositories.NewAccountRepository(db)
	stored, err := accounts.List(nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stored, true)
	}

	if len(stored) == 0 {
		return r.writePlain("No stored accounts. Run 'spottube auth login' first.\n")
	}

	r.writePlainHeader("Stored Accounts")
	for _, account := range stored {
		r.writePlain("%s (spotify id: %s)\n", account.Email, account.ExternalID)
	}
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
// and returns the authorization code delivered to the callback.
func (r *Runner) doOAuth() (string, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := r.spotify.GetAuthURL(state)
	callbackHandler := server.NewCallbackHandler(state)
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(server.NewLoginHandler(r.spotify.GetAuthURL, state))
	router.Handler(callbackHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting authorization server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.CallbackResult

	select {
	case result = <-callbackHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return "", fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return "", fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Code == "" {
		return "", fmt.Errorf("no authorization code received")
	}

	return result.Code, nil
}
