// package session owns the live OAuth token pair for the active account.
//
// A [Session] is an explicit object injected into everything that needs a
// token; there is no process-global session state. The background refresh
// cycle runs on a cron schedule for the lifetime of the process once started
// and writes every new access token through to the credential store.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nagavel/spottube/internal/models"
	"github.com/nagavel/spottube/internal/shared"
	"github.com/robfig/cron/v3"
	"golang.org/x/oauth2"
)

// refreshSchedule matches the source system's 3600 s refresh interval.
const refreshSchedule = "@every 1h"

// AccountStore is the credential persistence collaborator, keyed by email.
type AccountStore interface {
	UpsertByEmail(account *models.Account) error
	UpdateAccessToken(email, accessToken string) error
	GetByEmail(email string) (*models.Account, error)
}

// Profiler fetches the authenticated account's identity. Implemented by the
// Spotify catalog reader.
type Profiler interface {
	UserProfile(ctx context.Context) (*models.Identity, error)
}

// Session holds one live access/refresh token pair. It implements
// [services.TokenProvider]: callers fetch the token per outbound request and
// never cache it across a batch, so a refresh mid-batch takes effect on the
// next call.
type Session struct {
	mu       sync.RWMutex
	config   *oauth2.Config
	token    *oauth2.Token
	identity *models.Identity

	store    AccountStore
	profiler Profiler
	logger   *log.Logger
	cron     *cron.Cron
}

// New creates a Session bound to the given OAuth2 client config and
// credential store. The profiler is wired separately via [Session.SetProfiler]
// because the catalog reader needs the session as its token provider.
func New(config *oauth2.Config, store AccountStore, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Session{
		config: config,
		store:  store,
		logger: logger,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// SetProfiler wires the identity fetcher used by [Session.Begin].
func (s *Session) SetProfiler(p Profiler) {
	s.profiler = p
}

// Begin exchanges an authorization code for a token pair, fetches the
// account identity, and upserts the credential record keyed by email.
//
// A rejected code (expired, invalid, denied scope) returns an error wrapping
// [shared.ErrGrantExchange] and leaves no account record behind.
func (s *Session) Begin(ctx context.Context, code string) (*models.Identity, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrGrantExchange, err)
	}

	s.mu.Lock()
	s.token = token
	s.identity = nil
	s.mu.Unlock()

	if s.profiler == nil {
		s.clear()
		return nil, fmt.Errorf("%w: no profile source configured", shared.ErrServiceUnavailable)
	}

	identity, err := s.profiler.UserProfile(ctx)
	if err != nil {
		s.clear()
		return nil, fmt.Errorf("failed to fetch account profile: %w", err)
	}

	account := models.NewAccount(0, identity.Email, identity.ID, token.AccessToken, token.RefreshToken)
	if err := s.store.UpsertByEmail(account); err != nil {
		s.clear()
		return nil, fmt.Errorf("failed to persist account: %w", err)
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()

	s.logger.Info("session established", "email", identity.Email, "expires", token.Expiry)
	return identity, nil
}

// Resume restores a session from a persisted account record, letting a new
// process reuse an earlier login without a fresh authorization flow. The
// stored access token has an unknown age, so Resume immediately trades the
// refresh token for a fresh one; if that exchange fails the stored token is
// kept and the failure is logged, matching the refresh cycle's policy.
func (s *Session) Resume(ctx context.Context, email string) error {
	account, err := s.store.GetByEmail(email)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = &oauth2.Token{
		AccessToken:  account.AccessToken,
		RefreshToken: account.RefreshToken,
	}
	s.identity = &models.Identity{ID: account.ExternalID, Email: account.Email}
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("resume refresh failed, keeping stored token", "error", err)
	}

	s.logger.Info("session resumed", "email", email)
	return nil
}

// Token returns the in-memory access token for the active session.
// Returns [shared.ErrNotAuthenticated] before any session exists.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return s.token, nil
}

// Identity returns the identity of the active session, or nil before login.
func (s *Session) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// StartRefreshCycle schedules the hourly token refresh. Refresh failures are
// logged and the cycle continues; the stale token stays live until the next
// successful tick.
func (s *Session) StartRefreshCycle() error {
	_, err := s.cron.AddFunc(refreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.Refresh(ctx); err != nil {
			s.logger.Error("refresh cycle failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh cycle: %w", err)
	}

	s.cron.Start()
	s.logger.Info("refresh cycle started", "schedule", refreshSchedule)
	return nil
}

// Stop halts the refresh cycle. The in-memory session stays usable.
func (s *Session) Stop() {
	s.cron.Stop()
}

// Refresh exchanges the refresh token for a new access token, swaps the
// in-memory token, and writes it through to the credential store.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.RLock()
	current := s.token
	identity := s.identity
	s.mu.RUnlock()

	if current == nil || current.RefreshToken == "" {
		return fmt.Errorf("%w: no refresh token held", shared.ErrNotAuthenticated)
	}

	// Force a refresh grant by presenting an expired token to the source.
	seed := &oauth2.Token{
		RefreshToken: current.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	}
	fresh, err := s.config.TokenSource(ctx, seed).Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	if fresh.RefreshToken == "" {
		fresh.RefreshToken = current.RefreshToken
	}

	s.mu.Lock()
	s.token = fresh
	s.mu.Unlock()

	if identity != nil {
		if err := s.store.UpdateAccessToken(identity.Email, fresh.AccessToken); err != nil {
			return fmt.Errorf("refreshed token not persisted: %w", err)
		}
	}

	s.logger.Info("access token refreshed", "expires", fresh.Expiry)
	return nil
}

// clear drops a half-established session.
func (s *Session) clear() {
	s.mu.Lock()
	s.token = nil
	s.identity = nil
	s.mu.Unlock()
}
