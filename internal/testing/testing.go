// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/nagavel/spottube/internal/models"
)

// MockCatalog is a test double for [services.CatalogReader]
type MockCatalog struct {
	Profile   *models.Identity
	Playlists []models.PlaylistSummary
	Tracks    []models.Track
	Err       error
}

func (m *MockCatalog) UserProfile(ctx context.Context) (*models.Identity, error) {
	return m.Profile, m.Err
}

func (m *MockCatalog) ListPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	return m.Playlists, m.Err
}

func (m *MockCatalog) ListTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	return m.Tracks, m.Err
}

// MockSearcher is a test double for [services.VideoSearcher]. SearchFunc, if
// set, overrides the canned Candidates/Err pair per call.
type MockSearcher struct {
	Candidates []models.MatchCandidate
	Err        error
	SearchFunc func(ctx context.Context, query string) ([]models.MatchCandidate, error)
	Queries    []string
}

func (m *MockSearcher) Search(ctx context.Context, query string) ([]models.MatchCandidate, error) {
	m.Queries = append(m.Queries, query)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return m.Candidates, m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
