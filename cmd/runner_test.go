package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nagavel/spottube/internal/shared"
	tu "github.com/nagavel/spottube/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.newSearcher == nil {
				t.Error("expected default searcher factory to be set")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		data := map[string]string{"key": "value"}
		if err := runner.writeJSON(data, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := output.String()
		if !strings.Contains(got, `"key":"value"`) {
			t.Errorf("unexpected output: %q", got)
		}
		if !strings.HasSuffix(got, "\n") {
			t.Error("output should end with a newline")
		}

		t.Run("pretty", func(t *testing.T) {
			output.Reset()
			if err := runner.writeJSON(data, true); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output.String(), "  \"key\"") {
				t.Errorf("expected indented output: %q", output.String())
			}
		})

		t.Run("write failure", func(t *testing.T) {
			failing := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := failing.writeJSON(data, false); err == nil {
				t.Error("expected write error")
			}
		})

		t.Run("newline write failure", func(t *testing.T) {
			// The payload write succeeds, the trailing newline does not.
			lw := tu.NewLimitedWriter(1, 0, io.Discard)
			failing := NewRunner(RunnerOpts{Output: &lw})
			if err := failing.writeJSON(data, false); err == nil {
				t.Error("expected newline write error")
			}
		})

		t.Run("unmarshalable data", func(t *testing.T) {
			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("expected marshal error")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.String() != "hello world\n" {
			t.Errorf("unexpected output: %q", output.String())
		}

		t.Run("write failure", func(t *testing.T) {
			failing := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := failing.writePlain("anything"); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("writePlainln", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlainln("message"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.String() != "\nmessage\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("writePlainHeader", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlainHeader("Title")
		got := output.String()
		if !strings.Contains(got, "Title") || strings.Count(got, "═") == 0 {
			t.Errorf("unexpected header output: %q", got)
		}
	})
}

func TestApplyConfigFlag(t *testing.T) {
	runFlag := func(t *testing.T, runner *Runner, args []string) error {
		t.Helper()
		cmd := &cli.Command{
			Name:  "test",
			Flags: []cli.Flag{configFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runner.applyConfigFlag(cmd)
			},
		}
		return cmd.Run(context.Background(), args)
	}

	t.Run("ExplicitPathReplacesConfig", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "other.toml")
		content := `[credentials.spotify]
client_id = "cid"
client_secret = "secret"
redirect_uri = "http://localhost:3000/callback"

[database]
path = "other.db"
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		if err := runFlag(t, runner, []string{"test", "--config", path}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if runner.config.Database.Path != "other.db" {
			t.Errorf("config not reloaded, database path is %s", runner.config.Database.Path)
		}
		if runner.spotify == nil {
			t.Error("Spotify service should be rebuilt from the new credentials")
		}
	})

	t.Run("UnsetFlagKeepsStartupConfig", func(t *testing.T) {
		config := shared.DefaultConfig()
		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})

		if err := runFlag(t, runner, []string{"test"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if runner.config != config {
			t.Error("config should be untouched without an explicit flag")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		err := runFlag(t, runner, []string{"test", "--config", filepath.Join(t.TempDir(), "absent.toml")})
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestBuildSessionWithoutSpotify(t *testing.T) {
	runner := NewRunner(RunnerOpts{})

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if _, _, err := runner.buildSession(db); err == nil {
		t.Error("expected error when Spotify credentials are missing")
	}
}
