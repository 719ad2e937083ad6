package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tu "github.com/nagavel/spottube/internal/testing"
)

func TestSetupDatabase(t *testing.T) {
	wd := tu.MustGetwd(t)
	tu.MustChdir(t, t.TempDir())
	defer tu.MustChdir(t, wd)

	runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

	cmd := setupCommand(runner)
	if err := cmd.Run(context.Background(), []string{"setup"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tu.AssertFileExists(t, "config.toml")
	tu.AssertFileExists(t, runner.config.Database.Path)

	content := tu.MustReadFile(t, "config.toml")
	if !strings.Contains(content, "[credentials.spotify]") {
		t.Errorf("created config missing credential section: %q", content)
	}

	t.Run("SecondRunReusesConfig", func(t *testing.T) {
		if err := cmd.Run(context.Background(), []string{"setup"}); err != nil {
			t.Fatalf("rerun failed: %v", err)
		}
	})
}
