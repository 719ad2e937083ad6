package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser launches the system default browser at the given URL, used to
// hand the Spotify authorization page to the user during login. Covers macOS,
// Linux, and Windows; anything else gets an error so the CLI can fall back to
// printing the URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch platform := getRuntime(); platform {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", platform)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
