// Package worker spawns the external worker binary as a supervised child
// process for a single chunk or terminal phase: it prepares the working
// directory's input files, runs the binary with a hard per-phase timeout,
// tees its output to a log file, heartbeats progress, and harvests the
// result once the process exits.
package worker

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ResolveBinary finds binaryName, checking common locations beyond PATH.
// Adapted from the teacher's binary resolution, generalized from a single
// hardcoded binary to whatever the run is configured with.
func ResolveBinary(binaryName string) string {
	if filepath.IsAbs(binaryName) {
		return binaryName
	}

	if path, err := exec.LookPath(binaryName); err == nil {
		return path
	}

	if strings.HasPrefix(binaryName, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, binaryName[1:])
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		commonPaths := []string{
			filepath.Join(home, ".claude", "local", binaryName),
			filepath.Join("/usr/local/bin", binaryName),
			filepath.Join("/opt/homebrew/bin", binaryName),
		}
		for _, p := range commonPaths {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	return binaryName
}

// BinaryNotFoundError reports that binaryName could not be resolved to a
// runnable path, with setup guidance the operator can act on.
func BinaryNotFoundError(binaryName string) error {
	return fmt.Errorf(`worker binary %q not found in PATH

Add it to your shell profile, e.g.:
  export PATH="$HOME/.claude/local:$PATH"

Or set an absolute path in the environment:
  export WORKER_BINARY=/path/to/%s`, binaryName, binaryName)
}
