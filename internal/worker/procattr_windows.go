//go:build windows

package worker

import (
	"os"
	"os/exec"
)

// setProcAttr is a no-op on windows: process-group signaling below uses
// Process.Kill directly instead of a Unix-style group signal.
func setProcAttr(cmd *exec.Cmd) {}

func terminateGroup(pid int) error {
	return killGroup(pid)
}

func killGroup(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}
