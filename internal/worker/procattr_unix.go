//go:build !windows

package worker

import (
	"os/exec"
	"syscall"
)

// setProcAttr puts the child in its own process group so terminateGroup and
// killGroup can signal it and anything it spawns (MCP servers, build subprocesses)
// in one signal.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalGroup sends sig to the process group led by pid.
func signalGroup(pid int, sig syscall.Signal) error {
	return syscall.Kill(-pid, sig)
}

func terminateGroup(pid int) error {
	return signalGroup(pid, syscall.SIGTERM)
}

func killGroup(pid int) error {
	return signalGroup(pid, syscall.SIGKILL)
}
