//go:build linux

package process

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr sets Linux-specific process attributes on cmd.
// Setpgid places the command in its own process group so timeout enforcement
// can signal the whole group. Pdeathsig ensures the child receives SIGTERM
// when its parent dies, preventing orphaned engine invocations if the test
// binary is killed abruptly.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}

// terminate returns the cancel function used by exec.CommandContext. It
// signals the command's entire process group with SIGKILL so helper processes
// spawned by the engine CLI are terminated together with it. If the group
// signal fails (e.g. the group is already gone), it falls back to killing the
// single process.
func terminate(cmd *exec.Cmd) func() error {
	return func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err == nil {
			return nil
		}
		return cmd.Process.Kill()
	}
}
