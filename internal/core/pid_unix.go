//go:build unix

package core

import (
	"os"
	"syscall"
)

// pidAlive reports whether a process with the given pid exists. Signal 0
// performs the permission and existence checks without delivering a signal;
// EPERM means the process exists but belongs to another user.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || err == syscall.EPERM
}
