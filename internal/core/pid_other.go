//go:build !unix

package core

// pidAlive conservatively reports every pid as alive on platforms without a
// cheap liveness probe, so the purge never removes a stack that might still
// have a living owner.
func pidAlive(pid int) bool {
	return pid > 0
}
