package cmd

import (
	"strings"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when a bbolt open fails due to
// lock contention. The usual holder is a running `kntags watch`.
func diagnoseDBLock(root string) string {
	return "database is locked by another kntags process\n" +
		"  → a `kntags watch` may be running for " + root + "\n" +
		"  → find the process:  ps aux | grep 'kntags'\n" +
		"  → stop it, then retry your command"
}
