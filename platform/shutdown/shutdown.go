// Package shutdown runs cleanup hooks when the process is asked to stop and
// exposes whether a shutdown is under way, so long requests can refuse new
// work.
package shutdown

import "sync"

var (
	isShutdown bool
	mu         sync.RWMutex
)

// CheckShutdown reports whether a shutdown is in progress
func CheckShutdown() bool {
	mu.RLock()
	defer mu.RUnlock()
	return isShutdown
}

func setShutdown() {
	mu.Lock()
	isShutdown = true
	mu.Unlock()
}
