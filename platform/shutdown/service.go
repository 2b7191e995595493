package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rohanthewiz/logger"
)

const gracePeriod = 15 * time.Second

// HookFunc releases one resource; it receives the grace period it must
// finish within
type HookFunc func(grace time.Duration) error

type shutdownHooks struct {
	Hooks []HookFunc
	lock  sync.Mutex
}

var hooks shutdownHooks

// RegisterHook adds fn to the hooks fired on shutdown
func RegisterHook(fn HookFunc) {
	hooks.lock.Lock()
	defer hooks.lock.Unlock()
	hooks.Hooks = append(hooks.Hooks, fn)
	logger.Debug("Registered shutdown hook", "count", len(hooks.Hooks))
}

// InitShutdownService waits for SIGINT or SIGTERM, fires every hook and
// closes done once they finish or the grace period runs out
func InitShutdownService(done chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer close(done)

		sig := <-sigChan
		logger.Info("Received shutdown signal", "signal", sig.String())
		RunHooks(gracePeriod)
	}()
}

// RunHooks marks the process as shutting down and runs all hooks
// concurrently, waiting at most grace for them
func RunHooks(grace time.Duration) {
	setShutdown()

	hooks.lock.Lock()
	pending := append([]HookFunc(nil), hooks.Hooks...)
	hooks.lock.Unlock()

	logger.Info("Running shutdown hooks", "count", len(pending), "grace", grace.String())

	wg := sync.WaitGroup{}
	for i, hook := range pending {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := hook(grace); err != nil {
				logger.LogErr(err, "shutdown hook failed")
				return
			}
			logger.Debug("Shutdown hook completed", "hook", i)
		}()
	}

	allDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDone)
	}()

	select {
	case <-allDone:
		logger.F("All shutdown hooks completed")
	case <-time.After(grace):
		logger.Warn("Shutdown hooks timed out", "grace", grace.String())
	}
}
