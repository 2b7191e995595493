package shutdown

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunHooks(t *testing.T) {
	var ran atomic.Int32
	RegisterHook(func(time.Duration) error {
		ran.Add(1)
		return nil
	})
	RegisterHook(func(time.Duration) error {
		ran.Add(1)
		return errors.New("cleanup failed")
	})

	if CheckShutdown() {
		t.Fatal("shutdown flagged before hooks ran")
	}

	RunHooks(time.Second)

	if !CheckShutdown() {
		t.Error("shutdown not flagged")
	}
	if ran.Load() != 2 {
		t.Errorf("ran %d hooks, want 2", ran.Load())
	}
}

func TestRunHooksHonorsGrace(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	RegisterHook(func(time.Duration) error {
		<-release
		return nil
	})

	start := time.Now()
	RunHooks(50 * time.Millisecond)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("RunHooks waited %s past its grace period", elapsed)
	}
}
