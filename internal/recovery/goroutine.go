package recovery

import (
	"runtime/debug"

	"github.com/Coxless/wtenv/internal/logger"
)

// SafeGo runs a function in a goroutine with automatic panic recovery.
// A panicking watcher or API loop must not take the dashboard down with it.
func SafeGo(name string, fn func()) {
	go func() {
		defer Recover(name)
		fn()
	}()
}

// SafeGoWithCleanup runs a function in a goroutine with panic recovery and cleanup
func SafeGoWithCleanup(name string, fn func(), cleanup func()) {
	go func() {
		defer func() {
			if cleanup != nil {
				cleanup()
			}
		}()
		defer Recover(name)
		fn()
	}()
}

// Recover logs a recovered panic with its stack. It must be deferred directly.
func Recover(name string) {
	if r := recover(); r != nil {
		logger.Logger.Error().
			Str("goroutine", name).
			Interface("panic", r).
			Str("stack", string(debug.Stack())).
			Msg("🚨 PANIC recovered")
	}
}
