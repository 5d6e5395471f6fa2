package tui

import "time"

// refreshTickMsg fires on the auto-refresh interval.
type refreshTickMsg time.Time

// progressChangedMsg is sent when the watcher sees a session file change.
type progressChangedMsg struct{}
