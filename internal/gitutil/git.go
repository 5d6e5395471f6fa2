// Package gitutil answers the few questions wtenv asks about the git
// checkout a task runs in.
package gitutil

import (
	"bytes"
	"os"
	"path/filepath"
)

const gitFilePrefix = "gitdir: "

// FindGitRoot walks up from start to the nearest directory holding a .git
// directory or a linked-worktree .git file. start may be a file or a path
// that no longer exists; missing components are skipped.
func FindGitRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		if isCheckoutRoot(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func isCheckoutRoot(dir string) bool {
	gitPath := filepath.Join(dir, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return true
	}
	content, err := os.ReadFile(gitPath)
	return err == nil && bytes.HasPrefix(content, []byte(gitFilePrefix))
}
