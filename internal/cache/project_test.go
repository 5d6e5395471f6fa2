package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Coxless/wtenv/internal/gitutil"
)

func TestProjectCache(t *testing.T) {
	calls := 0
	pc := NewProjectCache(NewLRUCache(DefaultConfig()))
	pc.lookup = func(path string) gitutil.ProjectInfo {
		calls++
		return gitutil.ProjectInfo{Path: path, RepoName: "wtenv", Branch: "main"}
	}

	assert.Equal(t, "wtenv (main)", pc.DisplayName("/work/wtenv"))
	assert.Equal(t, "wtenv (main)", pc.DisplayName("/work/wtenv"))
	assert.Equal(t, 1, calls)

	pc.Invalidate()
	pc.DisplayName("/work/wtenv")
	assert.Equal(t, 2, calls)

	assert.Equal(t, "(unknown)", pc.DisplayName(""))
	assert.Equal(t, 2, calls)
}
