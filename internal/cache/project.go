package cache

import (
	"github.com/Coxless/wtenv/internal/gitutil"
)

// ProjectCache memoises project names per task location so the dashboard
// does not open a repository on every frame.
type ProjectCache struct {
	cache  Cache
	lookup func(path string) gitutil.ProjectInfo
}

// NewProjectCache wraps c, resolving misses with gitutil.GetProjectInfo.
func NewProjectCache(c Cache) *ProjectCache {
	return &ProjectCache{cache: c, lookup: gitutil.GetProjectInfo}
}

// NewProjectCacheWithDefaults uses an LRU sized by DefaultConfig.
func NewProjectCacheWithDefaults() *ProjectCache {
	return NewProjectCache(NewLRUCache(DefaultConfig()))
}

// Info returns the project info for path.
func (p *ProjectCache) Info(path string) gitutil.ProjectInfo {
	if v, ok := p.cache.Get(path); ok {
		if info, ok := v.(gitutil.ProjectInfo); ok {
			return info
		}
	}
	info := p.lookup(path)
	p.cache.Set(path, info)
	return info
}

// DisplayName returns the label for path.
func (p *ProjectCache) DisplayName(path string) string {
	if path == "" {
		return "(unknown)"
	}
	return p.Info(path).DisplayName()
}

// Invalidate forgets every cached location.
func (p *ProjectCache) Invalidate() {
	p.cache.Purge()
}
