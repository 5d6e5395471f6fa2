package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Coxless/wtenv/internal/cache"
	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/models"
	"github.com/Coxless/wtenv/internal/progress"
	"github.com/Coxless/wtenv/internal/recovery"
)

// ErrServiceStopped is returned for requests made after Stop.
var ErrServiceStopped = errors.New("progress service stopped")

// ProgressServiceConfig configures a ProgressService.
type ProgressServiceConfig struct {
	Dir             string
	RefreshInterval time.Duration
	Watch           bool
	// Projects, when set, fills in TaskSummary.Project.
	Projects *cache.ProjectCache
}

// ProgressService owns a progress.Manager on a single goroutine. Refreshes
// run on a ticker and on watcher signals; queries are submitted to the same
// goroutine and answered with snapshots, so no caller ever touches the
// manager directly.
type ProgressService struct {
	manager  *progress.Manager
	interval time.Duration
	watch    bool
	watcher  *progress.Watcher
	projects *cache.ProjectCache

	requests chan func(*progress.Manager)
	stopCh   chan struct{}
	doneCh   chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

// NewProgressService creates a stopped service.
func NewProgressService(cfg ProgressServiceConfig) *ProgressService {
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &ProgressService{
		manager:  progress.NewManager(cfg.Dir),
		interval: interval,
		watch:    cfg.Watch,
		projects: cfg.Projects,
		requests: make(chan func(*progress.Manager)),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		subs:     make(map[chan struct{}]struct{}),
	}
}

// Start performs the initial load and launches the owning goroutine.
func (s *ProgressService) Start() error {
	var err error
	s.startOnce.Do(func() {
		if err = s.manager.LoadAll(); err != nil {
			err = fmt.Errorf("failed to load progress directory: %w", err)
			close(s.doneCh)
			return
		}
		logger.Infof("📊 Loaded %d tasks from %s", s.manager.Len(), s.manager.Dir())
		s.ensureWatcher()
		recovery.SafeGoWithCleanup("progress-service", s.run, func() { close(s.doneCh) })
	})
	return err
}

// Stop ends the owning goroutine and waits for it to exit.
func (s *ProgressService) Stop() {
	// a service that never started has nothing to wait for
	s.startOnce.Do(func() { close(s.doneCh) })
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	<-s.doneCh
}

func (s *ProgressService) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer func() {
		if s.watcher != nil {
			s.watcher.Close()
		}
	}()

	for {
		var changes <-chan struct{}
		if s.watcher != nil {
			changes = s.watcher.Changes()
		}

		select {
		case <-ticker.C:
			s.ensureWatcher()
			s.refresh()
		case <-changes:
			s.refresh()
		case fn := <-s.requests:
			fn(s.manager)
		case <-s.stopCh:
			return
		}
	}
}

// ensureWatcher starts watching once the progress directory exists.
func (s *ProgressService) ensureWatcher() {
	if !s.watch || s.watcher != nil {
		return
	}
	w, err := progress.NewWatcher(s.manager.Dir(), progress.DefaultWatchDebounce)
	if err != nil {
		logger.Warnf("⚠️  Failed to watch %s, relying on polling: %v", s.manager.Dir(), err)
		s.watch = false
		return
	}
	s.watcher = w
}

func (s *ProgressService) refresh() {
	result, err := s.manager.Refresh()
	if err != nil {
		logger.Warnf("⚠️  Progress refresh failed: %v", err)
	}
	if result.Changed() {
		logger.Debugf("🔄 Reloaded %d sessions", len(result.Reloaded))
		s.notify()
	}
}

// Done is closed once the owning goroutine has exited.
func (s *ProgressService) Done() <-chan struct{} {
	return s.doneCh
}

// Subscribe returns a channel that receives a signal after every refresh
// that changed a task. Signals are coalesced; a slow reader sees one pending
// signal. The returned func unsubscribes.
func (s *ProgressService) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		delete(s.subs, ch)
		s.subMu.Unlock()
	}
}

func (s *ProgressService) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Do runs fn on the owning goroutine and waits for it to finish.
func (s *ProgressService) Do(ctx context.Context, fn func(*progress.Manager)) error {
	done := make(chan struct{})
	wrapped := func(m *progress.Manager) {
		defer close(done)
		fn(m)
	}

	select {
	case s.requests <- wrapped:
	case <-s.doneCh:
		return ErrServiceStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AllTasks returns every task, most recently updated first.
func (s *ProgressService) AllTasks(ctx context.Context) ([]models.TaskSummary, error) {
	return s.summaries(ctx, (*progress.Manager).AllTasks)
}

// ActiveTasks returns the tasks that have started and not ended.
func (s *ProgressService) ActiveTasks(ctx context.Context) ([]models.TaskSummary, error) {
	return s.summaries(ctx, (*progress.Manager).ActiveTasks)
}

// LatestTasks returns the most recent task for each location.
func (s *ProgressService) LatestTasks(ctx context.Context) ([]models.TaskSummary, error) {
	return s.summaries(ctx, (*progress.Manager).LatestTaskPerLocation)
}

// TasksForLocation returns the tasks at or below location.
func (s *ProgressService) TasksForLocation(ctx context.Context, location string) ([]models.TaskSummary, error) {
	return s.summaries(ctx, func(m *progress.Manager) []*progress.Task {
		return m.TasksForLocation(location)
	})
}

// Task returns one task including its event history.
func (s *ProgressService) Task(ctx context.Context, sessionID string) (*models.TaskSummary, error) {
	var out *models.TaskSummary
	err := s.Do(ctx, func(m *progress.Manager) {
		if t, ok := m.Task(sessionID); ok {
			summary := models.NewTaskSummary(t, true)
			out = &summary
		}
	})
	if err != nil {
		return nil, err
	}
	if out != nil {
		s.nameProject(out)
	}
	return out, nil
}

// StatusCounts returns per-status totals.
func (s *ProgressService) StatusCounts(ctx context.Context) (models.StatusCountsResponse, error) {
	var out models.StatusCountsResponse
	err := s.Do(ctx, func(m *progress.Manager) {
		out = models.NewStatusCountsResponse(m.StatusCounts(), m.Len(), len(m.ActiveTasks()))
	})
	if err != nil {
		return models.StatusCountsResponse{}, err
	}
	return out, nil
}

// Reload forgets cached modification times and rebuilds every session.
func (s *ProgressService) Reload(ctx context.Context) error {
	var refreshErr error
	err := s.Do(ctx, func(m *progress.Manager) {
		m.Invalidate()
		_, refreshErr = m.Refresh()
		if s.projects != nil {
			s.projects.Invalidate()
		}
	})
	if err != nil {
		return err
	}
	s.notify()
	return refreshErr
}

func (s *ProgressService) summaries(ctx context.Context, query func(*progress.Manager) []*progress.Task) ([]models.TaskSummary, error) {
	var out []models.TaskSummary
	err := s.Do(ctx, func(m *progress.Manager) {
		out = models.NewTaskSummaries(query(m))
	})
	if err != nil {
		return nil, err
	}
	for i := range out {
		s.nameProject(&out[i])
	}
	return out, nil
}

// nameProject runs outside the owning goroutine; git lookups must not stall
// refreshes.
func (s *ProgressService) nameProject(summary *models.TaskSummary) {
	if s.projects != nil {
		summary.Project = s.projects.DisplayName(summary.WorkingDir)
	}
}
