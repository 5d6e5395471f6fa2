package progress

import "sort"

// Len returns the number of tracked tasks.
func (m *Manager) Len() int {
	return len(m.tasks)
}

// Task returns the task for a session identifier.
func (m *Manager) Task(sessionID string) (*Task, bool) {
	t, ok := m.tasks[sessionID]
	return t, ok
}

// AllTasks returns every task, most recently updated first.
func (m *Manager) AllTasks() []*Task {
	tasks := make([]*Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, t)
	}
	sortByRecency(tasks)
	return tasks
}

// ActiveTasks returns tasks that have started and whose session has not ended.
func (m *Manager) ActiveTasks() []*Task {
	var active []*Task
	for _, t := range m.AllTasks() {
		if t.IsActive() {
			active = append(active, t)
		}
	}
	return active
}

// LatestTaskPerLocation keeps only the most recently updated task for each
// distinct working directory.
func (m *Manager) LatestTaskPerLocation() []*Task {
	latest := make(map[string]*Task)
	for _, t := range m.tasks {
		cur, ok := latest[t.WorkingDir]
		if !ok || newer(t, cur) {
			latest[t.WorkingDir] = t
		}
	}

	tasks := make([]*Task, 0, len(latest))
	for _, t := range latest {
		tasks = append(tasks, t)
	}
	sortByRecency(tasks)
	return tasks
}

// TasksForLocation returns the tasks running in location or below it.
func (m *Manager) TasksForLocation(location string) []*Task {
	var matched []*Task
	for _, t := range m.AllTasks() {
		if BelongsTo(t, location) {
			matched = append(matched, t)
		}
	}
	return matched
}

// StatusCounts counts tasks by current status.
func (m *Manager) StatusCounts() map[Status]int {
	counts := make(map[Status]int)
	for _, t := range m.tasks {
		counts[t.Status]++
	}
	return counts
}

// newer orders tasks by last update, breaking ties on session identifier so
// the order is stable across calls.
func newer(a, b *Task) bool {
	if !a.LastUpdate.Equal(b.LastUpdate) {
		return a.LastUpdate.After(b.LastUpdate)
	}
	return a.SessionID < b.SessionID
}

func sortByRecency(tasks []*Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return newer(tasks[i], tasks[j])
	})
}
