package progress

import (
	"os"
	"path/filepath"
	"strings"
)

// BelongsTo reports whether the task's working directory is the location or
// lies beneath it. Paths are first compared after resolving symlinks; when
// that fails to match, the raw paths are compared component by component so
// a symlinked subdirectory still counts and /home/user/feature never matches
// /home/user/feature-backup.
func BelongsTo(t *Task, location string) bool {
	taskPath, taskErr := canonicalPath(t.WorkingDir)
	locPath, locErr := canonicalPath(location)
	if taskErr == nil && locErr == nil && hasPathPrefix(pathComponents(taskPath), pathComponents(locPath)) {
		return true
	}
	return hasPathPrefix(pathComponents(t.WorkingDir), pathComponents(location))
}

func canonicalPath(p string) (string, error) {
	if p == "" {
		return "", os.ErrNotExist
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// pathComponents splits a path into its components. A leading separator is
// kept as its own component so absolute and relative paths never compare
// equal; empty and "." components are dropped.
func pathComponents(p string) []string {
	if p == "" {
		return nil
	}
	var parts []string
	if vol := filepath.VolumeName(p); vol != "" {
		parts = append(parts, vol)
		p = p[len(vol):]
	}
	if strings.HasPrefix(p, string(filepath.Separator)) || strings.HasPrefix(p, "/") {
		parts = append(parts, string(filepath.Separator))
	}
	for _, part := range strings.FieldsFunc(p, isSeparator) {
		if part == "." {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

func isSeparator(r rune) bool {
	return r == filepath.Separator || r == '/'
}

func hasPathPrefix(path, prefix []string) bool {
	if len(prefix) == 0 || len(path) < len(prefix) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}
