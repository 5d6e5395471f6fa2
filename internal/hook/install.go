package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Coxless/wtenv/internal/progress"
)

// TrackedEvents are the hook events wtenv installs itself for.
var TrackedEvents = []progress.EventKind{
	progress.EventSessionStart,
	progress.EventUserPromptSubmit,
	progress.EventPostToolUse,
	progress.EventStop,
	progress.EventSessionEnd,
	progress.EventNotification,
}

// HookMatcher is one entry under an event in settings.json.
type HookMatcher struct {
	Matcher string     `json:"matcher"`
	Hooks   []HookSpec `json:"hooks"`
}

// HookSpec is a single hook command.
type HookSpec struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// InstallResult reports what Install changed.
type InstallResult struct {
	SettingsPath string
	BackupPath   string // empty when there was no previous file
	Added        []progress.EventKind
}

// Install registers command for every tracked event in the Claude settings
// file at settingsPath. Other keys and other hook entries are left as they
// were; events that already run command are not touched again.
func Install(settingsPath, command string) (*InstallResult, error) {
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create Claude config directory: %w", err)
	}

	result := &InstallResult{SettingsPath: settingsPath}
	settings := map[string]json.RawMessage{}

	data, err := os.ReadFile(settingsPath)
	switch {
	case err == nil:
		result.BackupPath = settingsPath + ".backup." + time.Now().Format("20060102-150405")
		if err := copyFile(settingsPath, result.BackupPath); err != nil {
			return nil, fmt.Errorf("failed to backup existing settings: %w", err)
		}
		if len(strings.TrimSpace(string(data))) > 0 {
			if err := json.Unmarshal(data, &settings); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", settingsPath, err)
			}
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read existing settings: %w", err)
	}

	hooks := map[string][]json.RawMessage{}
	if raw, ok := settings["hooks"]; ok && len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &hooks); err != nil {
			return nil, fmt.Errorf("failed to parse hooks in %s: %w", settingsPath, err)
		}
	}

	for _, event := range TrackedEvents {
		entries := hooks[string(event)]
		if containsCommand(entries, command) {
			continue
		}
		matcher := ""
		if event == progress.EventPostToolUse {
			matcher = "*"
		}
		entry, err := json.Marshal(HookMatcher{
			Matcher: matcher,
			Hooks:   []HookSpec{{Type: "command", Command: command}},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal hook: %w", err)
		}
		hooks[string(event)] = append(entries, entry)
		result.Added = append(result.Added, event)
	}

	rawHooks, err := json.Marshal(hooks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hooks: %w", err)
	}
	settings["hooks"] = rawHooks

	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(settingsPath, out, 0644); err != nil {
		return nil, fmt.Errorf("failed to write settings file: %w", err)
	}
	return result, nil
}

func containsCommand(entries []json.RawMessage, command string) bool {
	for _, raw := range entries {
		var m HookMatcher
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		for _, h := range m.Hooks {
			if h.Command == command {
				return true
			}
		}
	}
	return false
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}
