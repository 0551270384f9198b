// Package workspace manages the directory where the core keeps its
// persisted documents: the cron job document, the heartbeat
// instructions, the persona record, and the provider failure state.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace is the root directory for persisted state.
type Workspace struct {
	path string
}

// New creates a Workspace, expanding a leading ~/ in the configured path.
func New(path string) *Workspace {
	return &Workspace{path: expandHome(path)}
}

// Path returns the expanded workspace path.
func (w *Workspace) Path() string {
	return w.path
}

// EnsureDir creates the workspace directory if it does not exist.
func (w *Workspace) EnsureDir() error {
	if w.path == "" {
		return fmt.Errorf("workspace path is empty")
	}

	info, err := os.Stat(w.path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("workspace path exists but is not a directory: %s", w.path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access workspace path %s: %w", w.path, err)
	}

	if err := os.MkdirAll(w.path, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory %s: %w", w.path, err)
	}
	return nil
}

// Subpath joins a relative name onto the workspace path.
func (w *Workspace) Subpath(name string) string {
	return filepath.Join(w.path, name)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
