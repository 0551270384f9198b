// Package heartbeat supplies the heartbeat instruction document. The
// scheduler dispatches a heartbeat run only when the document is
// non-empty; an empty or missing HEARTBEAT.md means "do nothing this
// cycle".
package heartbeat

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aatumaykin/autocore/internal/logger"
)

// Filename is the heartbeat instruction file inside the workspace.
const Filename = "HEARTBEAT.md"

// Loader reads the heartbeat document from the workspace.
type Loader struct {
	filePath string
	log      *logger.Logger
}

// NewLoader creates a Loader for the heartbeat document in workspacePath.
func NewLoader(workspacePath string, log *logger.Logger) *Loader {
	return &Loader{
		filePath: filepath.Join(workspacePath, Filename),
		log:      log,
	}
}

// Document returns the current heartbeat instructions, trimmed. Missing
// or unreadable files read as empty: the operator removing the document
// is the supported way to pause heartbeat runs.
func (l *Loader) Document() string {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.Warn("failed to read heartbeat document",
				logger.Field{Key: "file", Value: l.filePath},
				logger.Field{Key: "error", Value: err.Error()})
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Path returns the heartbeat document path.
func (l *Loader) Path() string {
	return l.filePath
}
