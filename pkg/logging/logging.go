package logging

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// Setup configures the process-wide logger. Unknown level names keep the
// current level. When file is non-empty, output is appended there instead of
// stderr, which keeps interactive command output clean. The returned closer
// releases the log file and is safe to call when no file was opened.
func Setup(level string, file string) (func(), error) {
	if parsed, err := log.ParseLevel(level); err == nil {
		log.SetLevel(parsed)
	}

	log.SetReportTimestamp(true)

	if file == "" {
		return func() {}, nil
	}

	handle, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", file, err)
	}

	log.SetOutput(handle)

	return func() {
		log.SetOutput(os.Stderr)
		_ = handle.Close()
	}, nil
}
