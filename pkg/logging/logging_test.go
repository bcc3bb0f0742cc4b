package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSetup(t *testing.T) {
	t.Run("SetsParsedLevel", func(t *testing.T) {
		closer, err := Setup("debug", "")
		if err != nil {
			t.Fatalf("Expected setup to succeed, got: %v", err)
		}
		defer closer()

		if log.GetLevel() != log.DebugLevel {
			t.Fatalf("Expected debug level, got: %v", log.GetLevel())
		}
	})

	t.Run("UnknownLevelKeepsCurrent", func(t *testing.T) {
		log.SetLevel(log.InfoLevel)

		closer, err := Setup("chatty", "")
		if err != nil {
			t.Fatalf("Expected setup to succeed, got: %v", err)
		}
		defer closer()

		if log.GetLevel() != log.InfoLevel {
			t.Fatalf("Expected info level, got: %v", log.GetLevel())
		}
	})

	t.Run("WritesToFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "recall.log")

		closer, err := Setup("info", path)
		if err != nil {
			t.Fatalf("Expected setup to succeed, got: %v", err)
		}

		log.Info("hello from the log file")
		closer()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Expected to read log file, got: %v", err)
		}

		if !strings.Contains(string(data), "hello from the log file") {
			t.Fatalf("Expected log file to contain the message, got: %q", string(data))
		}
	})

	t.Run("UnwritablePathErrors", func(t *testing.T) {
		_, err := Setup("info", filepath.Join(t.TempDir(), "missing", "recall.log"))
		if err == nil {
			t.Fatal("Expected an error for an unwritable path")
		}
	})
}
