package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWeekKey(t *testing.T) {
	testCases := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{"Mid year", time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC), "2026-W25"},
		{"Single digit week padded", time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), "2026-W02"},
		{"Year boundary belongs to previous ISO year", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W53"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := weekKey(tc.input); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestSetupLogger_WritesToWeeklyFile(t *testing.T) {
	logDir := t.TempDir()

	logger := SetupLogger(logDir, 4, slog.LevelInfo)
	logger.Info("catalog loaded", "drug_count", 42)

	logPath := filepath.Join(logDir, "app-"+weekKey(time.Now())+".log")
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Expected log file at %s: %v", logPath, err)
	}

	if !strings.Contains(string(content), "catalog loaded") {
		t.Errorf("Expected log record in file, got: %s", content)
	}
	if !strings.Contains(string(content), `"drug_count":42`) {
		t.Errorf("Expected JSON attrs in file, got: %s", content)
	}
}

func TestSetupLogger_ConsoleOnlyWithoutDir(t *testing.T) {
	logger := SetupLogger("", 4, slog.LevelInfo)
	if logger == nil {
		t.Fatal("Expected a logger even without a log directory")
	}
	logger.Info("still works")
}

func TestSetupLogger_RespectsLevel(t *testing.T) {
	logDir := t.TempDir()

	logger := SetupLogger(logDir, 4, slog.LevelWarn)
	logger.Info("should be filtered")
	logger.Warn("should be written")

	logPath := filepath.Join(logDir, "app-"+weekKey(time.Now())+".log")
	content, _ := os.ReadFile(logPath)

	if strings.Contains(string(content), "should be filtered") {
		t.Error("Info record written despite warn level")
	}
	if !strings.Contains(string(content), "should be written") {
		t.Error("Warn record missing")
	}
}

func TestCleanupOldLogs(t *testing.T) {
	logDir := t.TempDir()

	oldPath := filepath.Join(logDir, "app-2020-W01.log")
	if err := os.WriteFile(oldPath, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-8 * 7 * 24 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatal(err)
	}

	unrelated := filepath.Join(logDir, "keep.txt")
	if err := os.WriteFile(unrelated, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(unrelated, past, past); err != nil {
		t.Fatal(err)
	}

	// Writing triggers rotation, which prunes expired app-*.log files.
	logger := SetupLogger(logDir, 4, slog.LevelInfo)
	logger.Info("trigger rotation")

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("Expected expired log file removed")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("Unrelated file must not be removed")
	}
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range testCases {
		if got := ParseLevel(tc.input); got != tc.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tc.input, got, tc.expected)
		}
	}
}
