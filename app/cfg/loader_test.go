package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.DBPath != "./data/shownotes.db" {
		t.Errorf("Expected DB path './data/shownotes.db', got '%s'", cfg.DBPath)
	}
	if cfg.FeedConfig != "./feed.yml" {
		t.Errorf("Expected feed config './feed.yml', got '%s'", cfg.FeedConfig)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 1 {
		t.Errorf("Expected worker count 1, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerIntervalDuration() != time.Hour {
		t.Errorf("Expected scheduler interval 1h, got %v", cfg.SchedulerIntervalDuration())
	}
	if cfg.APIAccessKey != "" {
		t.Errorf("Expected no API key, got '%s'", cfg.APIAccessKey)
	}
}

func TestLoadFlagsAndEnv(t *testing.T) {
	t.Setenv("API_ACCESS_KEY", "secret")
	t.Setenv("SCHEDULER_INTERVAL", "0")

	cfg, err := load([]string{"--db-path", "/tmp/test.db", "--port", "9090", "--debug", "--log-file", "/tmp/shownotes.log"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected DB path '/tmp/test.db', got '%s'", cfg.DBPath)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.LogFile != "/tmp/shownotes.log" {
		t.Errorf("Expected log file '/tmp/shownotes.log', got '%s'", cfg.LogFile)
	}
	if cfg.APIAccessKey != "secret" {
		t.Errorf("Expected API key from environment, got '%s'", cfg.APIAccessKey)
	}
	if cfg.SchedulerIntervalDuration() != 0 {
		t.Errorf("Expected scheduled runs to be disabled, got %v", cfg.SchedulerIntervalDuration())
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--no-such-flag"}},
		{"zero workers", []string{"--worker-count", "0"}},
		{"non-numeric workers", []string{"--worker-count", "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := load(tt.args); err == nil {
				t.Error("Expected error for invalid configuration")
			}
		})
	}
}

func TestApplyTimezone(t *testing.T) {
	original := time.Local
	t.Cleanup(func() { time.Local = original })

	if err := applyTimezone("Asia/Tokyo"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if time.Local.String() != "Asia/Tokyo" {
		t.Errorf("Expected local timezone Asia/Tokyo, got %s", time.Local)
	}

	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected error for unknown timezone")
	}
}
