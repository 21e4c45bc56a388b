package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	configContent := `
sharepoint:
  endpoint: "localhost:9000"
  access_key: "minioadmin"
  secret_key: "minioadmin"
  bucket: "test-bucket"
  use_ssl: false
  site_url: "https://example.sharepoint.com/"
  site_name: "Test-Site"
  source_folder: "General/Indbakke"
queue:
  dsn: "queue.db"
  name: "test.queue"
status_store:
  dsn: "postgres://localhost/journal"
  procedure: "journalizing.sp_update_status"
os2forms:
  api_url: "https://forms.test"
  api_key: "test-key"
opus:
  runner_url: "https://runner.test"
  timeout_seconds: 60
smtp:
  host: "smtp.test"
  port: 587
  sender: "robot@test.dk"
encryption:
  fernet_key: "c3VwZXJzZWNyZXRrZXlzdXBlcnNlY3JldGtleQ=="
log:
  level: "debug"
  format: "json"
work_dir: "/tmp/test-robot"
denylist:
  - "aaaa"
  - "bbbb"
`
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	// Test loading config
	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify values
	if cfg.SharePoint.Endpoint != "localhost:9000" {
		t.Errorf("Expected endpoint localhost:9000, got %s", cfg.SharePoint.Endpoint)
	}
	if cfg.SharePoint.SourceFolder != "General/Indbakke" {
		t.Errorf("Expected source_folder General/Indbakke, got %s", cfg.SharePoint.SourceFolder)
	}
	if cfg.Queue.Name != "test.queue" {
		t.Errorf("Expected queue name test.queue, got %s", cfg.Queue.Name)
	}
	if cfg.StatusStore.Procedure != "journalizing.sp_update_status" {
		t.Errorf("Expected procedure journalizing.sp_update_status, got %s", cfg.StatusStore.Procedure)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("Expected smtp port 587, got %d", cfg.SMTP.Port)
	}
	if cfg.Opus.Timeout != 60 {
		t.Errorf("Expected opus timeout 60, got %d", cfg.Opus.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.WorkDir != "/tmp/test-robot" {
		t.Errorf("Expected work_dir /tmp/test-robot, got %s", cfg.WorkDir)
	}
	if len(cfg.Denylist) != 2 {
		t.Errorf("Expected 2 denylist entries, got %d", len(cfg.Denylist))
	}
}

func TestLoadDefaults(t *testing.T) {
	// Create minimal config to test defaults
	configContent := `
sharepoint:
  endpoint: "localhost:9000"
  access_key: "test"
  secret_key: "test"
`
	tmpFile, err := os.CreateTemp("", "config-defaults-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify defaults
	if cfg.Queue.Name != "bur.egenbefordring.main" {
		t.Errorf("Expected default queue name bur.egenbefordring.main, got %s", cfg.Queue.Name)
	}
	if cfg.SharePoint.SourceFolder != "General/Til udbetaling" {
		t.Errorf("Expected default source folder, got %s", cfg.SharePoint.SourceFolder)
	}
	if cfg.StatusStore.Procedure != "journalizing.sp_update_status" {
		t.Errorf("Expected default procedure, got %s", cfg.StatusStore.Procedure)
	}
	if cfg.SMTP.Port != 25 {
		t.Errorf("Expected default smtp port 25, got %d", cfg.SMTP.Port)
	}
	if cfg.Opus.Timeout != 300 {
		t.Errorf("Expected default opus timeout 300, got %d", cfg.Opus.Timeout)
	}
	if len(cfg.Denylist) != len(DefaultDenylist) {
		t.Errorf("Expected default denylist with %d entries, got %d", len(DefaultDenylist), len(cfg.Denylist))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}
