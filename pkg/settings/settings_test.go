package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettings_Defaults(t *testing.T) {
	s := &Settings{}

	if s.DefaultTestbed != "" {
		t.Errorf("DefaultTestbed should be empty, got %q", s.DefaultTestbed)
	}
	if s.DefaultSession != "" {
		t.Errorf("DefaultSession should be empty, got %q", s.DefaultSession)
	}
	if s.RecordResults {
		t.Error("RecordResults should default to false")
	}
}

func TestSettings_SettersGetters(t *testing.T) {
	s := &Settings{}

	s.SetTestbed("/lab/testbed.yaml")
	if s.DefaultTestbed != "/lab/testbed.yaml" {
		t.Errorf("SetTestbed() failed, got %q", s.DefaultTestbed)
	}

	s.SetSession("ix1")
	if s.DefaultSession != "ix1" {
		t.Errorf("SetSession() failed, got %q", s.DefaultSession)
	}

	s.SetLogDir("/var/log/tgen")
	if s.LogDir != "/var/log/tgen" {
		t.Errorf("SetLogDir() failed, got %q", s.LogDir)
	}
}

func TestSettings_Clear(t *testing.T) {
	s := &Settings{
		DefaultTestbed: "/lab/testbed.yaml",
		DefaultSession: "ix1",
		LogDir:         "/path",
		RecordResults:  true,
	}

	s.Clear()

	if s.DefaultTestbed != "" || s.DefaultSession != "" || s.LogDir != "" || s.RecordResults {
		t.Error("Clear() should reset all fields to empty")
	}
}

func TestSettings_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	original := &Settings{
		DefaultTestbed: "/lab/testbed.yaml",
		DefaultSession: "ix1",
		LogDir:         "/var/log/tgen",
		RecordResults:  true,
	}

	if err := original.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}

	if loaded.DefaultTestbed != original.DefaultTestbed {
		t.Errorf("DefaultTestbed mismatch: got %q, want %q", loaded.DefaultTestbed, original.DefaultTestbed)
	}
	if loaded.DefaultSession != original.DefaultSession {
		t.Errorf("DefaultSession mismatch: got %q, want %q", loaded.DefaultSession, original.DefaultSession)
	}
	if loaded.LogDir != original.LogDir {
		t.Errorf("LogDir mismatch: got %q, want %q", loaded.LogDir, original.LogDir)
	}
	if !loaded.RecordResults {
		t.Error("RecordResults should be preserved after save/load")
	}
}

func TestSettings_LoadNonExistent(t *testing.T) {
	// Load from non-existent path should return empty settings
	s, err := LoadFrom("/nonexistent/path/settings.json")
	if err != nil {
		t.Fatalf("LoadFrom() non-existent should not error: %v", err)
	}
	if s == nil {
		t.Fatal("LoadFrom() should return non-nil Settings")
	}
	if s.DefaultTestbed != "" || s.DefaultSession != "" {
		t.Error("LoadFrom() non-existent should return empty settings")
	}
}

func TestSettings_LoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("invalid json {"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() with invalid JSON should error")
	}
}

func TestSettings_SaveCreatesDirectory(t *testing.T) {
	// Path with non-existent directory
	path := filepath.Join(t.TempDir(), "subdir", "nested", "settings.json")

	s := &Settings{DefaultSession: "ix1"}
	if err := s.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() should create directories: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("SaveTo() should have created the file")
	}
}

func TestDefaultSettingsPath(t *testing.T) {
	path := DefaultSettingsPath()
	if path == "" {
		t.Error("DefaultSettingsPath() should not be empty")
	}
	if !filepath.IsAbs(path) && path != "tgen_settings.json" {
		t.Errorf("DefaultSettingsPath() should be absolute or fallback, got %q", path)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	// Load() with non-existent settings should return empty
	s, err := Load()
	if err != nil {
		t.Fatalf("Load() with non-existent file should not error: %v", err)
	}
	if s == nil {
		t.Fatal("Load() should return non-nil Settings")
	}
	if s.DefaultTestbed != "" {
		t.Error("Load() with non-existent file should return empty settings")
	}

	tgenDir := filepath.Join(tmpDir, ".tgen")
	if err := os.MkdirAll(tgenDir, 0755); err != nil {
		t.Fatalf("Failed to create .tgen dir: %v", err)
	}

	settingsPath := filepath.Join(tgenDir, "settings.json")
	testSettings := `{"default_testbed":"/lab/tb.yaml","default_session":"ix2"}`
	if err := os.WriteFile(settingsPath, []byte(testSettings), 0644); err != nil {
		t.Fatalf("Failed to write test settings: %v", err)
	}

	s, err = Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.DefaultTestbed != "/lab/tb.yaml" {
		t.Errorf("Load() DefaultTestbed = %q, want %q", s.DefaultTestbed, "/lab/tb.yaml")
	}
	if s.DefaultSession != "ix2" {
		t.Errorf("Load() DefaultSession = %q, want %q", s.DefaultSession, "ix2")
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	s := &Settings{
		DefaultTestbed: "/lab/tb.yaml",
		DefaultSession: "ix1",
	}

	if err := s.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	expectedPath := filepath.Join(tmpDir, ".tgen", "settings.json")
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Fatalf("Save() did not create file at %s", expectedPath)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after Save() failed: %v", err)
	}
	if loaded.DefaultTestbed != "/lab/tb.yaml" {
		t.Errorf("After Save(), DefaultTestbed = %q, want %q", loaded.DefaultTestbed, "/lab/tb.yaml")
	}
	if loaded.DefaultSession != "ix1" {
		t.Errorf("After Save(), DefaultSession = %q, want %q", loaded.DefaultSession, "ix1")
	}
}

func TestLoadFrom_ReadError(t *testing.T) {
	// A directory where the file should be causes a read error
	dirAsFile := filepath.Join(t.TempDir(), "settings.json")
	if err := os.Mkdir(dirAsFile, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := LoadFrom(dirAsFile); err == nil {
		t.Error("LoadFrom() should error when path is a directory")
	}
}

func TestSaveTo_MkdirError(t *testing.T) {
	// A file blocking the directory path makes MkdirAll fail
	blockingFile := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blockingFile, []byte("blocking"), 0644); err != nil {
		t.Fatalf("Failed to create blocking file: %v", err)
	}

	path := filepath.Join(blockingFile, "subdir", "settings.json")
	s := &Settings{DefaultSession: "ix1"}

	if err := s.SaveTo(path); err == nil {
		t.Error("SaveTo() should fail when directory creation fails")
	}
}
