package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileExists(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "file.json")

	if FileExists(path) {
		t.Error("Expected FileExists to be false for a missing file")
	}
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if !FileExists(path) {
		t.Error("Expected FileExists to be true for an existing file")
	}
}

func TestAtomicFileUpdate(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "settings.json")

	if err := AtomicFileUpdate(path, `{"a": 1}`, false); err != nil {
		t.Fatalf("AtomicFileUpdate failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != `{"a": 1}` {
		t.Errorf("Unexpected content: %s", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}

	// No temp files left behind
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp") {
			t.Errorf("Temp file left behind: %s", entry.Name())
		}
	}
}

func TestAtomicFileUpdateWithBackup(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "settings.json")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := AtomicFileUpdate(path, "new", true); err != nil {
		t.Fatalf("AtomicFileUpdate failed: %v", err)
	}

	bm := NewBackupManager(DefaultBackupRetention)
	backups, err := bm.ListBackups(path)
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("Expected 1 backup, got %d", len(backups))
	}
	data, err := os.ReadFile(backups[0])
	if err != nil {
		t.Fatalf("Failed to read backup: %v", err)
	}
	if string(data) != "old" {
		t.Errorf("Backup holds wrong content: %s", data)
	}
}

func TestCleanupOldBackups(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "settings.json")

	// Five fake backups with distinct names and mod times
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		backupPath := fmt.Sprintf("%s.backup-2024010112000%d-%d", path, i, os.Getpid())
		if err := os.WriteFile(backupPath, []byte(fmt.Sprintf("backup-%d", i)), 0600); err != nil {
			t.Fatalf("Failed to write backup: %v", err)
		}
		mt := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(backupPath, mt, mt); err != nil {
			t.Fatalf("Failed to set mod time: %v", err)
		}
	}

	bm := NewBackupManager(3)
	if err := bm.CleanupOldBackups(path); err != nil {
		t.Fatalf("CleanupOldBackups failed: %v", err)
	}

	backups, err := bm.ListBackups(path)
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("Expected 3 backups after cleanup, got %d", len(backups))
	}
	// The newest three survive
	data, _ := os.ReadFile(backups[0])
	if string(data) != "backup-2" {
		t.Errorf("Expected oldest survivor to be backup-2, got: %s", data)
	}
}

func TestRestoreFromLatestBackup(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "settings.json")
	if err := os.WriteFile(path, []byte("original"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	bm := NewBackupManager(DefaultBackupRetention)
	if _, err := bm.CreateBackup(path); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("clobbered"), 0600); err != nil {
		t.Fatalf("Failed to overwrite file: %v", err)
	}

	if err := bm.RestoreFromLatestBackup(path); err != nil {
		t.Fatalf("RestoreFromLatestBackup failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != "original" {
		t.Errorf("Expected restored content, got: %s", data)
	}
}

func TestRestoreWithoutBackups(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "settings.json")

	bm := NewBackupManager(DefaultBackupRetention)
	if err := bm.RestoreFromLatestBackup(path); err == nil {
		t.Error("Expected an error when no backups exist")
	}
}
