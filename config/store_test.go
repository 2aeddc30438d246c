package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ccswitch/config/models"

	"github.com/tidwall/gjson"
)

// setupTestStore creates a store over a temporary directory
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func writeConfigsFile(t *testing.T, store *Store, content string) {
	t.Helper()
	if err := os.WriteFile(store.ConfigsPath(), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write configs file: %v", err)
	}
}

func TestAddAndLoadConfigs(t *testing.T) {
	store := setupTestStore(t)

	cfg := models.Config{
		Name:      "work",
		AuthToken: "sk-test123",
		BaseURL:   "https://api.example.com",
		Model:     "claude-3",
	}
	if err := store.Add(cfg); err != nil {
		t.Fatalf("Failed to add config: %v", err)
	}

	configs, err := store.LoadConfigs()
	if err != nil {
		t.Fatalf("Failed to load configs: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("Expected 1 config, got %d", len(configs))
	}
	got := configs[0]
	if got.Name != "work" || got.AuthToken != "sk-test123" || got.BaseURL != "https://api.example.com" || got.Model != "claude-3" {
		t.Errorf("Loaded config does not match added config: %+v", got)
	}
	if !got.HasCredentials() {
		t.Error("Expected HasCredentials to be true")
	}

	// The on-disk shape is the nested one
	data, err := os.ReadFile(store.ConfigsPath())
	if err != nil {
		t.Fatalf("Failed to read configs file: %v", err)
	}
	if gjson.GetBytes(data, "0.config.env.ANTHROPIC_AUTH_TOKEN").String() != "sk-test123" {
		t.Errorf("Expected nested on-disk shape, got: %s", data)
	}
}

func TestAddDuplicateName(t *testing.T) {
	store := setupTestStore(t)

	cfg := models.Config{Name: "work", AuthToken: "sk-a", BaseURL: "https://a.example.com"}
	if err := store.Add(cfg); err != nil {
		t.Fatalf("Failed to add config: %v", err)
	}

	dup := models.Config{Name: "work", AuthToken: "sk-b", BaseURL: "https://b.example.com"}
	err := store.Add(dup)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("Expected ErrDuplicateName, got: %v", err)
	}

	// The stored list is unchanged after the rejected add
	configs, err := store.LoadConfigs()
	if err != nil {
		t.Fatalf("Failed to load configs: %v", err)
	}
	if len(configs) != 1 || configs[0].AuthToken != "sk-a" {
		t.Errorf("List changed after rejected duplicate add: %+v", configs)
	}

	// Name comparison is case-sensitive: "Work" is a different name
	other := models.Config{Name: "Work", AuthToken: "sk-b", BaseURL: "https://b.example.com"}
	if err := store.Add(other); err != nil {
		t.Errorf("Expected case-different name to be accepted, got: %v", err)
	}
}

func TestAddInvalidConfig(t *testing.T) {
	store := setupTestStore(t)

	cases := []models.Config{
		{Name: "", AuthToken: "sk-a", BaseURL: "https://a.example.com"},
		{Name: "bad/name", AuthToken: "sk-a", BaseURL: "https://a.example.com"},
		{Name: "work", AuthToken: "", BaseURL: "https://a.example.com"},
		{Name: "work", AuthToken: "sk-a", BaseURL: "not a url"},
	}
	for _, cfg := range cases {
		if err := store.Add(cfg); err == nil {
			t.Errorf("Expected validation error for %+v", cfg)
		}
	}
}

func TestLoadConfigsFlatShape(t *testing.T) {
	store := setupTestStore(t)
	writeConfigsFile(t, store, `[
		{"name": "legacy", "ANTHROPIC_AUTH_TOKEN": "sk-flat", "ANTHROPIC_BASE_URL": "https://flat.example.com", "model": "m1"}
	]`)

	configs, err := store.LoadConfigs()
	if err != nil {
		t.Fatalf("Failed to load configs: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("Expected 1 config, got %d", len(configs))
	}
	got := configs[0]
	if got.AuthToken != "sk-flat" || got.BaseURL != "https://flat.example.com" || got.Model != "m1" {
		t.Errorf("Flat shape not normalized: %+v", got)
	}
}

func TestLoadConfigsNestedShapeWins(t *testing.T) {
	store := setupTestStore(t)
	writeConfigsFile(t, store, `[
		{
			"name": "both",
			"ANTHROPIC_AUTH_TOKEN": "sk-flat",
			"ANTHROPIC_BASE_URL": "https://flat.example.com",
			"config": {"env": {"ANTHROPIC_AUTH_TOKEN": "sk-nested", "ANTHROPIC_BASE_URL": "https://nested.example.com"}}
		}
	]`)

	configs, err := store.LoadConfigs()
	if err != nil {
		t.Fatalf("Failed to load configs: %v", err)
	}
	if configs[0].AuthToken != "sk-nested" || configs[0].BaseURL != "https://nested.example.com" {
		t.Errorf("Expected nested shape to win: %+v", configs[0])
	}
}

func TestLoadConfigsPartialShape(t *testing.T) {
	store := setupTestStore(t)
	writeConfigsFile(t, store, `[{"name": "partial", "ANTHROPIC_AUTH_TOKEN": "sk-only"}]`)

	configs, err := store.LoadConfigs()
	if err != nil {
		t.Fatalf("Failed to load configs: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("Expected 1 config, got %d", len(configs))
	}
	if configs[0].HasCredentials() {
		t.Error("Expected HasCredentials to be false for a partial entry")
	}
	if configs[0].AuthToken != "sk-only" {
		t.Errorf("Partial entry lost its token: %+v", configs[0])
	}
}

func TestLoadConfigsWrappedObject(t *testing.T) {
	store := setupTestStore(t)
	writeConfigsFile(t, store, `{"configs": [{"name": "wrapped", "ANTHROPIC_AUTH_TOKEN": "sk-w", "ANTHROPIC_BASE_URL": "https://w.example.com"}]}`)

	configs, err := store.LoadConfigs()
	if err != nil {
		t.Fatalf("Failed to load configs: %v", err)
	}
	if len(configs) != 1 || configs[0].Name != "wrapped" {
		t.Errorf("Wrapped object form not accepted: %+v", configs)
	}
}

func TestLoadConfigsMissingFile(t *testing.T) {
	store := setupTestStore(t)

	configs, err := store.LoadConfigs()
	if err != nil {
		t.Fatalf("Expected missing file to yield empty list, got: %v", err)
	}
	if len(configs) != 0 {
		t.Errorf("Expected empty list, got %d configs", len(configs))
	}
}

func TestLoadConfigsMalformed(t *testing.T) {
	store := setupTestStore(t)
	writeConfigsFile(t, store, `{not json`)

	_, err := store.LoadConfigs()
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Expected ErrParse, got: %v", err)
	}
}

func TestRemoveAt(t *testing.T) {
	store := setupTestStore(t)
	for _, name := range []string{"a", "b", "c"} {
		cfg := models.Config{Name: name, AuthToken: "sk-" + name, BaseURL: "https://" + name + ".example.com"}
		if err := store.Add(cfg); err != nil {
			t.Fatalf("Failed to add config %s: %v", name, err)
		}
	}

	if err := store.RemoveAt(1); err != nil {
		t.Fatalf("Failed to remove config: %v", err)
	}

	configs, err := store.LoadConfigs()
	if err != nil {
		t.Fatalf("Failed to load configs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d", len(configs))
	}
	if configs[0].Name != "a" || configs[1].Name != "c" {
		t.Errorf("Remaining configs lost order or identity: %s, %s", configs[0].Name, configs[1].Name)
	}
}

func TestRemoveAtOutOfRange(t *testing.T) {
	store := setupTestStore(t)
	cfg := models.Config{Name: "only", AuthToken: "sk-a", BaseURL: "https://a.example.com"}
	if err := store.Add(cfg); err != nil {
		t.Fatalf("Failed to add config: %v", err)
	}

	for _, idx := range []int{-1, 1, 5} {
		if err := store.RemoveAt(idx); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("RemoveAt(%d): expected ErrOutOfRange, got: %v", idx, err)
		}
	}

	configs, _ := store.LoadConfigs()
	if len(configs) != 1 {
		t.Errorf("List changed after rejected remove: %d configs", len(configs))
	}
}

// Free-form fields on a stored entry must survive unrelated mutations.
func TestMutationsPreserveExtraFields(t *testing.T) {
	store := setupTestStore(t)
	writeConfigsFile(t, store, `[
		{"name": "first", "ANTHROPIC_AUTH_TOKEN": "sk-1", "ANTHROPIC_BASE_URL": "https://one.example.com", "notes": "keep me", "priority": 3},
		{"name": "second", "ANTHROPIC_AUTH_TOKEN": "sk-2", "ANTHROPIC_BASE_URL": "https://two.example.com"}
	]`)

	cfg := models.Config{Name: "third", AuthToken: "sk-3", BaseURL: "https://three.example.com"}
	if err := store.Add(cfg); err != nil {
		t.Fatalf("Failed to add config: %v", err)
	}
	if err := store.RemoveAt(1); err != nil {
		t.Fatalf("Failed to remove config: %v", err)
	}

	data, err := os.ReadFile(store.ConfigsPath())
	if err != nil {
		t.Fatalf("Failed to read configs file: %v", err)
	}
	if gjson.GetBytes(data, "0.notes").String() != "keep me" {
		t.Errorf("Free-form string field lost: %s", data)
	}
	if gjson.GetBytes(data, "0.priority").Int() != 3 {
		t.Errorf("Free-form number field lost: %s", data)
	}
	if gjson.GetBytes(data, "1.name").String() != "third" {
		t.Errorf("Unexpected list content after mutations: %s", data)
	}
}

func TestLoadSettingsMissing(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("Expected missing settings to yield default, got: %v", err)
	}
	if settings != "{}" {
		t.Errorf("Expected '{}', got: %s", settings)
	}
}

func TestLoadSettingsMalformed(t *testing.T) {
	store := setupTestStore(t)
	if err := os.WriteFile(store.SettingsPath(), []byte("{broken"), 0600); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}

	settings, err := store.LoadSettings()
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Expected ErrParse, got: %v", err)
	}
	if settings != "{}" {
		t.Errorf("Expected degraded '{}' alongside the error, got: %s", settings)
	}
}

func TestSaveSettingsCreatesBackup(t *testing.T) {
	store := setupTestStore(t)
	if err := os.WriteFile(store.SettingsPath(), []byte(`{"old": true}`), 0600); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}

	if err := store.SaveSettings(`{"new": true}`); err != nil {
		t.Fatalf("Failed to save settings: %v", err)
	}

	data, err := os.ReadFile(store.SettingsPath())
	if err != nil {
		t.Fatalf("Failed to read settings file: %v", err)
	}
	if string(data) != `{"new": true}` {
		t.Errorf("Settings not updated: %s", data)
	}

	backups, err := filepath.Glob(store.SettingsPath() + ".backup-*")
	if err != nil {
		t.Fatalf("Failed to glob backups: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("Expected 1 backup, got %d", len(backups))
	}
	backup, err := os.ReadFile(backups[0])
	if err != nil {
		t.Fatalf("Failed to read backup: %v", err)
	}
	if string(backup) != `{"old": true}` {
		t.Errorf("Backup does not hold previous content: %s", backup)
	}
}

func TestSaveSettingsFirstWrite(t *testing.T) {
	store := setupTestStore(t)

	if err := store.SaveSettings(`{"env": {}}`); err != nil {
		t.Fatalf("Failed to save settings: %v", err)
	}
	backups, _ := filepath.Glob(store.SettingsPath() + ".backup-*")
	if len(backups) != 0 {
		t.Errorf("Expected no backup on first write, got %d", len(backups))
	}
}

func TestDefaultDirOverride(t *testing.T) {
	t.Setenv("CCSWITCH_CONFIG_DIR", "/tmp/ccswitch-test-dir")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("DefaultDir failed: %v", err)
	}
	if dir != "/tmp/ccswitch-test-dir" {
		t.Errorf("Expected env override, got: %s", dir)
	}
}
