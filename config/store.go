package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"ccswitch/config/models"
	"ccswitch/config/storage"
	"ccswitch/config/validation"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Managed file names inside the config directory.
const (
	ConfigsFileName  = "api_configs.json"
	SettingsFileName = "settings.json"
)

// Store reads and writes the two managed JSON documents: the configuration
// list and the Claude Code settings file. All operations take the config
// directory through the Store rather than a process-wide path.
type Store struct {
	dir string
	mu  sync.Mutex // protects read-modify-write cycles within the process
}

// DefaultDir returns the config directory, honoring CCSWITCH_CONFIG_DIR.
func DefaultDir() (string, error) {
	if dir := os.Getenv("CCSWITCH_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude"), nil
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the config directory.
func (s *Store) Dir() string {
	return s.dir
}

// ConfigsPath returns the path to the configuration list file.
func (s *Store) ConfigsPath() string {
	return filepath.Join(s.dir, ConfigsFileName)
}

// SettingsPath returns the path to the settings file.
func (s *Store) SettingsPath() string {
	return filepath.Join(s.dir, SettingsFileName)
}

// readFileLocked reads a managed file under a shared lock. A missing file
// yields missingDefault rather than an error.
func (s *Store) readFileLocked(path, missingDefault string) (string, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0600)
	if err != nil {
		if os.IsNotExist(err) {
			return missingDefault, nil
		}
		return "", fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	if err := lockFileShared(file); err != nil {
		return "", fmt.Errorf("failed to lock %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if err := unlockFile(file); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to unlock file: %v\n", err)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return missingDefault, nil
	}
	return string(data), nil
}

// loadRawConfigs returns the raw JSON array of stored configurations.
// A missing or empty file yields "[]". An object wrapper with a "configs"
// array (written by older releases) is also accepted.
func (s *Store) loadRawConfigs() (string, error) {
	raw, err := s.readFileLocked(s.ConfigsPath(), "[]")
	if err != nil {
		return "", err
	}
	if !gjson.Valid(raw) {
		return "", fmt.Errorf("%w in %s", ErrParse, ConfigsFileName)
	}
	parsed := gjson.Parse(raw)
	if parsed.IsArray() {
		return raw, nil
	}
	if wrapped := parsed.Get("configs"); wrapped.IsArray() {
		return wrapped.Raw, nil
	}
	return "", fmt.Errorf("%w in %s: expected a JSON array", ErrParse, ConfigsFileName)
}

// parseConfig normalizes one list element into the canonical Config.
// The nested config.env shape wins when it yields both credential fields,
// then the flat shape; a partial element keeps whatever fields were found
// (HasCredentials reports false for it).
func parseConfig(el gjson.Result) models.Config {
	cfg := models.Config{
		Name: el.Get("name").String(),
		Raw:  el.Raw,
	}

	nestedToken := el.Get("config.env.ANTHROPIC_AUTH_TOKEN").String()
	nestedURL := el.Get("config.env.ANTHROPIC_BASE_URL").String()
	flatToken := el.Get("ANTHROPIC_AUTH_TOKEN").String()
	flatURL := el.Get("ANTHROPIC_BASE_URL").String()

	switch {
	case nestedToken != "" && nestedURL != "":
		cfg.AuthToken, cfg.BaseURL = nestedToken, nestedURL
	case flatToken != "" && flatURL != "":
		cfg.AuthToken, cfg.BaseURL = flatToken, flatURL
	default:
		cfg.AuthToken = firstNonEmpty(nestedToken, flatToken)
		cfg.BaseURL = firstNonEmpty(nestedURL, flatURL)
	}

	if m := el.Get("config.model"); m.Exists() {
		cfg.Model = m.String()
	} else {
		cfg.Model = el.Get("model").String()
	}
	return cfg
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// LoadConfigs loads and normalizes all stored configurations. Order is
// preserved as display order.
func (s *Store) LoadConfigs() ([]models.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.loadRawConfigs()
	if err != nil {
		return nil, err
	}

	configs := []models.Config{}
	gjson.Parse(raw).ForEach(func(_, el gjson.Result) bool {
		configs = append(configs, parseConfig(el))
		return true
	})
	return configs, nil
}

// saveRawConfigs writes the raw JSON array back under an exclusive lock.
func (s *Store) saveRawConfigs(raw string) error {
	var indented bytes.Buffer
	if err := json.Indent(&indented, []byte(raw), "", "  "); err != nil {
		return fmt.Errorf("failed to serialize configuration list: %w", err)
	}

	file, err := os.OpenFile(s.ConfigsPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", ConfigsFileName, err)
	}
	defer file.Close()

	if err := lockFileExclusive(file); err != nil {
		return fmt.Errorf("failed to lock %s: %w", ConfigsFileName, err)
	}
	defer func() {
		if err := unlockFile(file); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to unlock file: %v\n", err)
		}
	}()

	if _, err := file.Write(indented.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %w", ConfigsFileName, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", ConfigsFileName, err)
	}
	return nil
}

// Add appends a new configuration in the nested shape. The name must not
// collide with any existing name (case-sensitive); existing entries are
// never mutated.
func (s *Store) Add(cfg models.Config) error {
	if err := validation.ValidateConfig(cfg); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.loadRawConfigs()
	if err != nil {
		return err
	}

	var dup bool
	gjson.Parse(raw).ForEach(func(_, el gjson.Result) bool {
		if el.Get("name").String() == cfg.Name {
			dup = true
			return false
		}
		return true
	})
	if dup {
		return DuplicateNameError(cfg.Name)
	}

	elem, err := marshalNested(cfg)
	if err != nil {
		return err
	}
	updated, err := sjson.SetRaw(raw, "-1", elem)
	if err != nil {
		return fmt.Errorf("failed to append configuration: %w", err)
	}
	return s.saveRawConfigs(updated)
}

// marshalNested builds the nested on-disk shape for a new configuration.
func marshalNested(cfg models.Config) (string, error) {
	env := map[string]string{
		"ANTHROPIC_AUTH_TOKEN": cfg.AuthToken,
		"ANTHROPIC_BASE_URL":   cfg.BaseURL,
	}
	inner := map[string]interface{}{"env": env}
	if cfg.Model != "" {
		inner["model"] = cfg.Model
	}
	elem := map[string]interface{}{
		"name":   cfg.Name,
		"config": inner,
	}
	data, err := json.Marshal(elem)
	if err != nil {
		return "", fmt.Errorf("failed to serialize configuration: %w", err)
	}
	return string(data), nil
}

// RemoveAt deletes the configuration at the given zero-based index. Every
// other element keeps its identity and order. The settings file is never
// touched here, even when the removed entry was the active one.
func (s *Store) RemoveAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.loadRawConfigs()
	if err != nil {
		return err
	}

	count := int(gjson.Parse(raw).Get("#").Int())
	if index < 0 || index >= count {
		return OutOfRangeError(index+1, count)
	}

	updated, err := sjson.Delete(raw, strconv.Itoa(index))
	if err != nil {
		return fmt.Errorf("failed to remove configuration: %w", err)
	}
	return s.saveRawConfigs(updated)
}

// LoadSettings returns the raw settings document. A missing or empty file
// yields "{}"; malformed JSON is reported as ErrParse with "{}" so
// read-only callers can degrade.
func (s *Store) LoadSettings() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.readFileLocked(s.SettingsPath(), "{}")
	if err != nil {
		return "{}", err
	}
	if !gjson.Valid(raw) {
		return "{}", fmt.Errorf("%w in %s", ErrParse, SettingsFileName)
	}
	return raw, nil
}

// SaveSettings writes the settings document atomically (temp file plus
// rename) with a timestamped backup of the previous content. A failed
// write never leaves a partially-written settings file behind.
func (s *Store) SaveSettings(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.SettingsPath()
	withBackup := storage.FileExists(path)
	if err := storage.AtomicFileUpdate(path, content, withBackup); err != nil {
		if withBackup {
			bm := storage.NewBackupManager(storage.DefaultBackupRetention)
			if restoreErr := bm.RestoreFromLatestBackup(path); restoreErr != nil {
				return fmt.Errorf("failed to write settings and to restore backup: write error=%v, restore error=%v", err, restoreErr)
			}
		}
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
