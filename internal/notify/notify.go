// Package notify manages the webhook notification setup: a webhook URL
// stored in the config directory and a generated hook script. It shares
// nothing with the configuration store beyond the directory path.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"ccswitch/config/storage"
)

// File names inside the config directory.
const (
	SettingsFileName = "notify.json"
	ScriptFileName   = "ccswitch-notify.sh"
)

// DefaultTestTimeout bounds the webhook test request.
const DefaultTestTimeout = 30 * time.Second

// Settings is the stored webhook configuration.
type Settings struct {
	WebhookURL string    `json:"webhook_url"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SettingsPath returns the path of the notification settings file.
func SettingsPath(dir string) string {
	return filepath.Join(dir, SettingsFileName)
}

// ScriptPath returns the path of the generated hook script.
func ScriptPath(dir string) string {
	return filepath.Join(dir, ScriptFileName)
}

// Load reads the notification settings. A missing file yields (nil, nil).
func Load(dir string) (*Settings, error) {
	data, err := os.ReadFile(SettingsPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read notification settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse notification settings: %w", err)
	}
	return &settings, nil
}

// Save writes the notification settings atomically.
func Save(dir string, settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize notification settings: %w", err)
	}
	if err := storage.AtomicFileUpdate(SettingsPath(dir), string(data), false); err != nil {
		return fmt.Errorf("failed to write notification settings: %w", err)
	}
	return nil
}

// Test posts a test payload to the webhook and returns the HTTP status and
// request latency.
func Test(webhookURL string, timeout time.Duration) (int, time.Duration, error) {
	payload, err := json.Marshal(map[string]string{
		"event":   "test",
		"source":  "ccswitch",
		"message": "ccswitch notification test",
		"time":    time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build test payload: %w", err)
	}

	client := &http.Client{Timeout: timeout}
	start := time.Now()
	resp, err := client.Post(webhookURL, "application/json", bytes.NewReader(payload))
	latency := time.Since(start)
	if err != nil {
		return 0, latency, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, latency, nil
}
