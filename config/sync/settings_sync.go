// Package sync applies a selected configuration to the Claude Code
// settings document, touching only the three managed fields.
package sync

import (
	"encoding/json"
	"fmt"
	"strings"

	"ccswitch/config"
	"ccswitch/config/models"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// The managed fields. Everything else in the settings document is opaque
// passthrough and must survive every write unchanged.
const (
	nameField  = "_configName"
	tokenField = "env.ANTHROPIC_AUTH_TOKEN"
	urlField   = "env.ANTHROPIC_BASE_URL"
)

// Apply sets the active config name and the two credential fields in the
// settings JSON and returns the updated document. The update is surgical:
// sjson rewrites only the targeted paths, so unrelated keys keep their
// position and value. An empty document is treated as "{}" (first write).
func Apply(cfg models.Config, settingsJSON string) (string, error) {
	if !cfg.HasCredentials() {
		return "", fmt.Errorf("%w: '%s'", config.ErrInvalidConfigShape, cfg.Name)
	}

	original := settingsJSON
	if strings.TrimSpace(original) == "" {
		original = "{}"
	}
	if !gjson.Valid(original) {
		return "", fmt.Errorf("%w in settings document", config.ErrParse)
	}

	updated, err := sjson.Set(original, nameField, cfg.Name)
	if err != nil {
		return "", fmt.Errorf("failed to set %s: %w", nameField, err)
	}
	updated, err = sjson.Set(updated, tokenField, cfg.AuthToken)
	if err != nil {
		return "", fmt.Errorf("failed to set %s: %w", tokenField, err)
	}
	updated, err = sjson.Set(updated, urlField, cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to set %s: %w", urlField, err)
	}

	if err := validateSettingsUpdate(original, updated); err != nil {
		return "", fmt.Errorf("update validation failed: %w", err)
	}
	return updated, nil
}

// validateSettingsUpdate verifies that only the managed fields changed
// between the original and updated documents.
func validateSettingsUpdate(originalContent, updatedContent string) error {
	if !json.Valid([]byte(updatedContent)) {
		return fmt.Errorf("updated JSON is invalid")
	}

	original, updated, err := parseToMaps(originalContent, updatedContent)
	if err != nil {
		return err
	}

	differences := deepCompare(original, updated)
	if len(differences) > 0 {
		return fmt.Errorf("unexpected changes outside managed fields: %s", strings.Join(differences, ", "))
	}

	originalEnv := extractEnv(original)
	updatedEnv := extractEnv(updated)
	for key, originalVal := range originalEnv {
		if key == "ANTHROPIC_AUTH_TOKEN" || key == "ANTHROPIC_BASE_URL" {
			continue
		}
		updatedVal, exists := updatedEnv[key]
		if !exists {
			return fmt.Errorf("unmanaged env field '%s' was deleted", key)
		}
		if fmt.Sprintf("%v", originalVal) != fmt.Sprintf("%v", updatedVal) {
			return fmt.Errorf("unmanaged env field '%s' was modified", key)
		}
	}
	return nil
}

func parseToMaps(originalStr, updatedStr string) (map[string]interface{}, map[string]interface{}, error) {
	var original map[string]interface{}
	if err := json.Unmarshal([]byte(originalStr), &original); err != nil {
		return nil, nil, fmt.Errorf("failed to parse original JSON: %w", err)
	}
	var updated map[string]interface{}
	if err := json.Unmarshal([]byte(updatedStr), &updated); err != nil {
		return nil, nil, fmt.Errorf("failed to parse updated JSON: %w", err)
	}
	return original, updated, nil
}

// deepCompare returns the fields that differ between the two documents,
// skipping the top-level keys the merger is allowed to touch.
func deepCompare(original, updated map[string]interface{}) []string {
	var differences []string

	for key, originalVal := range original {
		if key == "env" || key == "_configName" {
			// checked separately
			continue
		}

		updatedVal, exists := updated[key]
		if !exists {
			differences = append(differences, key+" (missing)")
			continue
		}

		originalMap, originalIsMap := originalVal.(map[string]interface{})
		updatedMap, updatedIsMap := updatedVal.(map[string]interface{})
		if originalIsMap && updatedIsMap {
			for _, diff := range deepCompareNested(originalMap, updatedMap) {
				differences = append(differences, key+"."+diff)
			}
		} else if fmt.Sprintf("%v", originalVal) != fmt.Sprintf("%v", updatedVal) {
			differences = append(differences, key)
		}
	}

	for key := range updated {
		if key == "env" || key == "_configName" {
			continue
		}
		if _, exists := original[key]; !exists {
			differences = append(differences, key+" (new)")
		}
	}
	return differences
}

// deepCompareNested compares nested maps with no managed-field exemptions.
func deepCompareNested(original, updated map[string]interface{}) []string {
	var differences []string

	for key, originalVal := range original {
		updatedVal, exists := updated[key]
		if !exists {
			differences = append(differences, key+" (missing)")
			continue
		}
		originalMap, originalIsMap := originalVal.(map[string]interface{})
		updatedMap, updatedIsMap := updatedVal.(map[string]interface{})
		if originalIsMap && updatedIsMap {
			for _, diff := range deepCompareNested(originalMap, updatedMap) {
				differences = append(differences, key+"."+diff)
			}
		} else if fmt.Sprintf("%v", originalVal) != fmt.Sprintf("%v", updatedVal) {
			differences = append(differences, key)
		}
	}
	for key := range updated {
		if _, exists := original[key]; !exists {
			differences = append(differences, key+" (new)")
		}
	}
	return differences
}

func extractEnv(doc map[string]interface{}) map[string]interface{} {
	env, exists := doc["env"]
	if !exists {
		return map[string]interface{}{}
	}
	envMap, ok := env.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return envMap
}
