package config

import (
	"testing"

	"ccswitch/config/models"
)

func testConfigs() []models.Config {
	return []models.Config{
		{Name: "A", AuthToken: "tok-a", BaseURL: "https://a.example.com"},
		{Name: "B", AuthToken: "tok-b", BaseURL: "https://b.example.com"},
		{Name: "C", AuthToken: "tok-c", BaseURL: "https://c.example.com"},
	}
}

func TestResolveByName(t *testing.T) {
	configs := testConfigs()
	settings := `{"_configName": "B", "env": {"ANTHROPIC_AUTH_TOKEN": "tok-b", "ANTHROPIC_BASE_URL": "https://b.example.com"}}`

	active := Resolve(settings, configs)
	if active == nil || active.Name != "B" {
		t.Fatalf("Expected B, got: %+v", active)
	}
}

// Name matching wins even when the credential values match a different
// entry, so a rotated token does not flip the active config.
func TestResolveNameBeatsValueMatch(t *testing.T) {
	configs := testConfigs()
	settings := `{"_configName": "B", "env": {"ANTHROPIC_AUTH_TOKEN": "tok-a", "ANTHROPIC_BASE_URL": "https://a.example.com"}}`

	active := Resolve(settings, configs)
	if active == nil || active.Name != "B" {
		t.Fatalf("Expected name match B to win over value match A, got: %+v", active)
	}
}

// A name with no matching entry falls through to value matching.
func TestResolveDanglingNameFallsBack(t *testing.T) {
	configs := testConfigs()
	settings := `{"_configName": "deleted", "env": {"ANTHROPIC_AUTH_TOKEN": "tok-c", "ANTHROPIC_BASE_URL": "https://c.example.com"}}`

	active := Resolve(settings, configs)
	if active == nil || active.Name != "C" {
		t.Fatalf("Expected value-match fallback C, got: %+v", active)
	}
}

func TestResolveByValue(t *testing.T) {
	configs := testConfigs()
	settings := `{"env": {"ANTHROPIC_AUTH_TOKEN": "tok-a", "ANTHROPIC_BASE_URL": "https://a.example.com"}}`

	active := Resolve(settings, configs)
	if active == nil || active.Name != "A" {
		t.Fatalf("Expected A, got: %+v", active)
	}
}

// Value matching requires both fields to match the same entry.
func TestResolveValueMatchRequiresBothFields(t *testing.T) {
	configs := testConfigs()
	settings := `{"env": {"ANTHROPIC_AUTH_TOKEN": "tok-a", "ANTHROPIC_BASE_URL": "https://b.example.com"}}`

	if active := Resolve(settings, configs); active != nil {
		t.Fatalf("Expected nil for a split credential match, got: %+v", active)
	}
}

func TestResolveNoActive(t *testing.T) {
	configs := testConfigs()

	if active := Resolve(`{}`, configs); active != nil {
		t.Errorf("Expected nil for empty settings, got: %+v", active)
	}
	if active := Resolve(`{"env": {}}`, configs); active != nil {
		t.Errorf("Expected nil for empty env, got: %+v", active)
	}
	if active := Resolve(`{"env": {"ANTHROPIC_AUTH_TOKEN": "unknown", "ANTHROPIC_BASE_URL": "https://x.example.com"}}`, configs); active != nil {
		t.Errorf("Expected nil for unknown credentials, got: %+v", active)
	}
}

func TestResolveEmptyList(t *testing.T) {
	settings := `{"_configName": "A"}`
	if active := Resolve(settings, nil); active != nil {
		t.Errorf("Expected nil for an empty config list, got: %+v", active)
	}
}

// Resolve returns a pointer into the given slice so callers can recover
// the index.
func TestResolveIdentity(t *testing.T) {
	configs := testConfigs()
	settings := `{"_configName": "C"}`

	active := Resolve(settings, configs)
	if active != &configs[2] {
		t.Errorf("Expected pointer into the input slice")
	}
}
