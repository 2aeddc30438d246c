// Package validation validates stored configurations and user input
// before they reach the config store.
package validation

import (
	"fmt"
	"strings"

	"ccswitch/config/models"
	"ccswitch/internal/utils"
)

// ValidateName checks a configuration name for use as a list key.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.ContainsAny(name, "<>\"'&/\\") {
		return fmt.Errorf("name contains invalid characters")
	}
	if len(name) > 50 {
		return fmt.Errorf("name is too long (max 50 characters)")
	}
	return nil
}

// ValidateBaseURL checks that a base URL is non-empty and well-formed.
func ValidateBaseURL(baseURL string) error {
	if strings.TrimSpace(baseURL) == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if !utils.ValidateURL(baseURL) {
		return fmt.Errorf("invalid URL format: %s", baseURL)
	}
	return nil
}

// ValidateAuthToken checks that an auth token is non-empty.
func ValidateAuthToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("auth token cannot be empty")
	}
	return nil
}

// ValidateConfig validates a configuration before it is stored.
func ValidateConfig(cfg models.Config) error {
	if err := ValidateName(cfg.Name); err != nil {
		return err
	}
	if err := ValidateAuthToken(cfg.AuthToken); err != nil {
		return err
	}
	return ValidateBaseURL(cfg.BaseURL)
}
