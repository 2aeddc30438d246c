package models

// Config is the canonical in-memory form of one stored configuration.
// Both accepted file shapes (nested config.env and flat fields) are
// normalized into this struct at the storage boundary; downstream code
// never branches on shape.
type Config struct {
	Name      string
	AuthToken string
	BaseURL   string
	Model     string

	// Raw holds the original JSON element this config was parsed from.
	// It is written back verbatim on save so free-form fields survive.
	// Empty for configs created in-process.
	Raw string
}

// HasCredentials reports whether both credential fields were recovered
// from either file shape.
func (c Config) HasCredentials() bool {
	return c.AuthToken != "" && c.BaseURL != ""
}
