package config

import (
	"ccswitch/config/models"

	"github.com/tidwall/gjson"
)

// Resolve determines which stored configuration matches the settings
// document. Name matching on _configName runs first (first match wins, it
// survives credential rotation); value matching on both credential fields
// covers settings written before the name field existed or hand-edited
// since. Returning nil means no active configuration, which is a valid
// state, not an error.
func Resolve(settingsJSON string, configs []models.Config) *models.Config {
	if len(configs) == 0 {
		return nil
	}

	if name := gjson.Get(settingsJSON, "_configName").String(); name != "" {
		for i := range configs {
			if configs[i].Name == name {
				return &configs[i]
			}
		}
	}

	token := gjson.Get(settingsJSON, "env.ANTHROPIC_AUTH_TOKEN").String()
	baseURL := gjson.Get(settingsJSON, "env.ANTHROPIC_BASE_URL").String()
	if token == "" && baseURL == "" {
		return nil
	}
	for i := range configs {
		if configs[i].AuthToken == token && configs[i].BaseURL == baseURL {
			return &configs[i]
		}
	}
	return nil
}
