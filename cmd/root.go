package cmd

import (
	"fmt"
	"os"

	"ccswitch/config"
	"ccswitch/config/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Version information
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var rootCmd = &cobra.Command{
	Use:   "ccswitch",
	Short: "Switch Claude Code API endpoint configurations",
	Long: `A command line tool for switching between named API endpoint
configurations for Claude Code. Switching rewrites only the managed fields
in settings.json and preserves every other user customization.`,
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`ccswitch {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)
	return rootCmd.Execute()
}

// openStore creates the config store over the default directory.
func openStore() (*config.Store, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}
	return config.NewStore(dir)
}

// loadConfigsLenient loads the configuration list, degrading to an empty
// list with a warning on a missing or malformed file so read-only commands
// stay usable.
func loadConfigsLenient(store *config.Store) []models.Config {
	configs, err := store.LoadConfigs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", warnStyle.Render(fmt.Sprintf("⚠️  %v, treating configuration list as empty", err)))
		return []models.Config{}
	}
	return configs
}

// loadSettingsLenient loads the settings document, degrading to "{}" with
// a warning on malformed JSON.
func loadSettingsLenient(store *config.Store) string {
	settings, err := store.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", warnStyle.Render(fmt.Sprintf("⚠️  %v, no active configuration can be resolved", err)))
		return "{}"
	}
	return settings
}

// activeIndex returns the index of the resolved active config in configs,
// or -1.
func activeIndex(configs []models.Config, active *models.Config) int {
	if active == nil {
		return -1
	}
	for i := range configs {
		if &configs[i] == active {
			return i
		}
	}
	return -1
}
