package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"ccswitch/config/storage"

	"github.com/spf13/cobra"
)

const apiConfigsTemplate = `[
  {
    "name": "example",
    "config": {
      "env": {
        "ANTHROPIC_AUTH_TOKEN": "sk-your-token",
        "ANTHROPIC_BASE_URL": "https://api.anthropic.com"
      },
      "model": ""
    }
  }
]
`

const settingsTemplate = `{
  "env": {}
}
`

var openCmd = &cobra.Command{
	Use:   "o <api|setting>",
	Short: "Open a managed file in $EDITOR",
	Long: `Open the configuration list (api) or the settings file (setting) in
the editor named by $EDITOR, falling back to vi. A missing file is created
from a starter template first.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	var path, template string
	switch args[0] {
	case "api":
		path = store.ConfigsPath()
		template = apiConfigsTemplate
	case "setting", "settings":
		path = store.SettingsPath()
		template = settingsTemplate
	default:
		return fmt.Errorf("unknown target '%s' (expected 'api' or 'setting')", args[0])
	}

	if err := ensureFileWithTemplate(path, template); err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor '%s' failed: %w", editor, err)
	}
	return nil
}

// ensureFileWithTemplate writes the template to path if the file does not
// exist yet.
func ensureFileWithTemplate(path, template string) error {
	if storage.FileExists(path) {
		return nil
	}
	if err := os.WriteFile(path, []byte(template), 0600); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}
