package cmd

import (
	"fmt"
	"strconv"

	"ccswitch/config"
	"ccswitch/internal/tui"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove [ordinal]",
	Aliases: []string{"rm"},
	Short:   "Remove an API configuration",
	Long: `Remove a configuration from the saved list. In a terminal an
interactive picker is shown; pass a 1-based ordinal to remove without the
picker. Removing an entry never touches settings.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	configs := loadConfigsLenient(store)
	if len(configs) == 0 {
		fmt.Println("No configurations saved, nothing to remove.")
		return nil
	}

	settings := loadSettingsLenient(store)
	active := config.Resolve(settings, configs)
	activeIdx := activeIndex(configs, active)

	var idx int
	switch {
	case len(args) == 1:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ordinal '%s': expected a number", args[0])
		}
		if n < 1 || n > len(configs) {
			return config.OutOfRangeError(n, len(configs))
		}
		idx = n - 1
	case !tui.IsTerminal():
		printConfigList(configs, activeIdx)
		fmt.Println(detailStyle.Render("Not a terminal, pass an ordinal to remove: ccswitch remove <n>"))
		return nil
	default:
		idx, err = tui.RunPicker("Remove configuration", pickerItems(configs, activeIdx))
		if err != nil {
			return err
		}
		if idx < 0 {
			return nil
		}
	}

	removed := configs[idx]
	if err := store.RemoveAt(idx); err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Removed configuration: %s", removed.Name)))
	if idx == activeIdx {
		fmt.Println(warnStyle.Render(fmt.Sprintf("⚠️  '%s' was the active configuration; settings.json still references it until you switch", removed.Name)))
	}
	return nil
}
