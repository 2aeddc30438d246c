package cmd

import (
	"fmt"
	"strconv"

	"ccswitch/config"
	"ccswitch/config/models"
	syncpkg "ccswitch/config/sync"
	"ccswitch/internal/tui"
	"ccswitch/internal/utils"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list [ordinal]",
	Aliases: []string{"ls"},
	Short:   "List configurations and switch to one",
	Long: `List the saved API configurations. In a terminal an interactive picker
is shown; selecting an entry makes it the active configuration. Pass a
1-based ordinal to switch without the picker.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	configs := loadConfigsLenient(store)
	if len(configs) == 0 {
		fmt.Println("No configurations saved. Run 'ccswitch add' to create one.")
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
		fmt.Println(detailStyle.Render("Not a terminal, pass an ordinal to switch: ccswitch list <n>"))
		return nil
	default:
		idx, err = tui.RunPicker("Select configuration", pickerItems(configs, activeIdx))
		if err != nil {
			return err
		}
		if idx < 0 {
			return nil
		}
	}

	if idx == activeIdx {
		fmt.Printf("'%s' is already the active configuration\n", configs[idx].Name)
		return nil
	}
	return switchTo(store, configs[idx])
}

// switchTo rewrites the managed settings fields to point at cfg.
func switchTo(store *config.Store, cfg models.Config) error {
	settings, err := store.LoadSettings()
	if err != nil {
		// refuse to overwrite a settings file we cannot parse
		return fmt.Errorf("cannot switch: %w", err)
	}
	updated, err := syncpkg.Apply(cfg, settings)
	if err != nil {
		return err
	}
	if err := store.SaveSettings(updated); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Switched to configuration: %s", cfg.Name)))
	fmt.Println(detailStyle.Render(fmt.Sprintf("  URL: %s  Token: %s", cfg.BaseURL, utils.MaskToken(cfg.AuthToken))))
	return nil
}

func pickerItems(configs []models.Config, activeIdx int) []tui.PickerItem {
	items := make([]tui.PickerItem, len(configs))
	for i, cfg := range configs {
		items[i] = tui.PickerItem{
			Name:   cfg.Name,
			Detail: fmt.Sprintf("%s  %s", cfg.BaseURL, utils.MaskToken(cfg.AuthToken)),
			Active: i == activeIdx,
		}
	}
	return items
}

func printConfigList(configs []models.Config, activeIdx int) {
	for i, cfg := range configs {
		marker := "  "
		if i == activeIdx {
			marker = "* "
		}
		fmt.Printf("%s%d. %s\n", marker, i+1, cfg.Name)
		fmt.Println(detailStyle.Render(fmt.Sprintf("     %s  %s", cfg.BaseURL, utils.MaskToken(cfg.AuthToken))))
	}
}
