package cmd

import (
	"fmt"

	"ccswitch/config"
	"ccswitch/config/models"
	"ccswitch/config/validation"
	"ccswitch/internal/tui"

	"github.com/spf13/cobra"
)

var (
	addBaseURL string
	addModel   string
)

var addCmd = &cobra.Command{
	Use:   "add [name] [token]",
	Short: "Add a new API configuration",
	Long: `Add a named API configuration. In a terminal with no arguments an
interactive wizard is shown. Non-interactively pass the name and token as
arguments with --url:

  ccswitch add work sk-xxx --url https://api.example.com`,
	Args: cobra.MaximumNArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addBaseURL, "url", "u", "", "API base URL")
	addCmd.Flags().StringVarP(&addModel, "model", "m", "", "model name (optional)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	var cfg models.Config
	switch {
	case len(args) == 2:
		cfg = models.Config{
			Name:      args[0],
			AuthToken: args[1],
			BaseURL:   addBaseURL,
			Model:     addModel,
		}
		if cfg.BaseURL == "" {
			return fmt.Errorf("--url is required when adding non-interactively")
		}
	case len(args) == 1:
		return fmt.Errorf("expected both name and token, got only '%s'", args[0])
	case !tui.IsTerminal():
		return fmt.Errorf("not a terminal: use 'ccswitch add <name> <token> --url <url>'")
	default:
		existing := loadConfigsLenient(store)
		validate := func(d tui.FormData) error {
			if err := validation.ValidateName(d.Name); err != nil {
				return err
			}
			for _, c := range existing {
				if c.Name == d.Name {
					return config.DuplicateNameError(d.Name)
				}
			}
			if err := validation.ValidateBaseURL(d.BaseURL); err != nil {
				return err
			}
			return validation.ValidateAuthToken(d.AuthToken)
		}
		data, ok, err := tui.RunAddForm(validate)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Canceled")
			return nil
		}
		cfg = models.Config{
			Name:      data.Name,
			AuthToken: data.AuthToken,
			BaseURL:   data.BaseURL,
			Model:     data.Model,
		}
	}

	if err := store.Add(cfg); err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Added configuration: %s", cfg.Name)))
	return nil
}
