package cmd

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"ccswitch/config/storage"
	"ccswitch/internal/notify"
	"ccswitch/internal/tui"
	"ccswitch/internal/utils"

	"github.com/spf13/cobra"
)

var notifyWebhookURL string

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Manage webhook notifications for session events",
}

var notifySetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the notification webhook and install the hook script",
	Args:  cobra.NoArgs,
	RunE:  runNotifySetup,
}

var notifyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current notification configuration",
	Args:  cobra.NoArgs,
	RunE:  runNotifyStatus,
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test event to the configured webhook",
	Args:  cobra.NoArgs,
	RunE:  runNotifyTest,
}

func init() {
	notifySetupCmd.Flags().StringVarP(&notifyWebhookURL, "webhook", "w", "", "webhook URL to notify")
	notifyCmd.AddCommand(notifySetupCmd)
	notifyCmd.AddCommand(notifyStatusCmd)
	notifyCmd.AddCommand(notifyTestCmd)
	rootCmd.AddCommand(notifyCmd)
}

func runNotifySetup(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	webhookURL := notifyWebhookURL
	if webhookURL == "" {
		if !tui.IsTerminal() {
			return fmt.Errorf("not a terminal: use 'ccswitch notify setup --webhook <url>'")
		}
		fmt.Print("Webhook URL: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read webhook URL: %w", err)
		}
		webhookURL = strings.TrimSpace(line)
	}
	if !utils.ValidateURL(webhookURL) {
		return fmt.Errorf("invalid webhook URL: %s", webhookURL)
	}

	if err := notify.Save(store.Dir(), notify.Settings{
		WebhookURL: webhookURL,
		UpdatedAt:  time.Now(),
	}); err != nil {
		return err
	}
	if err := notify.WriteHookScript(store.Dir(), webhookURL); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ Notifications configured"))
	fmt.Println(detailStyle.Render(fmt.Sprintf("  Hook script: %s", notify.ScriptPath(store.Dir()))))
	fmt.Println(detailStyle.Render("  Point your hooks configuration at the script to enable event delivery."))
	return nil
}

func runNotifyStatus(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	settings, err := notify.Load(store.Dir())
	if err != nil {
		return err
	}
	if settings == nil {
		fmt.Println("Notifications not configured. Run 'ccswitch notify setup'.")
		return nil
	}

	fmt.Printf("Webhook:    %s\n", maskWebhookURL(settings.WebhookURL))
	fmt.Printf("Updated:    %s\n", settings.UpdatedAt.Format(time.RFC3339))
	scriptPath := notify.ScriptPath(store.Dir())
	if storage.FileExists(scriptPath) {
		fmt.Printf("Hook:       %s\n", scriptPath)
	} else {
		fmt.Println(warnStyle.Render("⚠️  Hook script missing, run 'ccswitch notify setup' again"))
	}
	return nil
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	settings, err := notify.Load(store.Dir())
	if err != nil {
		return err
	}
	if settings == nil {
		return fmt.Errorf("notifications not configured, run 'ccswitch notify setup' first")
	}

	status, latency, err := notify.Test(settings.WebhookURL, notify.DefaultTestTimeout)
	if err != nil {
		return fmt.Errorf("webhook test failed: %w", err)
	}
	if status >= 400 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("⚠️  Webhook responded with HTTP %d (%dms)", status, latency.Milliseconds())))
		return nil
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Webhook responded with HTTP %d (%dms)", status, latency.Milliseconds())))
	return nil
}

// maskWebhookURL hides the path of a webhook URL, which often embeds a
// secret token.
func maskWebhookURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "****"
	}
	if u.Path == "" || u.Path == "/" {
		return u.Scheme + "://" + u.Host
	}
	return u.Scheme + "://" + u.Host + "/****"
}
