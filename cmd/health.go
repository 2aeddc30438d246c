package cmd

import (
	"fmt"
	"os"
	"time"

	"ccswitch/internal/health"

	"github.com/spf13/cobra"
)

var (
	healthJSON    bool
	healthTimeout time.Duration
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the reachability of all configured endpoints",
	Long: `Probe every distinct base URL in the configuration list and report
whether it is reachable. Any HTTP response below 500 counts as reachable;
server errors and transport failures count as unhealthy.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVarP(&healthJSON, "json", "j", false, "emit results as JSON")
	healthCmd.Flags().DurationVarP(&healthTimeout, "timeout", "t", health.DefaultTimeout, "per-attempt probe timeout")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	configs := loadConfigsLenient(store)
	if len(configs) == 0 {
		fmt.Println("No configurations saved, nothing to probe.")
		return nil
	}

	targets := health.DedupeTargets(configs)
	if len(targets) == 0 {
		fmt.Println("No base URLs to probe.")
		return nil
	}

	if !healthJSON {
		fmt.Printf("Probing %d endpoint(s)...\n\n", len(targets))
	}

	prober := health.NewProber(health.WithTimeout(healthTimeout))
	results := prober.ProbeAll(targets)

	reporter := health.NewReporter(os.Stdout, health.WithJSONOutput(healthJSON))
	return reporter.Report(results)
}
