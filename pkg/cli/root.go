package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flightrec/flightrec/pkg/control"
)

var (
	// Persistent flags available to all subcommands
	controlURL string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flightrec",
	Short: "flightrec is an in-process flight recorder for diagnostics",
	Long: `flightrec keeps a bounded ring of diagnostic events in a running agent
and lets you start, stop, inspect, and dump recordings from the command line.

Commands talk to the control API of a running 'flightrec serve' agent.
The control URL can be set with --control-url or the FLIGHTREC_CONTROL_URL
environment variable.`,
	// No Run function here means 'flightrec' with no args will print help text by default.
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// defaultControlURL resolves the control API base URL from the environment.
func defaultControlURL() string {
	if url := os.Getenv("FLIGHTREC_CONTROL_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("http://127.0.0.1:%d", control.DefaultPort)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&controlURL, "control-url", defaultControlURL(), "Control API base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}
