package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkVerbose bool

var checkCmd = &cobra.Command{
	Use:   "check [recording]",
	Short: "Show the status of recordings",
	Long: `Show the status of recordings on the running agent.

With no argument, all recordings are listed. Pass a recording name or id to
show a single recording. With --verbose the report includes the settings of
every enabled event type.`,
	Example: `  # Show all recordings
  flightrec check

  # Show one recording with its event settings
  flightrec check backend -v`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}

		client := NewControlClient(controlURL)
		text, err := client.Check(name, checkVerbose)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.IsNotFound() {
				return fmt.Errorf("could not find recording %q", name)
			}
			return errors.New(FormatConnectionError(err))
		}

		// The agent renders the report. Print it verbatim.
		fmt.Print(text)
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Include event settings for each recording")
	rootCmd.AddCommand(checkCmd)
}
