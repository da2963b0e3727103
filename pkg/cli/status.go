package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the running agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewControlClient(controlURL)
		status, err := client.Status()
		if err != nil {
			return errors.New(FormatConnectionError(err))
		}

		printResult(status, func() {
			fmt.Printf("Agent %s at %s\n", status.Version, controlURL)
			fmt.Printf("  Uptime:      %s\n", (time.Duration(status.Uptime) * time.Second).String())
			fmt.Printf("  Recordings:  %d\n", status.RecordingCount)
			fmt.Printf("  Event types: %d\n", status.EventTypeCount)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
