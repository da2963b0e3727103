package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop <recording>",
	Short: "Stop a running recording",
	Long: `Stop a running or scheduled recording by name or id.

A stopped recording keeps its buffered events and can still be dumped or
inspected until it is closed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewControlClient(controlURL)
		info, err := client.StopRecording(args[0])
		if err != nil {
			return errors.New(FormatConnectionError(err))
		}

		printResult(info, func() {
			fmt.Printf("Stopped recording %d: name=%s\n", info.ID, info.Name)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
