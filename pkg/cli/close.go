package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var closeCmd = &cobra.Command{
	Use:   "close <recording>",
	Short: "Close a recording and release its buffer",
	Long: `Close a recording by name or id.

Closing discards the recording's buffered events and removes it from the
agent. Dump the recording first if you want to keep its events.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewControlClient(controlURL)
		info, err := client.CloseRecording(args[0])
		if err != nil {
			return errors.New(FormatConnectionError(err))
		}

		printResult(info, func() {
			fmt.Printf("Closed recording %d: name=%s\n", info.ID, info.Name)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(closeCmd)
}
