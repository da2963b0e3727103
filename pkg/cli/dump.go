package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flightrec/flightrec/pkg/control"
)

var dumpFlagVals struct {
	path   string
	filter string
}

var dumpCmd = &cobra.Command{
	Use:   "dump <recording>",
	Short: "Write a recording's events to a file",
	Long: `Write the buffered events of a recording to a JSON file.

The file is written by the agent on its own host. Without --path the agent
picks a timestamped filename in its data directory. --filter keeps only
events matching an expression, e.g. 'type == "runtime.GC"'.`,
	Example: `  # Dump everything
  flightrec dump backend

  # Dump to a specific file
  flightrec dump backend --path /tmp/backend.json

  # Dump only slow GC cycles
  flightrec dump backend --filter 'type == "runtime.GC" && fields.pauseMillis > 10'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewControlClient(controlURL)
		result, err := client.DumpRecording(args[0], &control.DumpRequest{
			Path:   dumpFlagVals.path,
			Filter: dumpFlagVals.filter,
		})
		if err != nil {
			return errors.New(FormatConnectionError(err))
		}

		printResult(result, func() {
			fmt.Printf("Dumped %d events to %s\n", result.EventCount, result.Path)
		})
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFlagVals.path, "path", "", "Destination file on the agent host")
	dumpCmd.Flags().StringVar(&dumpFlagVals.filter, "filter", "", "Keep only events matching this expression")
	rootCmd.AddCommand(dumpCmd)
}
