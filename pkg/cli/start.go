package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flightrec/flightrec/pkg/control"
)

var startFlagVals struct {
	duration string
	maxSize  int64
	maxAge   string
	delay    string
	preset   string
}

var startCmd = &cobra.Command{
	Use:   "start [name]",
	Short: "Start a new recording",
	Long: `Start a new recording on the running agent.

Without a name the recording is identified by its numeric id. --preset applies
a settings preset (a builtin name or a path to a YAML file); without one the
recording starts with no event types enabled.`,
	Example: `  # Start an unnamed recording with the default preset
  flightrec start --preset default

  # Start a bounded recording
  flightrec start backend --preset profile --duration 10m --max-age 2h

  # Schedule a recording to start in five minutes
  flightrec start nightly --preset default --delay 5m`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &control.StartRecordingRequest{
			Duration: startFlagVals.duration,
			MaxSize:  startFlagVals.maxSize,
			MaxAge:   startFlagVals.maxAge,
			Delay:    startFlagVals.delay,
			Preset:   startFlagVals.preset,
		}
		if len(args) == 1 {
			req.Name = args[0]
		}

		client := NewControlClient(controlURL)
		info, err := client.StartRecording(req)
		if err != nil {
			return errors.New(FormatConnectionError(err))
		}

		printResult(info, func() {
			fmt.Printf("Started recording %d: name=%s (%s)\n", info.ID, info.Name, info.State)
		})
		return nil
	},
}

func init() {
	f := &startFlagVals
	startCmd.Flags().StringVar(&f.duration, "duration", "", "Stop the recording after this long (e.g. 10m)")
	startCmd.Flags().Int64Var(&f.maxSize, "max-size", 0, "Buffer size limit in bytes (0 = unlimited)")
	startCmd.Flags().StringVar(&f.maxAge, "max-age", "", "Discard events older than this (e.g. 2h)")
	startCmd.Flags().StringVar(&f.delay, "delay", "", "Delay the start by this long (e.g. 5m)")
	startCmd.Flags().StringVar(&f.preset, "preset", "", "Settings preset name or path to a YAML file")
	rootCmd.AddCommand(startCmd)
}
