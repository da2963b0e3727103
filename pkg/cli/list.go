package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flightrec/flightrec/pkg/cli/internal/output"
	"github.com/flightrec/flightrec/pkg/util"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recordings on the running agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewControlClient(controlURL)
		recordings, err := client.ListRecordings()
		if err != nil {
			return errors.New(FormatConnectionError(err))
		}

		printResult(recordings, func() {
			if len(recordings) == 0 {
				fmt.Println("No recordings.")
				return
			}
			w := output.Table()
			fmt.Fprintln(w, "ID\tNAME\tSTATE\tSIZE\tDURATION\tMAXAGE")
			for _, r := range recordings {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Name, r.State,
					util.FormatBytes(r.SizeBytes, ""),
					orDash(r.Duration),
					orDash(r.MaxAge),
				)
			}
			w.Flush()
		})
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(listCmd)
}
