package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flightrec/flightrec/pkg/cli/internal/output"
	"github.com/flightrec/flightrec/pkg/util"
)

var eventsFilter string

var eventsCmd = &cobra.Command{
	Use:   "events <recording>",
	Short: "List the events buffered in a recording",
	Long: `List the events currently held by a recording.

--filter keeps only events matching an expression over 'type', 'time', and
'fields', e.g. 'type == "app.Log" && fields.level == "error"'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewControlClient(controlURL)
		events, err := client.ListEvents(args[0], eventsFilter)
		if err != nil {
			return errors.New(FormatConnectionError(err))
		}

		printResult(events, func() {
			if len(events) == 0 {
				fmt.Println("No events.")
				return
			}
			w := output.Table()
			fmt.Fprintln(w, "TIME\tTYPE\tFIELDS")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					e.Time.Format(time.RFC3339),
					e.Type,
					formatFields(e.Fields),
				)
			}
			w.Flush()
		})
		return nil
	},
}

// formatFields renders an event's fields as stable name=value pairs.
func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return "-"
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, fmt.Sprintf("%s=%s", name, util.Truncate(fmt.Sprintf("%v", fields[name]), 64)))
	}
	return strings.Join(pairs, " ")
}

func init() {
	eventsCmd.Flags().StringVar(&eventsFilter, "filter", "", "Keep only events matching this expression")
	rootCmd.AddCommand(eventsCmd)
}
