package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flightrec/flightrec/pkg/cli/internal/output"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the agent's event types and their settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewControlClient(controlURL)
		types, err := client.ListEventTypes()
		if err != nil {
			return errors.New(FormatConnectionError(err))
		}

		printResult(types, func() {
			w := output.Table()
			fmt.Fprintln(w, "NAME\tLABEL\tSETTINGS")
			for _, t := range types {
				settings := make([]string, 0, len(t.Settings))
				for _, s := range t.Settings {
					settings = append(settings, s.Name)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.Label, strings.Join(settings, ","))
			}
			w.Flush()
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
