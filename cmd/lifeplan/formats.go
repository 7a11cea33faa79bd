package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpgo/lifeplan/internal/output"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the report formats and their aliases",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Formats:")
			for _, name := range output.AvailableFormatterNames() {
				fmt.Fprintf(w, "  %s\n", name)
			}
			aliases := output.AvailableFormatAliases()
			pairs := make([]string, 0, len(aliases))
			for _, a := range aliases {
				pairs = append(pairs, a+" -> "+output.NormalizeFormatName(a))
			}
			fmt.Fprintf(w, "Aliases:\n  %s\n", strings.Join(pairs, "\n  "))
		},
	}
}
