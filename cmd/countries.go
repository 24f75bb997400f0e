package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/headcount/internal/countries"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List supported target countries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, c := range countries.List() {
			fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Name)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd)
}
