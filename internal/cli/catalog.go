package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ecosnap-app/ecosnap/internal/app/catalog"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"actions", "types"},
	Short:   "List the action types you can log",
	RunE:    runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tLABEL\tPOINTS")
	for _, at := range catalog.Default().List() {
		fmt.Fprintf(w, "%s\t%s %s\t%d\n", at.ID, at.Icon, at.Label, at.Points)
	}
	return w.Flush()
}
