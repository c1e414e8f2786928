package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	logsCmd.Flags().StringVar(&logsUser, "user", "", "User to show (overrides config)")
	logsCmd.Flags().IntVar(&logsLimit, "limit", 20, "Show at most this many recent entries")
	rootCmd.AddCommand(logsCmd)
}

var (
	logsUser  string
	logsLimit int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent log entries",
	RunE:  runLogs,
}

func runLogs(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	entries, err := d.Log.EntriesFor(targetUser(d, logsUser), time.Time{}, time.Time{})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No actions yet. Run 'ecosnap snap <type> <description>' to log one.")
		return nil
	}

	if logsLimit > 0 && len(entries) > logsLimit {
		entries = entries[len(entries)-logsLimit:]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tTYPE\tPOINTS\tDESCRIPTION")
	for _, e := range entries {
		at, _ := d.Catalog.Lookup(e.TypeID)
		fmt.Fprintf(w, "%s\t%s %s\t+%d\t%s\n",
			e.OccurredAt.Local().Format("2006-01-02 15:04"),
			at.Icon, e.TypeID,
			e.Points,
			e.Description,
		)
	}
	return w.Flush()
}
