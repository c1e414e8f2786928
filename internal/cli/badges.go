package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecosnap-app/ecosnap/internal/domain"
)

func init() {
	badgesCmd.Flags().StringVar(&badgesUser, "user", "", "User to show (overrides config)")
	rootCmd.AddCommand(badgesCmd)
}

var badgesUser string

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show badge progress",
	RunE:  runBadges,
}

func runBadges(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	views, err := d.Badges.Overview(targetUser(d, badgesUser), time.Now())
	if err != nil {
		return err
	}

	earned := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BADGE\tRARITY\tSTATUS")
	for _, v := range views {
		var status string
		switch v.Status.State {
		case domain.BadgeEarned:
			earned++
			status = "earned " + v.Status.EarnedAt.Local().Format("2006-01-02")
		case domain.BadgeInProgress:
			status = fmt.Sprintf("%d/%d", v.Status.Progress, v.Status.Target)
		default:
			status = "locked"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\n", v.Rule.Icon, v.Rule.Title, v.Rule.Rarity, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d of %d earned\n", earned, len(views))
	return nil
}
