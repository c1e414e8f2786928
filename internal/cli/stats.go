package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	statsCmd.Flags().StringVar(&statsUser, "user", "", "User to show (overrides config)")
	statsCmd.Flags().IntVar(&statsWindow, "window", 0, "Trailing window in days (overrides config)")
	rootCmd.AddCommand(statsCmd)
}

var (
	statsUser   string
	statsWindow int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals and the recent activity chart",
	RunE:  runStats,
}

const barWidth = 24

func runStats(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	windowDays := d.Config.Engagement.WindowDays
	if statsWindow > 0 {
		windowDays = statsWindow
	}

	now := time.Now()
	snap, err := d.Stats.Snapshot(targetUser(d, statsUser), windowDays, now)
	if err != nil {
		return err
	}

	fmt.Printf("Total: %d actions, %d points\n\n", snap.TotalActions, snap.TotalPoints)

	if len(snap.ByCategory) > 0 {
		for _, at := range d.Catalog.List() {
			if n := snap.ByCategory[at.Category]; n > 0 {
				fmt.Printf("  %s %-18s %d\n", at.Icon, at.Label, n)
			}
		}
		fmt.Println()
	}

	// Bars scale against the busiest day in the window
	max := snap.MaxDayPoints()
	for _, day := range snap.Days {
		bar := ""
		if max > 0 {
			bar = strings.Repeat("█", int(day.Points*barWidth/max))
		}
		fmt.Printf("  %-10s %-*s %3d pts\n", relDay(day.Day, now), barWidth, bar, day.Points)
	}
	return nil
}
