package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	streakCmd.Flags().StringVar(&streakUser, "user", "", "User to show (overrides config)")
	rootCmd.AddCommand(streakCmd)
}

var streakUser string

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current daily streak",
	RunE:  runStreak,
}

func runStreak(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	streak, err := d.Streaks.CurrentStreak(targetUser(d, streakUser), time.Now())
	if err != nil {
		return err
	}

	switch streak {
	case 0:
		fmt.Println("No streak yet — log an action today to start one.")
	case 1:
		fmt.Println("🔥 1-day streak. Come back tomorrow to keep it going.")
	default:
		fmt.Printf("🔥 %d-day streak\n", streak)
	}
	return nil
}
