package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ecosnap-app/ecosnap/internal/domain"
)

func init() {
	snapCmd.Flags().StringVar(&snapUser, "user", "", "User to log for (overrides config)")
	snapCmd.Flags().StringVar(&snapAt, "at", "", "Capture time, RFC 3339 (default now)")
	snapCmd.Flags().StringVar(&snapPhoto, "photo", "", "Opaque photo reference to attach")
	rootCmd.AddCommand(snapCmd)
}

var (
	snapUser  string
	snapAt    string
	snapPhoto string
)

var snapCmd = &cobra.Command{
	Use:   "snap <type> <description>",
	Short: "Log an eco action",
	Long: `Log one eco action to the local store.

Examples:
  ecosnap snap recycle "sorted a week of glass and paper"
  ecosnap snap bike "commuted by bike" --at 2026-03-09T08:30:00Z`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSnap,
}

func runSnap(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	typeID := args[0]
	description := strings.Join(args[1:], " ")

	occurredAt := time.Now()
	if snapAt != "" {
		occurredAt, err = time.Parse(time.RFC3339, snapAt)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}

	// Each invocation is one submission; the key only guards against the
	// store-level retry inside Append.
	entry, err := d.Log.Append(targetUser(d, snapUser), typeID, description, occurredAt, snapPhoto, uuid.NewString())
	if err != nil {
		return err
	}

	at, _ := d.Catalog.Lookup(entry.TypeID)
	fmt.Printf("%s  +%d points — %s\n", at.Icon, entry.Points, at.Label)

	// Surface anything the submission just unlocked
	views, err := d.Badges.Overview(entry.UserID, occurredAt)
	if err != nil {
		return nil // The action is logged; badge display is best-effort
	}
	// Stored timestamps have second precision
	for _, v := range views {
		if v.Status.State == domain.BadgeEarned && v.Status.EarnedAt.Unix() == entry.OccurredAt.Unix() {
			fmt.Printf("🎉 Badge earned: %s %s — %s\n", v.Rule.Icon, v.Rule.Title, v.Rule.Description)
		}
	}

	streak, err := d.Streaks.CurrentStreak(entry.UserID, occurredAt)
	if err == nil && streak > 1 {
		fmt.Printf("🔥 %d-day streak\n", streak)
	}
	return nil
}
