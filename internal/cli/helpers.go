package cli

import (
	"time"

	"github.com/ecosnap-app/ecosnap/internal/daemon"
)

// openDaemon builds an in-process daemon for CLI commands that read or
// write the local store directly, without a running server.
func openDaemon() (*daemon.Daemon, error) {
	return daemon.New()
}

// targetUser resolves the --user flag against the configured default.
func targetUser(d *daemon.Daemon, flag string) string {
	if flag != "" {
		return flag
	}
	return d.Config.Engagement.DefaultUser
}

// relDay renders a day as "today", "yesterday" or a short date.
func relDay(day, now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case day.Equal(today):
		return "today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "yesterday"
	default:
		return day.Format("Mon Jan 2")
	}
}
