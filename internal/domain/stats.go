package domain

import "time"

// ─── Derived Statistics ─────────────────────────────────────────────────────

// DayTotal is one day of the trailing activity series.
// Days with no activity report zeros, not absence.
type DayTotal struct {
	Day     time.Time `json:"day"` // Midnight in the aggregation time zone
	Actions int64     `json:"actions"`
	Points  int64     `json:"points"`
}

// StatsSnapshot is a point-in-time aggregation over one user's action log.
// Recomputed on demand — never stored as independent truth.
type StatsSnapshot struct {
	UserID       string             `json:"user_id"`
	AsOf         time.Time          `json:"as_of"`
	WindowDays   int                `json:"window_days"`
	TotalActions int64              `json:"total_actions"`
	TotalPoints  int64              `json:"total_points"`
	ByCategory   map[Category]int64 `json:"by_category"`
	Days         []DayTotal         `json:"days"` // Exactly WindowDays entries, chronological
}

// MaxDayPoints returns the largest per-day point total in the series.
// Used by presentation layers to scale bar charts; 0 for an all-zero window.
func (s StatsSnapshot) MaxDayPoints() int64 {
	var max int64
	for _, d := range s.Days {
		if d.Points > max {
			max = d.Points
		}
	}
	return max
}
