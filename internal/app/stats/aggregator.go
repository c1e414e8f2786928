// Package stats derives statistics and streaks from the action log.
// Everything here is recomputed on demand — there are no cached counters to
// drift when entries are back-dated.
package stats

import (
	"fmt"
	"time"

	"github.com/ecosnap-app/ecosnap/internal/app/catalog"
	"github.com/ecosnap-app/ecosnap/internal/domain"
	"github.com/ecosnap-app/ecosnap/internal/infra/metrics"
	"github.com/ecosnap-app/ecosnap/internal/infra/sqlite"
)

// Aggregator computes stats snapshots over one user's log.
type Aggregator struct {
	db      *sqlite.DB
	catalog *catalog.Catalog
	loc     *time.Location
}

// NewAggregator creates an aggregator. Calendar-day bucketing uses loc;
// nil falls back to time.Local.
func NewAggregator(db *sqlite.DB, cat *catalog.Catalog, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{db: db, catalog: cat, loc: loc}
}

// Location returns the aggregation time zone.
func (a *Aggregator) Location() *time.Location { return a.loc }

// Snapshot computes a user's stats as of asOf: lifetime totals, per-category
// counts, and a per-day series covering the trailing windowDays calendar
// days ending at asOf's day. Days without activity report zeros — the series
// always has exactly windowDays entries in chronological order. An empty log
// yields an all-zero snapshot, never an error.
func (a *Aggregator) Snapshot(userID string, windowDays int, asOf time.Time) (domain.StatsSnapshot, error) {
	var zero domain.StatsSnapshot
	if userID == "" {
		return zero, domain.ErrEmptyUserID
	}
	if windowDays < 1 {
		return zero, fmt.Errorf("%w: got %d", domain.ErrInvalidWindow, windowDays)
	}

	started := time.Now()
	defer func() {
		metrics.SnapshotLatency.Observe(time.Since(started).Seconds())
	}()

	totalActions, totalPoints, err := a.db.ActionTotals(userID)
	if err != nil {
		return zero, fmt.Errorf("totals: %w", err)
	}

	byType, err := a.db.CountByType(userID)
	if err != nil {
		return zero, fmt.Errorf("count by type: %w", err)
	}
	byCategory := make(map[domain.Category]int64, len(byType))
	for typeID, n := range byType {
		at, err := a.catalog.Lookup(typeID)
		if err != nil {
			// Entry predates a catalog change — count it nowhere rather
			// than invent a category.
			continue
		}
		byCategory[at.Category] += n
	}

	days, err := a.daySeries(userID, windowDays, asOf)
	if err != nil {
		return zero, err
	}

	return domain.StatsSnapshot{
		UserID:       userID,
		AsOf:         asOf,
		WindowDays:   windowDays,
		TotalActions: totalActions,
		TotalPoints:  totalPoints,
		ByCategory:   byCategory,
		Days:         days,
	}, nil
}

// daySeries partitions the trailing window's entries by local calendar day.
func (a *Aggregator) daySeries(userID string, windowDays int, asOf time.Time) ([]domain.DayTotal, error) {
	end := domain.DayStart(asOf, a.loc).AddDate(0, 0, 1) // Exclusive
	start := end.AddDate(0, 0, -windowDays)

	entries, err := a.db.ListActions(userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("window entries: %w", err)
	}

	days := make([]domain.DayTotal, windowDays)
	for i := range days {
		days[i].Day = start.AddDate(0, 0, i)
	}

	for _, e := range entries {
		day := domain.DayStart(e.OccurredAt, a.loc)
		idx := daysBetween(start, day)
		if idx < 0 || idx >= windowDays {
			continue
		}
		days[idx].Actions++
		days[idx].Points += e.Points
	}
	return days, nil
}

// daysBetween counts calendar days from a to b, both at local midnight.
// Computed via AddDate rather than division so DST transitions don't skew
// the bucket index.
func daysBetween(a, b time.Time) int {
	n := 0
	for cur := a; cur.Before(b); cur = cur.AddDate(0, 0, 1) {
		n++
	}
	if b.Before(a) {
		return -1
	}
	return n
}
