package stats

import (
	"time"

	"github.com/ecosnap-app/ecosnap/internal/domain"
	"github.com/ecosnap-app/ecosnap/internal/infra/sqlite"
)

// StreakTracker derives consecutive-day streaks from the log.
// No stored counter: back-dated or corrected entries are always reflected
// because every call walks the log itself.
type StreakTracker struct {
	db  *sqlite.DB
	loc *time.Location
}

// NewStreakTracker creates a streak tracker. nil loc falls back to time.Local.
func NewStreakTracker(db *sqlite.DB, loc *time.Location) *StreakTracker {
	if loc == nil {
		loc = time.Local
	}
	return &StreakTracker{db: db, loc: loc}
}

// CurrentStreak returns the count of consecutive active days ending at
// asOf's calendar day, walking backward. A day is active if it has at least
// one entry. Returns 0 if asOf's own day is inactive. The walk issues one
// bounded existence probe per day and stops at the first inactive day — it
// never scans the whole log.
func (t *StreakTracker) CurrentStreak(userID string, asOf time.Time) (int, error) {
	if userID == "" {
		return 0, domain.ErrEmptyUserID
	}

	day := domain.DayStart(asOf, t.loc)
	streak := 0
	for {
		active, err := t.db.HasActionBetween(userID, day, day.AddDate(0, 0, 1))
		if err != nil {
			return 0, err
		}
		if !active {
			return streak, nil
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}
