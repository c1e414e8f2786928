package sqlite

import (
	"database/sql"
	"time"

	"github.com/ecosnap-app/ecosnap/internal/domain"
)

// ─── Earned Badges ──────────────────────────────────────────────────────────

// EarnBadge records a badge as earned at the given time.
// Returns false if already earned (idempotent — the first earn wins).
func (d *DB) EarnBadge(userID, ruleID string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO badges (user_id, rule_id, earned_at) VALUES (?, ?, ?)`,
		userID, ruleID, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly earned
}

// BadgeEarnedAt returns the frozen earn time for a badge, if earned.
func (d *DB) BadgeEarnedAt(userID, ruleID string) (time.Time, bool, error) {
	var earnedAt int64
	err := d.db.QueryRow(
		`SELECT earned_at FROM badges WHERE user_id = ? AND rule_id = ?`,
		userID, ruleID,
	).Scan(&earnedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(earnedAt, 0), true, nil
}

// ListEarnedBadges returns all earned badges for a user, newest first.
func (d *DB) ListEarnedBadges(userID string) ([]domain.EarnedBadge, error) {
	rows, err := d.db.Query(
		`SELECT user_id, rule_id, earned_at FROM badges WHERE user_id = ? ORDER BY earned_at DESC, rule_id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var earned []domain.EarnedBadge
	for rows.Next() {
		var b domain.EarnedBadge
		var at int64
		if err := rows.Scan(&b.UserID, &b.RuleID, &at); err != nil {
			return nil, err
		}
		b.EarnedAt = time.Unix(at, 0)
		earned = append(earned, b)
	}
	return earned, rows.Err()
}

// EarnedBadgeCount returns how many badges the user has earned.
func (d *DB) EarnedBadgeCount(userID string) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM badges WHERE user_id = ?`, userID,
	).Scan(&count)
	return count, err
}
