package sqlite

import (
	"database/sql"
	"time"

	"github.com/ecosnap-app/ecosnap/internal/domain"
)

// ─── Action Log ─────────────────────────────────────────────────────────────

// InsertAction appends an entry and returns its log-assigned identifier.
// IDs are monotonic — AUTOINCREMENT never reuses a value.
func (d *DB) InsertAction(e domain.ActionEntry) (int64, error) {
	var idem sql.NullString
	if e.IdemKey != "" {
		idem = sql.NullString{String: e.IdemKey, Valid: true}
	}
	result, err := d.db.Exec(
		`INSERT INTO actions (user_id, type_id, description, photo_ref, points, occurred_at, created_at, idempotency_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.TypeID, e.Description, e.PhotoRef, e.Points,
		e.OccurredAt.Unix(), e.CreatedAt.Unix(), idem,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// HasSubmission reports whether an idempotency key was already used by a user.
func (d *DB) HasSubmission(userID, idemKey string) (bool, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM actions WHERE user_id = ? AND idempotency_key = ?`,
		userID, idemKey,
	).Scan(&count)
	return count > 0, err
}

// ListActions returns one user's entries ordered by occurred_at ascending,
// ties broken by log id. Zero bounds are open; the interval is [from, to).
func (d *DB) ListActions(userID string, from, to time.Time) ([]domain.ActionEntry, error) {
	query := `SELECT id, user_id, type_id, description, photo_ref, points, occurred_at, created_at, idempotency_key
	          FROM actions WHERE user_id = ?`
	args := []any{userID}
	if !from.IsZero() {
		query += ` AND occurred_at >= ?`
		args = append(args, from.Unix())
	}
	if !to.IsZero() {
		query += ` AND occurred_at < ?`
		args = append(args, to.Unix())
	}
	query += ` ORDER BY occurred_at ASC, id ASC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ActionEntry
	for rows.Next() {
		e, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// ActionTotals returns the lifetime action count and point sum for a user.
func (d *DB) ActionTotals(userID string) (actions, points int64, err error) {
	err = d.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(points), 0) FROM actions WHERE user_id = ?`,
		userID,
	).Scan(&actions, &points)
	return actions, points, err
}

// CountByType returns per-action-type entry counts for a user.
func (d *DB) CountByType(userID string) (map[string]int64, error) {
	rows, err := d.db.Query(
		`SELECT type_id, COUNT(*) FROM actions WHERE user_id = ? GROUP BY type_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var typeID string
		var n int64
		if err := rows.Scan(&typeID, &n); err != nil {
			return nil, err
		}
		counts[typeID] = n
	}
	return counts, rows.Err()
}

// HasActionBetween reports whether the user logged any entry in [from, to).
// Bounded existence probe — the streak walk calls this once per day.
func (d *DB) HasActionBetween(userID string, from, to time.Time) (bool, error) {
	var one int
	err := d.db.QueryRow(
		`SELECT 1 FROM actions WHERE user_id = ? AND occurred_at >= ? AND occurred_at < ? LIMIT 1`,
		userID, from.Unix(), to.Unix(),
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// ─── Scanners ───────────────────────────────────────────────────────────────

func scanAction(s scanner) (*domain.ActionEntry, error) {
	var e domain.ActionEntry
	var occurredAt, createdAt int64
	var idem sql.NullString

	err := s.Scan(&e.ID, &e.UserID, &e.TypeID, &e.Description, &e.PhotoRef,
		&e.Points, &occurredAt, &createdAt, &idem)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}

	e.OccurredAt = time.Unix(occurredAt, 0)
	e.CreatedAt = time.Unix(createdAt, 0)
	if idem.Valid {
		e.IdemKey = idem.String
	}
	return &e, nil
}
