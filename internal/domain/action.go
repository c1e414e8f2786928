// Package domain holds the EcoSnap core types.
// Pure data — no storage, transport, or presentation dependencies.
package domain

import (
	"strings"
	"time"
)

// ─── Action Types ───────────────────────────────────────────────────────────

// Category classifies an action type. Fixed enumeration — the catalog never
// grows categories at runtime.
type Category string

const (
	CategoryRecycle   Category = "recycle"
	CategoryTransport Category = "transport"
	CategoryEnergy    Category = "energy"
	CategoryWater     Category = "water"
	CategoryPlant     Category = "plant"
	CategoryReuse     Category = "reuse"
	CategoryBike      Category = "bike"
	CategoryCompost   Category = "compost"
)

// Categories returns all categories in declaration order.
func Categories() []Category {
	return []Category{
		CategoryRecycle, CategoryTransport, CategoryEnergy, CategoryWater,
		CategoryPlant, CategoryReuse, CategoryBike, CategoryCompost,
	}
}

// ActionType is an immutable catalog entry: an eco-action a user can log
// and the points it is worth.
type ActionType struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Points   int64    `json:"points"`
	Category Category `json:"category"`
}

// ─── Action Entries ─────────────────────────────────────────────────────────

// ActionEntry is a single user submission in the append-only log.
// Immutable once created; never deleted.
type ActionEntry struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	TypeID      string    `json:"type_id"`
	Description string    `json:"description"`
	PhotoRef    string    `json:"photo_ref,omitempty"` // Opaque handle — never interpreted by the core
	Points      int64     `json:"points"`              // Point value at submission time
	OccurredAt  time.Time `json:"occurred_at"`         // Capture time, not submission time
	CreatedAt   time.Time `json:"created_at"`
	IdemKey     string    `json:"-"` // Client idempotency key, "" if none
}

// NormalizeDescription trims surrounding whitespace. An entry whose
// description is empty after normalization is invalid.
func NormalizeDescription(s string) string {
	return strings.TrimSpace(s)
}

// DayStart returns midnight of t's calendar day in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
