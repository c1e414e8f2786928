package domain

import "time"

// ─── Badge Rules ────────────────────────────────────────────────────────────

// Rarity is the presentational difficulty tier of a badge.
// It never affects evaluation — ordering is for display only.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
	RarityMythic    Rarity = "Mythic"
)

// Rank returns the rarity's position in the Common → Mythic ordering.
// Unknown rarities sort first.
func (r Rarity) Rank() int {
	switch r {
	case RarityCommon:
		return 1
	case RarityRare:
		return 2
	case RarityEpic:
		return 3
	case RarityLegendary:
		return 4
	case RarityMythic:
		return 5
	}
	return 0
}

// Metric names the aggregate a badge rule is measured against.
type Metric string

const (
	MetricTotalActions  Metric = "total_actions"
	MetricTotalPoints   Metric = "total_points"
	MetricStreakDays    Metric = "streak_days"
	MetricCategoryCount Metric = "category_count"
)

// BadgeRule is a static badge definition. Prerequisites reference other rule
// IDs and must form a DAG.
type BadgeRule struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Rarity      Rarity   `json:"rarity"`
	Metric      Metric   `json:"metric"`
	Category    Category `json:"category,omitempty"` // Only for MetricCategoryCount
	Target      int64    `json:"target"`
	Requires    string   `json:"requires,omitempty"` // Prerequisite rule ID, "" if none
}

// ─── Badge Status ───────────────────────────────────────────────────────────

// BadgeState discriminates the status variant.
type BadgeState string

const (
	BadgeLocked     BadgeState = "locked"      // Prerequisite unearned
	BadgeInProgress BadgeState = "in_progress" // Prerequisite met, metric below target
	BadgeEarned     BadgeState = "earned"      // Metric crossed target — frozen
)

// BadgeStatus is the derived per-user status of one rule. A tagged variant:
// Progress/Target are meaningful only for BadgeInProgress, EarnedAt only for
// BadgeEarned.
type BadgeStatus struct {
	State    BadgeState `json:"state"`
	Progress int64      `json:"progress,omitempty"`
	Target   int64      `json:"target,omitempty"`
	EarnedAt time.Time  `json:"earned_at,omitzero"`
}

// LockedStatus returns the Locked variant.
func LockedStatus() BadgeStatus {
	return BadgeStatus{State: BadgeLocked}
}

// InProgressStatus returns the InProgress variant.
func InProgressStatus(progress, target int64) BadgeStatus {
	return BadgeStatus{State: BadgeInProgress, Progress: progress, Target: target}
}

// EarnedStatus returns the Earned variant.
func EarnedStatus(at time.Time) BadgeStatus {
	return BadgeStatus{State: BadgeEarned, EarnedAt: at}
}

// EarnedBadge is a persisted earn record. Earned status is monotonic: once
// written it never reverts, even if retroactive edits lower the metric.
type EarnedBadge struct {
	UserID   string    `json:"user_id"`
	RuleID   string    `json:"rule_id"`
	EarnedAt time.Time `json:"earned_at"`
}
