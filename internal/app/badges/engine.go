// Package badges evaluates badge rules against the action log.
// Status is derived on demand from log entries; only the earned state is
// persisted, so an earn never reverts when entries are corrected later.
package badges

import (
	"fmt"
	"time"

	"github.com/ecosnap-app/ecosnap/internal/app/catalog"
	"github.com/ecosnap-app/ecosnap/internal/app/stats"
	"github.com/ecosnap-app/ecosnap/internal/domain"
	"github.com/ecosnap-app/ecosnap/internal/infra/metrics"
	"github.com/ecosnap-app/ecosnap/internal/infra/sqlite"
)

// Engine evaluates a validated rule set for individual users.
type Engine struct {
	db      *sqlite.DB
	catalog *catalog.Catalog
	streaks *stats.StreakTracker
	loc     *time.Location

	rules []domain.BadgeRule
	index map[string]int
	order []int // Evaluation order: prerequisites before dependents
}

// BadgeView pairs a rule with one user's derived status.
type BadgeView struct {
	Rule   domain.BadgeRule   `json:"rule"`
	Status domain.BadgeStatus `json:"status"`
}

// NewEngine validates the rule set and builds the evaluation order.
// Every prerequisite must name a defined rule and the prerequisite graph
// must be acyclic; both are rejected at construction, not at evaluation.
func NewEngine(db *sqlite.DB, cat *catalog.Catalog, streaks *stats.StreakTracker, loc *time.Location, rules []domain.BadgeRule) (*Engine, error) {
	if loc == nil {
		loc = time.Local
	}

	index := make(map[string]int, len(rules))
	for i, r := range rules {
		if _, dup := index[r.ID]; dup {
			return nil, fmt.Errorf("duplicate badge rule %q", r.ID)
		}
		index[r.ID] = i
	}
	for _, r := range rules {
		if r.Requires == "" {
			continue
		}
		if _, ok := index[r.Requires]; !ok {
			return nil, fmt.Errorf("%w: rule %q requires %q", domain.ErrUnknownPrerequisite, r.ID, r.Requires)
		}
	}

	order, err := topoOrder(rules, index)
	if err != nil {
		return nil, err
	}

	return &Engine{
		db:      db,
		catalog: cat,
		streaks: streaks,
		loc:     loc,
		rules:   rules,
		index:   index,
		order:   order,
	}, nil
}

// topoOrder sorts rule indices so prerequisites come first, keeping
// declaration order among rules whose prerequisites are already placed.
func topoOrder(rules []domain.BadgeRule, index map[string]int) ([]int, error) {
	order := make([]int, 0, len(rules))
	placed := make(map[string]bool, len(rules))

	for len(order) < len(rules) {
		progressed := false
		for i, r := range rules {
			if placed[r.ID] {
				continue
			}
			if r.Requires != "" && !placed[r.Requires] {
				continue
			}
			order = append(order, i)
			placed[r.ID] = true
			progressed = true
		}
		if !progressed {
			for _, r := range rules {
				if !placed[r.ID] {
					return nil, fmt.Errorf("%w: involving rule %q", domain.ErrPrerequisiteCycle, r.ID)
				}
			}
		}
	}
	return order, nil
}

// Rules returns the rule set in declaration order.
func (e *Engine) Rules() []domain.BadgeRule {
	out := make([]domain.BadgeRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Rule looks up one rule by ID.
func (e *Engine) Rule(id string) (domain.BadgeRule, error) {
	i, ok := e.index[id]
	if !ok {
		return domain.BadgeRule{}, fmt.Errorf("%w: %q", domain.ErrBadgeNotFound, id)
	}
	return e.rules[i], nil
}

// EarnedCount returns how many badges the user has earned.
func (e *Engine) EarnedCount(userID string) (int, error) {
	return e.db.EarnedBadgeCount(userID)
}

// StatusFor derives every rule's status for one user as of asOf.
// A rule with an unearned prerequisite is Locked no matter how far its own
// metric has come. A newly crossed target is persisted immediately; a
// previously persisted earn is returned as-is without re-measuring.
func (e *Engine) StatusFor(userID string, asOf time.Time) (map[string]domain.BadgeStatus, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	entries, err := e.db.ListActions(userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	// Drop entries after the evaluation instant; the list stays ordered by
	// capture time, then log id.
	for len(entries) > 0 && entries[len(entries)-1].OccurredAt.After(asOf) {
		entries = entries[:len(entries)-1]
	}

	statuses := make(map[string]domain.BadgeStatus, len(e.rules))
	for _, i := range e.order {
		rule := e.rules[i]

		if at, earned, err := e.db.BadgeEarnedAt(userID, rule.ID); err != nil {
			return nil, fmt.Errorf("badge %s: %w", rule.ID, err)
		} else if earned {
			statuses[rule.ID] = domain.EarnedStatus(at)
			continue
		}

		if rule.Requires != "" && statuses[rule.Requires].State != domain.BadgeEarned {
			statuses[rule.ID] = domain.LockedStatus()
			continue
		}

		value, crossedAt, crossed, err := e.measure(rule, userID, entries, asOf)
		if err != nil {
			return nil, fmt.Errorf("badge %s: %w", rule.ID, err)
		}
		if !crossed {
			statuses[rule.ID] = domain.InProgressStatus(value, rule.Target)
			continue
		}

		isNew, err := e.db.EarnBadge(userID, rule.ID, crossedAt)
		if err != nil {
			return nil, fmt.Errorf("earn badge %s: %w", rule.ID, err)
		}
		if isNew {
			metrics.BadgesEarned.WithLabelValues(string(rule.Rarity)).Inc()
		}
		statuses[rule.ID] = domain.EarnedStatus(crossedAt)
	}
	return statuses, nil
}

// Overview returns rule + status pairs in declaration order.
func (e *Engine) Overview(userID string, asOf time.Time) ([]BadgeView, error) {
	statuses, err := e.StatusFor(userID, asOf)
	if err != nil {
		return nil, err
	}
	views := make([]BadgeView, len(e.rules))
	for i, r := range e.rules {
		views[i] = BadgeView{Rule: r, Status: statuses[r.ID]}
	}
	return views, nil
}

// measure computes a rule's current value and, when the target is crossed,
// the capture timestamp of the first entry that crossed it. Entries come in
// ascending capture order with ties already broken by log id, so the first
// crossing found is the earliest.
func (e *Engine) measure(rule domain.BadgeRule, userID string, entries []domain.ActionEntry, asOf time.Time) (int64, time.Time, bool, error) {
	switch rule.Metric {
	case domain.MetricTotalActions:
		var n int64
		for _, entry := range entries {
			n++
			if n == rule.Target {
				return n, entry.OccurredAt, true, nil
			}
		}
		return n, time.Time{}, false, nil

	case domain.MetricTotalPoints:
		var sum int64
		for _, entry := range entries {
			sum += entry.Points
			if sum >= rule.Target {
				return sum, entry.OccurredAt, true, nil
			}
		}
		return sum, time.Time{}, false, nil

	case domain.MetricCategoryCount:
		var n int64
		for _, entry := range entries {
			at, err := e.catalog.Lookup(entry.TypeID)
			if err != nil || at.Category != rule.Category {
				continue
			}
			n++
			if n == rule.Target {
				return n, entry.OccurredAt, true, nil
			}
		}
		return n, time.Time{}, false, nil

	case domain.MetricStreakDays:
		if at, crossed := e.streakCrossing(entries, rule.Target); crossed {
			return rule.Target, at, true, nil
		}
		current, err := e.streaks.CurrentStreak(userID, asOf)
		if err != nil {
			return 0, time.Time{}, false, err
		}
		return int64(current), time.Time{}, false, nil

	default:
		return 0, time.Time{}, false, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, rule.Metric)
	}
}

// streakCrossing scans the ascending log for the first consecutive-day run
// reaching target days and returns the crossing entry's capture timestamp.
func (e *Engine) streakCrossing(entries []domain.ActionEntry, target int64) (time.Time, bool) {
	var (
		lastDay time.Time
		run     int64
	)
	for _, entry := range entries {
		day := domain.DayStart(entry.OccurredAt, e.loc)
		switch {
		case run > 0 && day.Equal(lastDay):
			continue // Same day extends nothing
		case run > 0 && day.Equal(lastDay.AddDate(0, 0, 1)):
			run++
		default:
			run = 1
		}
		lastDay = day
		if run >= target {
			return entry.OccurredAt, true
		}
	}
	return time.Time{}, false
}
