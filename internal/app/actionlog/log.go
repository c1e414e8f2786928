// Package actionlog implements the append-only action log.
// The log is the single source of truth: every displayed number — totals,
// streaks, badge progress — is derived from it, never stored independently.
package actionlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/ecosnap-app/ecosnap/internal/app/catalog"
	"github.com/ecosnap-app/ecosnap/internal/domain"
	"github.com/ecosnap-app/ecosnap/internal/infra/metrics"
	"github.com/ecosnap-app/ecosnap/internal/infra/sqlite"
)

// Service validates and appends action submissions.
// There is no update or delete — the log is append-only by design.
type Service struct {
	db      *sqlite.DB
	catalog *catalog.Catalog

	mu  sync.Mutex // Serializes append's idempotency check + insert
	now func() time.Time
}

// NewService creates an action log service.
func NewService(db *sqlite.DB, cat *catalog.Catalog) *Service {
	return &Service{db: db, catalog: cat, now: time.Now}
}

// SetClock overrides the wall clock. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Append validates and records a submission, returning the stored entry.
// The entry's point value is the catalog value at submission time.
// photoRef is an opaque handle — the core stores it without interpretation
// and never waits on photo storage. idemKey may be "" when the caller does
// not need resubmission protection.
func (s *Service) Append(userID, typeID, description string, occurredAt time.Time, photoRef, idemKey string) (domain.ActionEntry, error) {
	var zero domain.ActionEntry

	if userID == "" {
		metrics.ActionsRejected.WithLabelValues("invalid_input").Inc()
		return zero, domain.ErrEmptyUserID
	}

	description = domain.NormalizeDescription(description)
	if description == "" {
		metrics.ActionsRejected.WithLabelValues("invalid_input").Inc()
		return zero, domain.ErrEmptyDescription
	}

	now := s.now()
	if occurredAt.After(now) {
		metrics.ActionsRejected.WithLabelValues("invalid_input").Inc()
		return zero, fmt.Errorf("%w: %s", domain.ErrFutureTimestamp, occurredAt.Format(time.RFC3339))
	}

	at, err := s.catalog.Lookup(typeID)
	if err != nil {
		metrics.ActionsRejected.WithLabelValues("unknown_type").Inc()
		return zero, err
	}

	entry := domain.ActionEntry{
		UserID:      userID,
		TypeID:      at.ID,
		Description: description,
		PhotoRef:    photoRef,
		Points:      at.Points,
		OccurredAt:  occurredAt,
		CreatedAt:   now,
		IdemKey:     idemKey,
	}

	// Concurrent appends for the same key must not both land. The check and
	// the insert run under one lock; the unique index backstops the store.
	s.mu.Lock()
	defer s.mu.Unlock()

	if idemKey != "" {
		used, err := s.db.HasSubmission(userID, idemKey)
		if err != nil {
			return zero, fmt.Errorf("check submission: %w", err)
		}
		if used {
			metrics.ActionsRejected.WithLabelValues("duplicate").Inc()
			return zero, fmt.Errorf("%w: key %q", domain.ErrDuplicateSubmission, idemKey)
		}
	}

	id, err := s.db.InsertAction(entry)
	if err != nil {
		return zero, fmt.Errorf("append action: %w", err)
	}
	entry.ID = id

	metrics.ActionsSubmitted.WithLabelValues(string(at.Category)).Inc()
	metrics.PointsAwarded.Add(float64(at.Points))

	return entry, nil
}

// EntriesFor returns one user's entries in [from, to), ordered by capture
// timestamp ascending (ties by log id). Zero bounds are open.
func (s *Service) EntriesFor(userID string, from, to time.Time) ([]domain.ActionEntry, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	return s.db.ListActions(userID, from, to)
}
