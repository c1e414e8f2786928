package actionlog_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ecosnap-app/ecosnap/internal/app/actionlog"
	"github.com/ecosnap-app/ecosnap/internal/app/catalog"
	"github.com/ecosnap-app/ecosnap/internal/domain"
	"github.com/ecosnap-app/ecosnap/internal/infra/sqlite"
)

func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testService(t *testing.T) *actionlog.Service {
	t.Helper()
	svc := actionlog.NewService(testDB(t), catalog.Default())
	svc.SetClock(func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	})
	return svc
}

func TestAppend_VisibleExactlyOnce(t *testing.T) {
	svc := testService(t)
	ts := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)

	entry, err := svc.Append("ana", "recycle", "recycled plastic bottles", ts, "", "")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if entry.ID == 0 {
		t.Error("expected assigned id")
	}
	if entry.Points != 15 {
		t.Errorf("points = %d, want catalog value 15", entry.Points)
	}

	entries, err := svc.EntriesFor("ana", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	count := 0
	for _, e := range entries {
		if e.ID == entry.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("new entry appears %d times, want exactly once", count)
	}
}

func TestAppend_UnknownType(t *testing.T) {
	svc := testService(t)
	ts := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	_, err := svc.Append("ana", "teleport", "beamed to work", ts, "", "")
	if !errors.Is(err, domain.ErrActionTypeNotFound) {
		t.Errorf("expected ErrActionTypeNotFound, got %v", err)
	}
}

func TestAppend_EmptyDescription(t *testing.T) {
	svc := testService(t)
	ts := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	for _, desc := range []string{"", "   ", "\t\n"} {
		_, err := svc.Append("ana", "recycle", desc, ts, "", "")
		if !errors.Is(err, domain.ErrEmptyDescription) {
			t.Errorf("description %q: expected ErrEmptyDescription, got %v", desc, err)
		}
	}
}

func TestAppend_FutureTimestamp(t *testing.T) {
	svc := testService(t)

	// Clock is pinned to Mar 10 noon — Mar 11 is the future
	future := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	_, err := svc.Append("ana", "recycle", "time traveler", future, "", "")
	if !errors.Is(err, domain.ErrFutureTimestamp) {
		t.Errorf("expected ErrFutureTimestamp, got %v", err)
	}
}

func TestAppend_EmptyUser(t *testing.T) {
	svc := testService(t)
	ts := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	_, err := svc.Append("", "recycle", "no owner", ts, "", "")
	if !errors.Is(err, domain.ErrEmptyUserID) {
		t.Errorf("expected ErrEmptyUserID, got %v", err)
	}
}

func TestAppend_DuplicateIdempotencyKey(t *testing.T) {
	svc := testService(t)
	ts := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	_, err := svc.Append("ana", "recycle", "first try", ts, "", "retry-1")
	if err != nil {
		t.Fatalf("first append: %v", err)
	}

	_, err = svc.Append("ana", "recycle", "network retry", ts, "", "retry-1")
	if !errors.Is(err, domain.ErrDuplicateSubmission) {
		t.Errorf("expected ErrDuplicateSubmission, got %v", err)
	}

	entries, _ := svc.EntriesFor("ana", time.Time{}, time.Time{})
	if len(entries) != 1 {
		t.Errorf("log has %d entries after a retry, want 1", len(entries))
	}
}

func TestAppend_PhotoRefStoredOpaque(t *testing.T) {
	svc := testService(t)
	ts := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	entry, err := svc.Append("ana", "plant", "planted herbs", ts, "photos/abc123.jpg", "")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if entry.PhotoRef != "photos/abc123.jpg" {
		t.Errorf("photo ref = %q, not stored verbatim", entry.PhotoRef)
	}
}

func TestAppend_ConcurrentSerialized(t *testing.T) {
	svc := testService(t)
	ts := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Append("ana", "bike", "rode to work", ts, "", "")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, _ := svc.EntriesFor("ana", time.Time{}, time.Time{})
	if len(entries) != n {
		t.Fatalf("expected %d entries, got %d (lost appends)", n, len(entries))
	}
	seen := make(map[int64]bool)
	for _, e := range entries {
		if seen[e.ID] {
			t.Fatalf("duplicate id %d", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestAppend_ConcurrentSameKeyExactlyOne(t *testing.T) {
	svc := testService(t)
	ts := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	const n = 10
	var wg sync.WaitGroup
	var okCount, dupCount int
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Append("ana", "recycle", "double tap", ts, "", "same-key")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				okCount++
			case errors.Is(err, domain.ErrDuplicateSubmission):
				dupCount++
			}
		}()
	}
	wg.Wait()

	if okCount != 1 || dupCount != n-1 {
		t.Errorf("got %d accepted / %d duplicates, want 1 / %d", okCount, dupCount, n-1)
	}
}

func TestEntriesFor_CrossUserIsolation(t *testing.T) {
	svc := testService(t)
	base := time.Date(2026, 3, 8, 8, 0, 0, 0, time.UTC)

	// Interleave appends across two users
	for i := 0; i < 6; i++ {
		user := "ana"
		if i%2 == 1 {
			user = "ben"
		}
		if _, err := svc.Append(user, "water", "shorter shower", base.Add(time.Duration(i)*time.Hour), "", ""); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	anas, _ := svc.EntriesFor("ana", time.Time{}, time.Time{})
	bens, _ := svc.EntriesFor("ben", time.Time{}, time.Time{})
	if len(anas) != 3 || len(bens) != 3 {
		t.Fatalf("expected 3/3 entries, got %d/%d", len(anas), len(bens))
	}
	for _, e := range anas {
		if e.UserID != "ana" {
			t.Errorf("ben's entry leaked into ana's log")
		}
	}
}
