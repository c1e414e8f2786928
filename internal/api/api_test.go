package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ecosnap-app/ecosnap/internal/app/actionlog"
	"github.com/ecosnap-app/ecosnap/internal/app/badges"
	"github.com/ecosnap-app/ecosnap/internal/app/catalog"
	"github.com/ecosnap-app/ecosnap/internal/app/stats"
	"github.com/ecosnap-app/ecosnap/internal/infra/sqlite"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cat := catalog.Default()
	logSvc := actionlog.NewService(db, cat)
	logSvc.SetClock(func() time.Time { return testNow })

	agg := stats.NewAggregator(db, cat, time.UTC)
	streaks := stats.NewStreakTracker(db, time.UTC)
	engine, err := badges.NewEngine(db, cat, streaks, time.UTC, badges.DefaultRules())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	srv := NewServer(cat, logSvc, agg, streaks, engine, "default-user", 7)
	srv.SetClock(func() time.Time { return testNow })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func submitAction(t *testing.T, srv *Server, user, typeID, desc, occurredAt string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"user_id": %q, "type_id": %q, "description": %q, "occurred_at": %q}`,
		user, typeID, desc, occurredAt)
	return doJSON(t, srv, "POST", "/api/actions", body)
}

// ─── Health / Status ────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestAPI_Version(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "GET", "/api/version", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["version"] != Version {
		t.Errorf("version = %q, want %q", body["version"], Version)
	}
}

// ─── /api/catalog ───────────────────────────────────────────────────────────

func TestAPI_Catalog(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "GET", "/api/catalog", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	json.NewDecoder(w.Body).Decode(&body)
	types, ok := body["types"].([]interface{})
	if !ok {
		t.Fatal("types should be an array")
	}
	if len(types) != 8 {
		t.Errorf("len(types) = %d, want 8", len(types))
	}
}

// ─── POST /api/actions ──────────────────────────────────────────────────────

func TestAPI_SubmitAction(t *testing.T) {
	srv := newTestServer(t)

	w := submitAction(t, srv, "ana", "recycle", "recycled bottles", "2026-03-09T08:30:00Z")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var entry map[string]interface{}
	json.NewDecoder(w.Body).Decode(&entry)
	if entry["points"].(float64) != 15 {
		t.Errorf("points = %v, want catalog value 15", entry["points"])
	}
	if entry["id"].(float64) == 0 {
		t.Error("expected assigned id")
	}
}

func TestAPI_SubmitAction_UnknownType(t *testing.T) {
	srv := newTestServer(t)

	w := submitAction(t, srv, "ana", "teleport", "beamed home", "2026-03-09T08:30:00Z")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestAPI_SubmitAction_EmptyDescription(t *testing.T) {
	srv := newTestServer(t)

	w := submitAction(t, srv, "ana", "recycle", "   ", "2026-03-09T08:30:00Z")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAPI_SubmitAction_FutureTimestamp(t *testing.T) {
	srv := newTestServer(t)

	// Clock is pinned to Mar 10 noon
	w := submitAction(t, srv, "ana", "recycle", "time traveler", "2026-03-11T00:00:00Z")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAPI_SubmitAction_DuplicateKeyConflict(t *testing.T) {
	srv := newTestServer(t)

	body := `{"user_id": "ana", "type_id": "recycle", "description": "first", "occurred_at": "2026-03-09T08:00:00Z", "idempotency_key": "retry-1"}`
	w := doJSON(t, srv, "POST", "/api/actions", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("first submit = %d, want %d", w.Code, http.StatusCreated)
	}

	w = doJSON(t, srv, "POST", "/api/actions", body)
	if w.Code != http.StatusConflict {
		t.Errorf("retry status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestAPI_SubmitAction_DefaultsUserAndTime(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "POST", "/api/actions", `{"type_id": "bike", "description": "rode to work"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	var entry map[string]interface{}
	json.NewDecoder(w.Body).Decode(&entry)
	if entry["user_id"] != "default-user" {
		t.Errorf("user_id = %v, want configured default", entry["user_id"])
	}
}

// ─── GET /api/actions ───────────────────────────────────────────────────────

func TestAPI_ListActions(t *testing.T) {
	srv := newTestServer(t)

	submitAction(t, srv, "ana", "recycle", "bottles", "2026-03-08T08:00:00Z")
	submitAction(t, srv, "ana", "bike", "commute", "2026-03-09T08:00:00Z")
	submitAction(t, srv, "ben", "plant", "basil", "2026-03-09T09:00:00Z")

	w := doJSON(t, srv, "GET", "/api/actions?user=ana", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	json.NewDecoder(w.Body).Decode(&body)
	actions := body["actions"].([]interface{})
	if len(actions) != 2 {
		t.Errorf("len(actions) = %d, want 2 (ben's entry excluded)", len(actions))
	}
}

func TestAPI_ListActions_HalfOpenRange(t *testing.T) {
	srv := newTestServer(t)

	submitAction(t, srv, "ana", "water", "short shower", "2026-03-08T08:00:00Z")
	submitAction(t, srv, "ana", "water", "short shower", "2026-03-09T08:00:00Z")

	// to is exclusive: the Mar 9 08:00 entry must not appear
	w := doJSON(t, srv, "GET", "/api/actions?user=ana&from=2026-03-08T00:00:00Z&to=2026-03-09T08:00:00Z", "")
	var body map[string]interface{}
	json.NewDecoder(w.Body).Decode(&body)
	actions := body["actions"].([]interface{})
	if len(actions) != 1 {
		t.Errorf("len(actions) = %d, want 1", len(actions))
	}
}

func TestAPI_ListActions_EmptyIsArray(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "GET", "/api/actions?user=nobody", "")
	if !strings.Contains(w.Body.String(), `"actions":[]`) {
		t.Errorf("empty log should serialize as [], got %s", w.Body.String())
	}
}

// ─── GET /api/stats ─────────────────────────────────────────────────────────

func TestAPI_Stats(t *testing.T) {
	srv := newTestServer(t)

	submitAction(t, srv, "ana", "recycle", "day one", "2026-03-08T09:00:00Z")
	submitAction(t, srv, "ana", "recycle", "day two", "2026-03-09T09:00:00Z")
	submitAction(t, srv, "ana", "recycle", "day three", "2026-03-10T09:00:00Z")

	w := doJSON(t, srv, "GET", "/api/stats?user=ana", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var snap map[string]interface{}
	json.NewDecoder(w.Body).Decode(&snap)
	if snap["total_points"].(float64) != 45 {
		t.Errorf("total_points = %v, want 45", snap["total_points"])
	}
	if snap["total_actions"].(float64) != 3 {
		t.Errorf("total_actions = %v, want 3", snap["total_actions"])
	}
	days := snap["days"].([]interface{})
	if len(days) != 7 {
		t.Errorf("len(days) = %d, want default window 7", len(days))
	}
}

func TestAPI_Stats_InvalidWindow(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "GET", "/api/stats?user=ana&window=0", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// ─── GET /api/streak ────────────────────────────────────────────────────────

func TestAPI_Streak(t *testing.T) {
	srv := newTestServer(t)

	submitAction(t, srv, "ana", "compost", "scraps", "2026-03-09T09:00:00Z")
	submitAction(t, srv, "ana", "compost", "scraps", "2026-03-10T09:00:00Z")

	w := doJSON(t, srv, "GET", "/api/streak?user=ana", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	json.NewDecoder(w.Body).Decode(&body)
	if body["current_streak"].(float64) != 2 {
		t.Errorf("current_streak = %v, want 2", body["current_streak"])
	}
}

// ─── GET /api/badges ────────────────────────────────────────────────────────

func TestAPI_Badges(t *testing.T) {
	srv := newTestServer(t)

	submitAction(t, srv, "ana", "recycle", "bottles", "2026-03-09T09:00:00Z")

	w := doJSON(t, srv, "GET", "/api/badges?user=ana", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body map[string]interface{}
	json.NewDecoder(w.Body).Decode(&body)
	if body["total"].(float64) != 9 {
		t.Errorf("total = %v, want 9", body["total"])
	}
	// One action earns First Steps
	if body["earned"].(float64) != 1 {
		t.Errorf("earned = %v, want 1", body["earned"])
	}
}

// ─── GET /api/summary ───────────────────────────────────────────────────────

func TestAPI_Summary(t *testing.T) {
	srv := newTestServer(t)

	submitAction(t, srv, "ana", "plant", "herb garden", "2026-03-10T09:00:00Z")

	w := doJSON(t, srv, "GET", "/api/summary?user=ana", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body map[string]interface{}
	json.NewDecoder(w.Body).Decode(&body)
	if body["user_id"] != "ana" {
		t.Errorf("user_id = %v, want ana", body["user_id"])
	}
	if body["current_streak"].(float64) != 1 {
		t.Errorf("current_streak = %v, want 1", body["current_streak"])
	}
	if body["badges_earned"].(float64) != 1 {
		t.Errorf("badges_earned = %v, want 1", body["badges_earned"])
	}
	snap, ok := body["stats"].(map[string]interface{})
	if !ok {
		t.Fatal("summary should embed a stats snapshot")
	}
	if snap["total_points"].(float64) != 25 {
		t.Errorf("total_points = %v, want 25", snap["total_points"])
	}
}

// ─── CORS ───────────────────────────────────────────────────────────────────

func TestAPI_CORS(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "OPTIONS", "/api/catalog", "")
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS: Access-Control-Allow-Origin should be *")
	}
}
