package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ecosnap-app/ecosnap/internal/domain"
)

// ─── EcoSnap REST API (/api/*) ───────────────────────────────────────────────

// userParam resolves the target user: ?user= overrides the configured
// default.
func (s *Server) userParam(r *http.Request) string {
	if u := r.URL.Query().Get("user"); u != "" {
		return u
	}
	return s.defaultUser
}

// --- /api/catalog (action types) ---

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"types": s.catalog.List(),
	})
}

// --- POST /api/actions (submit an action) ---

type submitActionRequest struct {
	UserID         string `json:"user_id,omitempty"`
	TypeID         string `json:"type_id"`
	Description    string `json:"description"`
	OccurredAt     string `json:"occurred_at,omitempty"` // RFC 3339; defaults to now
	PhotoRef       string `json:"photo_ref,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

func (s *Server) handleSubmitAction(w http.ResponseWriter, r *http.Request) {
	var req submitActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = s.defaultUser
	}

	occurredAt := s.now()
	if req.OccurredAt != "" {
		t, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "occurred_at: "+err.Error())
			return
		}
		occurredAt = t
	}

	entry, err := s.log.Append(userID, req.TypeID, req.Description, occurredAt, req.PhotoRef, req.IdempotencyKey)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastAction(entry)
	}

	writeJSON(w, http.StatusCreated, entry)
}

// --- GET /api/actions (list log entries) ---

func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	from, err := timeParam(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "from: "+err.Error())
		return
	}
	to, err := timeParam(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "to: "+err.Error())
		return
	}

	entries, err := s.log.EntriesFor(s.userParam(r), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.ActionEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"actions": entries,
	})
}

// --- GET /api/stats (snapshot) ---

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	windowDays := s.windowDays
	if v := r.URL.Query().Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "window: "+err.Error())
			return
		}
		windowDays = n
	}

	snap, err := s.agg.Snapshot(s.userParam(r), windowDays, s.now())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// --- GET /api/streak ---

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := s.streaks.CurrentStreak(s.userParam(r), s.now())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"current_streak": streak,
	})
}

// --- GET /api/badges ---

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	views, err := s.engine.Overview(s.userParam(r), s.now())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	earned := 0
	for _, v := range views {
		if v.Status.State == domain.BadgeEarned {
			earned++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"badges": views,
		"earned": earned,
		"total":  len(views),
	})
}

// --- GET /api/summary (stats + streak + badges in one round trip) ---

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := s.userParam(r)
	now := s.now()

	snap, err := s.agg.Snapshot(userID, s.windowDays, now)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	streak, err := s.streaks.CurrentStreak(userID, now)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views, err := s.engine.Overview(userID, now)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	earned := 0
	for _, v := range views {
		if v.Status.State == domain.BadgeEarned {
			earned++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":        userID,
		"stats":          snap,
		"current_streak": streak,
		"badges_earned":  earned,
		"badges_total":   len(views),
	})
}

// timeParam parses an optional RFC 3339 query parameter; absent means open.
func timeParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}
