package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"worktracker/pkg/claims"
	"worktracker/pkg/ledger"
	"worktracker/pkg/project"
)

const dateLayout = "2006-01-02"

type StatsHandler struct {
	Sessions ledger.ServiceSession
	Projects project.ServiceProject
	Logger   *slog.Logger
	Now      func() time.Time
}

func NewStatsHandler(sessions ledger.ServiceSession, projects project.ServiceProject, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		Sessions: sessions,
		Projects: projects,
		Logger:   logger,
		Now:      time.Now,
	}
}

type statsResponse struct {
	From     time.Time        `json:"from"`
	To       time.Time        `json:"to"`
	Hours    string           `json:"hours"`
	Project  *project.Project `json:"project,omitempty"`
	Earnings string           `json:"earnings,omitempty"`
}

// Get reports worked hours for [from, to] and, when a project is selected,
// the earnings at its rate. from defaults to the start of the current month
// and to defaults to now.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	var c claims.Claims
	if ok := getClaimsFromContext(w, r, &c); !ok {
		return
	}

	now := h.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now

	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		t, _, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, typeMessage, "invalid from date")
			return
		}
		from = t
	}
	if v := q.Get("to"); v != "" {
		t, dateOnly, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, typeMessage, "invalid to date")
			return
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = t
	}

	hours, err := h.Sessions.WorkedHours(r.Context(), c.User.ID, from, to)
	if err != nil {
		h.Logger.Error("worked hours", "user", c.User.ID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal error")
		return
	}

	resp := statsResponse{From: from, To: to, Hours: hours.StringFixed(2)}

	if id := q.Get("project"); id != "" {
		p, err := h.Projects.Get(r.Context(), c.User.ID, id)
		if errors.Is(err, project.ErrNotFound) {
			writeError(w, http.StatusNotFound, typeMessage, err.Error())
			return
		}
		if err != nil {
			h.Logger.Error("get project", "user", c.User.ID, "error", err)
			writeError(w, http.StatusInternalServerError, typeError, "internal error")
			return
		}
		resp.Project = p
		resp.Earnings = project.Earnings(hours, p).StringFixed(2)
	}

	writeJSON(w, h.Logger, resp)
}

func parseDate(v string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	return t, false, err
}
