package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"worktracker/pkg/ledger"
)

type openSession struct {
	ID     string    `json:"id"`
	UserID string    `json:"userId"`
	Start  time.Time `json:"start"`
}

type AdminHandler struct {
	Service ledger.ServiceSession
	Logger  *slog.Logger
}

func NewAdminHandler(service ledger.ServiceSession, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{Service: service, Logger: logger}
}

// OpenSessions lists active sessions across all users.
func (h *AdminHandler) OpenSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Service.OpenSessions(r.Context())
	if err != nil {
		h.Logger.Error("open sessions", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal error")
		return
	}

	out := make([]openSession, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, openSession{ID: s.ID, UserID: s.UserID, Start: s.Start})
	}

	writeJSON(w, h.Logger, out)
}
