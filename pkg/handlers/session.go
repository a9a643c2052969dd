package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"worktracker/pkg/claims"
	"worktracker/pkg/ledger"
	"worktracker/pkg/middleware"
)

const heartbeatInterval = 15 * time.Second

type Subscription interface {
	Close() error
	Done() <-chan struct{}
}

// SubscribeFunc opens a live feed of ordered session snapshots for a user.
type SubscribeFunc func(ctx context.Context, userID string, deliver func([]*ledger.Session)) (Subscription, error)

type SessionHandler struct {
	Service   ledger.ServiceSession
	Subscribe SubscribeFunc
	Logger    *slog.Logger
	Heartbeat time.Duration
}

func NewSessionHandler(service ledger.ServiceSession, subscribe SubscribeFunc, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		Service:   service,
		Subscribe: subscribe,
		Logger:    logger,
		Heartbeat: heartbeatInterval,
	}
}

func (h *SessionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var c claims.Claims
	if ok := getClaimsFromContext(w, r, &c); !ok {
		return
	}

	session, err := h.Service.Toggle(r.Context(), c.User.ID)
	if err != nil {
		h.Logger.Error("toggle", "user", c.User.ID, "error", err)
		msg := "internal error"
		if errors.Is(err, ledger.ErrStoreWrite) {
			msg = "could not save session"
		}
		writeError(w, http.StatusInternalServerError, typeError, msg)
		return
	}
	middleware.RecordToggle(session.Active)

	if ok := writeJSON(w, h.Logger, session); ok {
		h.Logger.Info("tracking toggled", "user", c.User.ID, "session", session.ID, "active", session.Active)
	}
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	var c claims.Claims
	if ok := getClaimsFromContext(w, r, &c); !ok {
		return
	}

	sessions, err := h.Service.List(r.Context(), c.User.ID)
	if err != nil {
		h.Logger.Error("list sessions", "user", c.User.ID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal error")
		return
	}
	if sessions == nil {
		sessions = []*ledger.Session{}
	}

	writeJSON(w, h.Logger, sessions)
}

// Stream pushes the ordered session list as server-sent events, once on
// connect and again after every change.
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var c claims.Claims
	if ok := getClaimsFromContext(w, r, &c); !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		h.Logger.Error("response writer doesn't support flushing")
		writeError(w, http.StatusInternalServerError, typeError, "streaming not supported")
		return
	}

	// only the newest snapshot matters, older undelivered ones are dropped
	snapshots := make(chan []*ledger.Session, 1)
	deliver := func(s []*ledger.Session) {
		select {
		case <-snapshots:
		default:
		}
		snapshots <- s
	}

	ctx := r.Context()
	sub, err := h.Subscribe(ctx, c.User.ID, deliver)
	if err != nil {
		h.Logger.Error("subscribe", "user", c.User.ID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal error")
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(h.Heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done():
			return
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": heartbeat\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case s := <-snapshots:
			if s == nil {
				s = []*ledger.Session{}
			}
			data, err := json.Marshal(s)
			if err != nil {
				h.Logger.Error("marshal snapshot", "error", err)
				continue
			}
			if _, err := w.Write([]byte("event: sessions\ndata: " + string(data) + "\n\n")); err != nil {
				h.Logger.Info("client disconnected", "user", c.User.ID, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}
