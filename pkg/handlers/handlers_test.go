package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"worktracker/pkg/claims"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

func withClaims(r *http.Request, userID string) *http.Request {
	c := &claims.Claims{User: claims.User{ID: userID, Name: "Ada"}}
	return r.WithContext(context.WithValue(r.Context(), claims.TokenContextKey, c))
}
