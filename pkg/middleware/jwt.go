package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"worktracker/pkg/authsession"
	"worktracker/pkg/claims"
)

const streamTemplate = "/api/sessions/stream"

var (
	noSessUrls = map[string]string{
		"/api/auth/login":    http.MethodGet,
		"/api/auth/callback": http.MethodGet,
	}
)

// CheckJWT validates the bearer token and the sign-in session behind it and
// puts the claims into the request context. EventSource clients cannot set
// headers, so the stream route also accepts the token as access_token.
func CheckJWT(sessions authsession.Repository, secret []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := mux.CurrentRoute(r)
			if route == nil {
				unauthorized(w)
				return
			}
			template, err := route.GetPathTemplate()
			if err != nil {
				http.Error(w, "Route not found", http.StatusNotFound)
				return
			}

			if method, ok := noSessUrls[template]; ok && method == r.Method {
				next.ServeHTTP(w, r)
				return
			}

			token := ""
			auth := r.Header.Get("Authorization")
			switch {
			case strings.HasPrefix(auth, "Bearer "):
				token = strings.TrimPrefix(auth, "Bearer ")
			case template == streamTemplate:
				token = r.URL.Query().Get("access_token")
			}
			if token == "" {
				unauthorized(w)
				return
			}

			c, err := claims.Parse(token, secret)
			if err != nil {
				logger.Info("rejected token", "path", template, "error", err)
				unauthorized(w)
				return
			}

			ok, err := sessions.IsValid(r.Context(), c.Id, c.User.ID)
			if err != nil || !ok {
				logger.Info("sign-in session not valid", "user", c.User.ID, "error", err)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claims.TokenContextKey, c)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
}
