package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"worktracker/pkg/authsession"
	"worktracker/pkg/claims"
	"worktracker/pkg/middleware"
)

var (
	secret = []byte("test-secret")
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Create(ctx context.Context, userID string, ttl time.Duration) (*authsession.Session, error) {
	args := m.Called(ctx, userID, ttl)
	if s := args.Get(0); s != nil {
		return s.(*authsession.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessions) IsValid(ctx context.Context, sessionID, userID string) (bool, error) {
	args := m.Called(ctx, sessionID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessions) Invalidate(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func token(t *testing.T, userID, sessionID string) string {
	t.Helper()
	s, err := claims.New(claims.User{ID: userID, Name: "Ada"}, sessionID, time.Now(), time.Hour).Sign(secret)
	require.NoError(t, err)
	return s
}

func newRouter(sessions authsession.Repository) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.CheckJWT(sessions, secret, logger))

	echo := func(w http.ResponseWriter, r *http.Request) {
		c, ok := r.Context().Value(claims.TokenContextKey).(*claims.Claims)
		if ok {
			_, _ = w.Write([]byte(c.User.ID))
			return
		}
		_, _ = w.Write([]byte("anonymous"))
	}
	api.HandleFunc("/auth/login", echo).Methods(http.MethodGet)
	api.HandleFunc("/sessions", echo).Methods(http.MethodGet)
	api.HandleFunc("/sessions/stream", echo).Methods(http.MethodGet)
	return r
}

func TestCheckJWT(t *testing.T) {
	sessions := new(mockSessions)
	sessions.On("IsValid", mock.Anything, "sess-1", "u1").Return(true, nil)
	sessions.On("IsValid", mock.Anything, "revoked", "u1").Return(false, nil)
	sessions.On("IsValid", mock.Anything, "broken", "u1").Return(false, errors.New("mysql down"))
	router := newRouter(sessions)

	tests := []struct {
		name           string
		path           string
		header         string
		expectedStatus int
		expectedBody   string
	}{
		{name: "public route", path: "/api/auth/login", expectedStatus: http.StatusOK, expectedBody: "anonymous"},
		{name: "missing token", path: "/api/sessions", expectedStatus: http.StatusUnauthorized, expectedBody: "unauthorized"},
		{name: "valid token", path: "/api/sessions", header: "Bearer " + token(t, "u1", "sess-1"), expectedStatus: http.StatusOK, expectedBody: "u1"},
		{name: "bad token", path: "/api/sessions", header: "Bearer nope", expectedStatus: http.StatusUnauthorized},
		{name: "no bearer prefix", path: "/api/sessions", header: token(t, "u1", "sess-1"), expectedStatus: http.StatusUnauthorized},
		{name: "revoked session", path: "/api/sessions", header: "Bearer " + token(t, "u1", "revoked"), expectedStatus: http.StatusUnauthorized},
		{name: "session store error", path: "/api/sessions", header: "Bearer " + token(t, "u1", "broken"), expectedStatus: http.StatusUnauthorized},
		{name: "stream accepts query token", path: "/api/sessions/stream?access_token=" + token(t, "u1", "sess-1"), expectedStatus: http.StatusOK, expectedBody: "u1"},
		{name: "query token only on stream", path: "/api/sessions?access_token=" + token(t, "u1", "sess-1"), expectedStatus: http.StatusUnauthorized},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, test.path, nil)
			if test.header != "" {
				req.Header.Set("Authorization", test.header)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, test.expectedStatus, rr.Code)
			if test.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), test.expectedBody)
			}
		})
	}
}

func TestRequireAdminToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("let-me-in"), bcrypt.MinCost)
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name           string
		hash           string
		token          string
		expectedStatus int
	}{
		{name: "valid", hash: string(hash), token: "let-me-in", expectedStatus: http.StatusNoContent},
		{name: "wrong token", hash: string(hash), token: "guess", expectedStatus: http.StatusUnauthorized},
		{name: "missing token", hash: string(hash), expectedStatus: http.StatusUnauthorized},
		{name: "not configured", token: "let-me-in", expectedStatus: http.StatusUnauthorized},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/open-sessions", nil)
			if test.token != "" {
				req.Header.Set("X-Admin-Token", test.token)
			}
			rr := httptest.NewRecorder()

			middleware.RequireAdminToken(test.hash)(ok).ServeHTTP(rr, req)

			assert.Equal(t, test.expectedStatus, rr.Code)
		})
	}
}

func TestIPRateLimiter(t *testing.T) {
	limit, err := middleware.NewIPRateLimiter("2-M")
	require.NoError(t, err)
	h := limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = middleware.NewIPRateLimiter("lots")
	assert.Error(t, err)

	noop, err := middleware.NewIPRateLimiter("")
	require.NoError(t, err)
	assert.NotNil(t, noop)
}

func TestPanic(t *testing.T) {
	h := middleware.Panic(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestPrometheus(t *testing.T) {
	r := mux.NewRouter()
	r.Use(middleware.Prometheus)
	r.HandleFunc("/api/projects", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}).Methods(http.MethodPost)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/projects", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
}
