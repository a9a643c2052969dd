package routing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"worktracker/pkg/authsession"
	"worktracker/pkg/feed"
	"worktracker/pkg/handlers"
	"worktracker/pkg/ledger"
	"worktracker/pkg/middleware"
	"worktracker/pkg/project"
	"worktracker/pkg/user"
)

const shutdownTimeout = 10 * time.Second

type Deps struct {
	Sessions       ledger.ServiceSession
	Projects       project.ServiceProject
	Users          user.ServiceUser
	SignIns        authsession.Repository
	Identity       handlers.Authenticator
	Subscribe      handlers.SubscribeFunc
	Health         map[string]handlers.Pinger
	Secret         []byte
	AdminTokenHash string
	RateLimit      string
	Logger         *slog.Logger
}

func InitRoutes(r *mux.Router, d Deps) error {
	limit, err := middleware.NewIPRateLimiter(d.RateLimit)
	if err != nil {
		return err
	}
	r.Use(middleware.Panic(d.Logger))
	r.Use(middleware.Prometheus)

	authHandler := handlers.NewAuthHandler(d.Identity, d.SignIns, d.Users, d.Secret, d.Logger)
	sessionHandler := handlers.NewSessionHandler(d.Sessions, d.Subscribe, d.Logger)
	statsHandler := handlers.NewStatsHandler(d.Sessions, d.Projects, d.Logger)
	projectHandler := handlers.NewProjectHandler(d.Projects, d.Logger)
	adminHandler := handlers.NewAdminHandler(d.Sessions, d.Logger)

	/* -+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+ */

	r.Handle("/health", handlers.NewHealthHandler(d.Health)).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	/* admin routers are matched before the JWT-protected api */
	adminRouter := r.PathPrefix("/api/admin").Subrouter()
	adminRouter.Use(middleware.RequireAdminToken(d.AdminTokenHash))
	adminRouter.HandleFunc("/open-sessions", adminHandler.OpenSessions).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(limit)
	api.Use(middleware.CheckJWT(d.SignIns, d.Secret, d.Logger))

	authRouter := api.PathPrefix("/auth").Subrouter()
	sessionsRouter := api.PathPrefix("/sessions").Subrouter()
	projectsRouter := api.PathPrefix("/projects").Subrouter()

	/* auth routers */
	authRouter.HandleFunc("/login", authHandler.Login).Methods("GET").Name("login")
	authRouter.HandleFunc("/callback", authHandler.Callback).Methods("GET").Name("callback")
	authRouter.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/me", authHandler.Me).Methods("GET")

	/* sessions routers */
	sessionsRouter.HandleFunc("", sessionHandler.List).Methods("GET")
	sessionsRouter.HandleFunc("/toggle", sessionHandler.Toggle).Methods("POST")
	sessionsRouter.HandleFunc("/stream", sessionHandler.Stream).Methods("GET")

	/* stats routers */
	api.HandleFunc("/stats", statsHandler.Get).Methods("GET")

	/* projects routers */
	projectsRouter.HandleFunc("", projectHandler.Add).Methods("POST")
	projectsRouter.HandleFunc("", projectHandler.List).Methods("GET")

	return nil
}

// SessionFeed adapts the redis feed to the session stream handler. Every
// notification reloads the user's ordered sessions.
func SessionFeed(n *feed.Notifier, sessions ledger.ServiceSession) handlers.SubscribeFunc {
	return func(ctx context.Context, userID string, deliver func([]*ledger.Session)) (handlers.Subscription, error) {
		load := func(ctx context.Context) ([]*ledger.Session, error) {
			return sessions.List(ctx, userID)
		}
		sub, err := feed.Subscribe(ctx, n, userID, load, deliver)
		if err != nil {
			return nil, err
		}
		return sub, nil
	}
}

// StartServer serves r on port until ctx is cancelled, then drains
// in-flight requests.
func StartServer(ctx context.Context, r http.Handler, port string, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is running", "addr", "http://localhost:"+port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down server")
	return srv.Shutdown(shutdownCtx)
}
