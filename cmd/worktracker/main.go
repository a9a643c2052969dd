package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"worktracker/internal/config"
	"worktracker/internal/logger"
	"worktracker/internal/mongo"
	"worktracker/internal/mysql"
	"worktracker/internal/queue"
	"worktracker/internal/redis"
	"worktracker/internal/routing"
	"worktracker/pkg/authsession"
	"worktracker/pkg/feed"
	"worktracker/pkg/handlers"
	"worktracker/pkg/identity"
	"worktracker/pkg/ledger"
	"worktracker/pkg/project"
	"worktracker/pkg/user"
)

const startupTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load() // env file named by START, then process env
	if err != nil {
		log.Fatal(err)
	}
	logger := logger.Load(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	db, err := mysql.LoadDB(startCtx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	mongoClient, mongoDB, err := mongo.LoadDB(startCtx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal(err)
	}
	defer mongoClient.Disconnect(context.Background())

	redisClient, err := redis.NewClient(startCtx, cfg.RedisAddr)
	if err != nil {
		log.Fatal(err)
	}
	defer redisClient.Close()

	sessionRepo := ledger.NewMongoRepo(mongoDB)
	projectRepo := project.NewMongoRepo(mongoDB)
	if err := mongo.EnsureIndexes(startCtx, sessionRepo, projectRepo); err != nil {
		log.Fatal(err)
	}

	provider, err := identity.NewProvider(startCtx, identity.Config{
		Issuer:       cfg.OIDC.Issuer,
		ClientID:     cfg.OIDC.ClientID,
		ClientSecret: cfg.OIDC.ClientSecret,
		RedirectURL:  cfg.OIDC.RedirectURL,
	})
	if err != nil {
		log.Fatal(err)
	}

	asynqOpt := redis.AsynqOpt(redisClient)
	enqueuer := queue.NewAsynqEnqueuer(asynqOpt, logger)
	defer enqueuer.Close()

	notifier := feed.NewNotifier(redisClient, logger)
	signIns := authsession.NewMySQLRepo(db)
	userService := user.NewService(user.NewMongoRepo(mongoDB), logger)
	ledgerService := ledger.NewService(sessionRepo, notifier, enqueuer, logger)
	projectService := project.NewService(projectRepo)

	unsubscribe := provider.OnAuthStateChanged(userService.OnAuthStateChanged)
	defer unsubscribe()

	worker := queue.NewWorker(asynqOpt, userService, ledgerService, signIns, logger)
	go func() {
		if err := worker.Run(); err != nil {
			logger.Warn("asynq worker stopped", "error", err)
		}
	}()
	defer worker.Shutdown()

	scheduler, err := queue.NewScheduler(asynqOpt, cfg.CleanupSchedule, logger)
	if err != nil {
		log.Fatal(err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Warn("asynq scheduler stopped", "error", err)
		}
	}()
	defer scheduler.Shutdown()

	r := mux.NewRouter()
	err = routing.InitRoutes(r, routing.Deps{
		Sessions:  ledgerService,
		Projects:  projectService,
		Users:     userService,
		SignIns:   signIns,
		Identity:  provider,
		Subscribe: routing.SessionFeed(notifier, ledgerService),
		Health: map[string]handlers.Pinger{
			"mysql": db.PingContext,
			"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
		Secret:         []byte(cfg.JWTSecret),
		AdminTokenHash: cfg.AdminTokenHash,
		RateLimit:      cfg.RateLimit,
		Logger:         logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := routing.StartServer(ctx, r, cfg.Port, logger); err != nil {
		logger.Error("server failed", "error", err)
	}
}
