package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zomaksho/internal/analytics"
	"zomaksho/internal/auth"
	"zomaksho/internal/catalog"
	"zomaksho/internal/chat"
	"zomaksho/internal/config"
	"zomaksho/internal/coupon"
	"zomaksho/internal/db"
	"zomaksho/internal/events"
	"zomaksho/internal/llm"
	"zomaksho/internal/logging"
	"zomaksho/internal/router"
	"zomaksho/internal/search"
	"zomaksho/internal/session"
	"zomaksho/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != config.Production {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(os.Stdout, cfg.AppEnv, cfg.Log.Level, cfg.Log.Format)
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	var (
		userRepo  auth.UserRepository = auth.NewInMemoryUserRepository()
		eventRepo events.Repository   = events.NewInMemoryRepository()
	)
	if cfg.DatabaseURL != "" {
		pgDB, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pgDB.Close()

		userRepo = auth.NewPostgresUserRepository(pgDB)
		eventRepo = events.NewPostgresRepository(pgDB)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory repositories")
	}

	// ───────────────────────── EVENTS ─────────────────────────
	var publisher events.Publisher = events.NewRepositoryPublisher(eventRepo)
	if cfg.Kafka.Enabled() {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.SearchTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		log.WithField("topic", cfg.Kafka.SearchTopic).Info("publishing search events to kafka")
	}

	// ───────────────────────── STORAGE ─────────────────────────
	var uploader storage.Uploader
	if cfg.R2.Enabled() {
		r2Client, err := storage.NewR2Client(ctx, cfg.R2)
		if err != nil {
			log.Fatalf("r2 init failed: %v", err)
		}
		uploader = r2Client
	} else {
		log.Warn("R2 not configured, report export disabled")
	}

	// ───────────────────────── LLM ─────────────────────────
	llmClient, err := llm.New(cfg.LLM)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}

	// ───────────────────────── SERVICES ─────────────────────────
	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL)

	searchService := search.NewService(
		llmClient,
		cfg.LLM.Model,
		search.Parser{Strict: cfg.Search.StrictSchema},
		search.NewTracker(),
		publisher,
	)

	authService := auth.NewService(userRepo, sessions, cfg.Admin)
	chatRepo := chat.NewInMemoryRepository()
	chatService := chat.NewService(chatRepo, searchService)

	sessions.OnClear(searchService.Clear)
	sessions.OnClear(chatService.ClearSession)
	go session.RunJanitor(ctx, cfg.SessionSweep, sessions.TTL(), searchService.Evict, chatRepo.Evict)

	cat, err := catalog.Default()
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	dashboard, err := analytics.DefaultDashboard()
	if err != nil {
		log.Fatalf("dashboard: %v", err)
	}
	analyticsService := analytics.NewService(dashboard, eventRepo, uploader)

	// ───────────────────────── HTTP ─────────────────────────
	r := router.New(router.Deps{
		Sessions:    sessions,
		CORSOrigins: cfg.CORSOrigins,
		Auth:        auth.NewHandler(authService),
		Search:      search.NewHandler(searchService),
		Chat:        chat.NewHandler(chatService),
		Catalog:     catalog.NewHandler(cat),
		Coupons:     coupon.NewHandler(coupon.NewPicker(nil)),
		Analytics:   analytics.NewHandler(analyticsService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"port":     cfg.Port,
			"env":      cfg.AppEnv,
			"provider": cfg.LLM.Provider,
		}).Info("API running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
