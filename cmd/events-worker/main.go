package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"zomaksho/internal/config"
	"zomaksho/internal/db"
	"zomaksho/internal/events"
	"zomaksho/internal/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if os.Getenv("APP_ENV") != config.Production {
		if err := godotenv.Load(); err != nil {
			log.Info("no .env file found, using environment variables")
		}
	}

	cfg, err := config.LoadWorker()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(os.Stdout, cfg.AppEnv, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgDB, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pgDB.Close()

	consumer := events.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.GroupID,
		cfg.Kafka.SearchTopic,
		events.NewPostgresRepository(pgDB),
	)

	log.WithFields(log.Fields{
		"topic": cfg.Kafka.SearchTopic,
		"group": cfg.Kafka.GroupID,
	}).Info("events worker running, press Ctrl+C to stop")

	if err := consumer.Run(ctx); err != nil {
		log.WithError(err).Error("events worker stopped")
	}
}
