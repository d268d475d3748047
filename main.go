package main

import (
	"context"
	"os"
	"os/signal"

	"attendees/clock"
	"attendees/config"
	"attendees/db"
	"attendees/message"
	"attendees/service"
	observability "attendees/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
)

func main() {
	log.Init(logrus.InfoLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Could not load config")
	}

	traceProvider, err := observability.ConfigureTraceProvider(cfg.JaegerEndpoint)
	if err != nil {
		logrus.WithError(err).Fatal("Could not configure tracing")
	}
	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("Could not shut down trace provider")
		}
	}()

	redisClient := message.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()

	conn, err := db.NewDBConn(cfg.PostgresURL)
	if err != nil {
		logrus.WithError(err).Fatal("Could not connect to Postgres")
	}
	defer conn.Close()

	conn.MigrateSchema()

	svc, err := service.New(cfg, redisClient, &conn, clock.NewSystem())
	if err != nil {
		logrus.WithError(err).Fatal("Could not create service")
	}

	if err := svc.Run(ctx); err != nil {
		logrus.WithError(err).Error("Service stopped")
		os.Exit(1)
	}
}
