package service

import (
	"context"
	"errors"
	"fmt"
	stdHTTP "net/http"

	"attendees/clock"
	"attendees/config"
	"attendees/db"
	"attendees/fields"
	attendeesHttp "attendees/http"
	"attendees/message"
	"attendees/message/event"
	"attendees/message/outbox"
	"attendees/migrations"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	cfg             config.Config
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo
	dataLake        db.EventRepository
	readModel       db.OrderAttendeesReadModel
}

func New(
	cfg config.Config,
	redisClient *redis.Client,
	conn *db.DB,
	clk clock.Clock,
) (Service, error) {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	redisPublisher := message.NewRedisPublisher(redisClient, watermillLogger)

	attendeeRepo := db.NewAttendeeRepository(conn, clk)
	readModel := db.NewOrderAttendeesReadModel(conn)
	dataLake := db.NewEventRepository(conn)

	eventHandler := event.NewHandler(readModel, dataLake)
	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)

	pgSubscriber, err := outbox.SubscribeForPGMessages(conn.Conn, watermillLogger)
	if err != nil {
		return Service{}, err
	}

	dataLakeSubscriber := message.NewRedisSubscriber(redisClient, "svc-attendees.data-lake", watermillLogger)

	watermillRouter, err := message.NewWatermillRouter(
		pgSubscriber,
		dataLakeSubscriber,
		redisPublisher,
		eventProcessorConfig,
		eventHandler,
		watermillLogger,
	)
	if err != nil {
		return Service{}, err
	}

	echoRouter := attendeesHttp.NewHttpRouter(
		fields.NewValidator(fields.MessagesFor(cfg.MessagesLocale)),
		attendeesHttp.NewSessionStores(redisClient, clk),
		attendeeRepo,
		readModel,
		cfg.FieldCacheTTLDays,
	)

	return Service{
		cfg:             cfg,
		watermillRouter: watermillRouter,
		echoRouter:      echoRouter,
		dataLake:        dataLake,
		readModel:       readModel,
	}, nil
}

func (s Service) Run(
	ctx context.Context,
) error {
	if s.cfg.RebuildReadModel {
		if err := migrations.RebuildOrderAttendeesReadModel(ctx, s.dataLake, s.readModel); err != nil {
			return fmt.Errorf("could not rebuild read model: %w", err)
		}
	}

	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// HTTP starts after the router so the service isn't healthy before messages flow
		<-s.watermillRouter.Running()

		err := s.echoRouter.Start(s.cfg.HTTPAddr)
		if err != nil && !errors.Is(err, stdHTTP.ErrServerClosed) {
			return err
		}

		return nil
	})

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}
