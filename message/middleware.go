package message

import (
	"errors"
	"time"

	"attendees/metrics"
	observability "attendees/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const PoisonQueueTopic = "PoisonQueue"

type permanentError interface {
	IsPermanent() bool
}

func isPermanent(err error) bool {
	var permanent permanentError
	return errors.As(err, &permanent) && permanent.IsPermanent()
}

func useMiddlewares(router *message.Router, pub message.Publisher, watermillLogger watermill.LoggerAdapter) error {
	router.AddMiddleware(middleware.Recoverer)

	poisonQueue, err := middleware.PoisonQueueWithFilter(pub, PoisonQueueTopic, isPermanent)
	if err != nil {
		return err
	}

	router.AddMiddleware(
		correlationIDMiddleware,
		tracingMiddleware,
		loggingMiddleware,
	)

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      10,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	router.AddMiddleware(middleware.NewCircuitBreaker(gobreaker.Settings{
		Name:    "svc-attendees-handlers",
		Timeout: time.Second * 10,
	}).Middleware)

	// permanent failures are parked instead of retried
	router.AddMiddleware(poisonQueue)

	return nil
}

func correlationIDMiddleware(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := msg.Context()

		reqCorrelationID := msg.Metadata.Get("correlation_id")
		if reqCorrelationID == "" {
			reqCorrelationID = shortuuid.New()
		}

		ctx = log.ToContext(ctx, logrus.WithFields(logrus.Fields{"correlation_id": reqCorrelationID}))
		ctx = log.ContextWithCorrelationID(ctx, reqCorrelationID)

		msg.SetContext(ctx)

		return h(msg)
	}
}

func tracingMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		handlerName := message.HandlerNameFromCtx(msg.Context())

		ctx, span := observability.Tracer().Start(
			observability.ExtractMessageContext(msg),
			handlerName,
			trace.WithAttributes(attribute.String("message_uuid", msg.UUID)),
		)
		defer span.End()

		msg.SetContext(ctx)

		msgs, err := next(msg)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return msgs, err
	}
}

func loggingMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		handlerName := message.HandlerNameFromCtx(msg.Context())

		logger := log.FromContext(msg.Context()).WithFields(logrus.Fields{
			"message_id": msg.UUID,
			"handler":    handlerName,
			"metadata":   msg.Metadata,
		})

		logger.Info("Handling a message")

		msgs, err := next(msg)
		if err != nil {
			logger.WithError(err).Error("Error while handling a message")
			metrics.MessagesProcessed.WithLabelValues(handlerName, "failed").Inc()
		} else {
			metrics.MessagesProcessed.WithLabelValues(handlerName, "ok").Inc()
		}

		return msgs, err
	}
}
