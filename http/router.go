package http

import (
	"net/http"

	"attendees/fields"
	observability "attendees/trace"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func NewHttpRouter(
	validator *fields.Validator,
	sessionStore SessionStoreProvider,
	attendeeRepo AttendeeRepository,
	readModel OrderAttendeesReadModel,
	cacheTTLDays int,
) *echo.Echo {
	e := libHttp.NewEcho()
	e.Validator = NewRequestValidator()

	e.Use(otelecho.Middleware(observability.ServiceName))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler := Handler{
		validator:    validator,
		sessionStore: sessionStore,
		attendeeRepo: attendeeRepo,
		readModel:    readModel,
		cacheTTLDays: cacheTTLDays,
	}

	e.POST("/checkout/steps", handler.PostCheckoutSteps)
	e.POST("/checkout/:session_id/ticket-fields", handler.PostTicketFields)
	e.PUT("/checkout/:session_id/ticket-fields/:field_id", handler.PutTicketField)
	e.POST("/checkout/:session_id/ticket-step", handler.PostTicketStep)

	e.POST("/orders/:order_id/attendees", handler.PostOrderAttendees)
	e.GET("/orders/:order_id/attendees", handler.GetOrderAttendees)

	return e
}
