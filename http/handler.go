package http

import (
	"context"

	"attendees/cache"
	"attendees/clock"
	"attendees/entities"
	"attendees/fields"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validator    *fields.Validator
	sessionStore SessionStoreProvider
	attendeeRepo AttendeeRepository
	readModel    OrderAttendeesReadModel
	cacheTTLDays int
}

type AttendeeRepository interface {
	Register(ctx context.Context, registration entities.AttendeeRegistration) (entities.OrderAttendees, error)
	Get(ctx context.Context, orderID string) (entities.OrderAttendees, error)
}

type OrderAttendeesReadModel interface {
	GetByOrderID(ctx context.Context, orderID string) (entities.OrderAttendees, error)
}

// SessionStoreProvider returns the value store of one checkout session for
// the current request.
type SessionStoreProvider func(c echo.Context, sessionID string) cache.ValueStore

// NewSessionStores caches values in Redis under the session and in browser
// cookies. Redis wins on read, cookies cover an expired or lost session.
func NewSessionStores(client redis.Cmdable, clk clock.Clock) SessionStoreProvider {
	return func(c echo.Context, sessionID string) cache.ValueStore {
		return cache.Layered{
			cache.NewRedisStore(client, sessionID),
			cache.NewCookieStore(c.Request(), c.Response(), clk),
		}
	}
}
