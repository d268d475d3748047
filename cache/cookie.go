package cache

import (
	"context"
	"net/http"
	"net/url"

	"attendees/clock"
	"attendees/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// CookieStore keeps field values in the browser, one cookie per field named
// after the field id. Expired cookies are dropped by the browser, so Get only
// has to handle missing or undecodable ones. Values set during a request are
// visible to later Gets of the same request.
type CookieStore struct {
	req     *http.Request
	w       http.ResponseWriter
	clock   clock.Clock
	pending map[entities.FieldKey]string
	cleared map[entities.FieldKey]bool
}

func NewCookieStore(req *http.Request, w http.ResponseWriter, clk clock.Clock) *CookieStore {
	return &CookieStore{
		req:     req,
		w:       w,
		clock:   clk,
		pending: map[entities.FieldKey]string{},
		cleared: map[entities.FieldKey]bool{},
	}
}

func (s *CookieStore) Get(_ context.Context, key entities.FieldKey) (string, bool) {
	if value, ok := s.pending[key]; ok {
		return value, true
	}
	if s.cleared[key] {
		return "", false
	}

	cookie, err := s.req.Cookie(key.ID())
	if err != nil {
		return "", false
	}

	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

// MaxCookieValueBytes keeps a field cookie under the per-cookie limit browsers
// enforce, leaving room for its name and attributes.
const MaxCookieValueBytes = 3800

// Set skips values too large to fit in a cookie. The stale cookie of the
// field is cleared so an older value isn't restored in its place.
func (s *CookieStore) Set(ctx context.Context, key entities.FieldKey, value string, ttlDays int) error {
	encoded := url.QueryEscape(value)
	if len(encoded) > MaxCookieValueBytes {
		log.FromContext(ctx).
			WithField("field_id", key.ID()).
			WithField("size", len(encoded)).
			Warn("Ticket field too large for a cookie, not cached in the browser")

		http.SetCookie(s.w, &http.Cookie{
			Name:   key.ID(),
			Path:   "/",
			MaxAge: -1,
		})
		delete(s.pending, key)
		s.cleared[key] = true

		return nil
	}

	expiry := ttl(ttlDays)

	http.SetCookie(s.w, &http.Cookie{
		Name:     key.ID(),
		Value:    encoded,
		Path:     "/",
		Expires:  s.clock.Now().Add(expiry),
		MaxAge:   int(expiry.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	s.pending[key] = value
	delete(s.cleared, key)

	return nil
}
