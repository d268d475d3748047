package cache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"attendees/clock"
	"attendees/entities"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	firstName = entities.NewFieldKey(entities.FieldFirstName, 1)
	document  = entities.NewFieldKey(entities.FieldDocument, 1)
	email     = entities.NewFieldKey(entities.FieldEmail, 2)
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)

	_, ok := store.Get(ctx, firstName)
	assert.False(t, ok, "never set key must be absent")

	require.NoError(t, store.Set(ctx, firstName, "v", 7))
	value, ok := store.Get(ctx, firstName)
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	require.NoError(t, store.Set(ctx, firstName, "w", 7))
	value, _ = store.Get(ctx, firstName)
	assert.Equal(t, "w", value, "set overwrites")

	clk.Advance(7*24*time.Hour - time.Second)
	_, ok = store.Get(ctx, firstName)
	assert.True(t, ok)

	clk.Advance(time.Second)
	_, ok = store.Get(ctx, firstName)
	assert.False(t, ok, "expired entry must be absent")
}

func TestMemoryStore_DefaultTTL(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)

	require.NoError(t, store.Set(ctx, document, "123", 0))

	clk.Advance(6 * 24 * time.Hour)
	_, ok := store.Get(ctx, document)
	assert.True(t, ok)

	clk.Advance(24 * time.Hour)
	_, ok = store.Get(ctx, document)
	assert.False(t, ok)
}

func TestCookieStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := httptest.NewRecorder()
	writer := NewCookieStore(httptest.NewRequest(http.MethodGet, "/", nil), rec, clock.NewManual(now))

	require.NoError(t, writer.Set(ctx, email, "ana+tickets@example.com", 7))

	value, ok := writer.Get(ctx, email)
	assert.True(t, ok, "value set in this request is visible")
	assert.Equal(t, "ana+tickets@example.com", value)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "billing_email_2", cookies[0].Name)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, now.Add(7*24*time.Hour).Unix(), cookies[0].Expires.Unix())

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	reader := NewCookieStore(next, httptest.NewRecorder(), clock.NewManual(now))

	value, ok = reader.Get(ctx, email)
	assert.True(t, ok)
	assert.Equal(t, "ana+tickets@example.com", value)

	_, ok = reader.Get(ctx, document)
	assert.False(t, ok)
}

func TestCookieStore_OversizedValue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "billing_email_2", Value: "old%40example.com"})
	rec := httptest.NewRecorder()
	store := NewCookieStore(req, rec, clock.NewManual(now))

	require.NoError(t, store.Set(ctx, email, strings.Repeat("a", MaxCookieValueBytes+1), 7))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "billing_email_2", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0, "stale cookie is cleared")

	_, ok := store.Get(ctx, email)
	assert.False(t, ok, "stale value is not restored")

	// a value that fits is still written
	fits := strings.Repeat("a", MaxCookieValueBytes)
	require.NoError(t, store.Set(ctx, email, fits, 7))
	assert.Len(t, rec.Result().Cookies(), 2)

	value, ok := store.Get(ctx, email)
	assert.True(t, ok)
	assert.Equal(t, fits, value)
}

type failingStore struct{}

func (failingStore) Get(context.Context, entities.FieldKey) (string, bool) {
	return "", false
}

func (failingStore) Set(context.Context, entities.FieldKey, string, int) error {
	return errors.New("unavailable")
}

func TestLayered(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(time.Now())
	first := NewMemoryStore(clk)
	second := NewMemoryStore(clk)
	require.NoError(t, second.Set(ctx, document, "from-second", 7))

	store := Layered{first, second}

	value, ok := store.Get(ctx, document)
	assert.True(t, ok)
	assert.Equal(t, "from-second", value)

	require.NoError(t, store.Set(ctx, firstName, "Ana", 7))
	value, _ = first.Get(ctx, firstName)
	assert.Equal(t, "Ana", value)
	value, _ = second.Get(ctx, firstName)
	assert.Equal(t, "Ana", value)

	err := Layered{first, failingStore{}}.Set(ctx, email, "x", 7)
	assert.Error(t, err)
	value, _ = first.Get(ctx, email)
	assert.Equal(t, "x", value, "healthy layers are still written")
}

func TestRestore_Partial(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(clock.NewSystem())
	require.NoError(t, store.Set(ctx, firstName, "Ana", 7))
	require.NoError(t, store.Set(ctx, email, "", 7))

	restored := Restore(ctx, store, []entities.FieldKey{firstName, document, email})

	assert.Equal(t, map[entities.FieldKey]string{firstName: "Ana"}, restored)
}

func TestCacheAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(clock.NewSystem())

	CacheAll(ctx, store, map[entities.FieldKey]string{firstName: "Ana", document: "123"}, 7)
	CacheAll(ctx, failingStore{}, map[entities.FieldKey]string{firstName: "Ana"}, 7)

	assert.Equal(t, map[entities.FieldKey]string{firstName: "Ana", document: "123"},
		Restore(ctx, store, []entities.FieldKey{firstName, document}))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	store := NewRedisStore(rdb, uuid.NewString())

	_, ok := store.Get(ctx, firstName)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, firstName, "v", 7))
	value, ok := store.Get(ctx, firstName)
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	other := NewRedisStore(rdb, uuid.NewString())
	_, ok = other.Get(ctx, firstName)
	assert.False(t, ok, "sessions don't share values")

	remaining, err := rdb.TTL(ctx, store.redisKey(firstName)).Result()
	require.NoError(t, err)
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), remaining.Seconds(), 60)
}
