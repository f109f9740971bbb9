package ratelimit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAllower struct {
	limit int
	seen  map[string]int
	err   error
}

func (a *countingAllower) Allow(_ context.Context, key string) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	a.seen[key]++
	return a.seen[key] <= a.limit, nil
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func serve(t *testing.T, l Allower, method string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/api/posts", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	return Middleware(l, quietLogger())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	l := &countingAllower{limit: 2, seen: map[string]int{}}

	require.NoError(t, serve(t, l, http.MethodPost))
	require.NoError(t, serve(t, l, http.MethodPost))

	err := serve(t, l, http.MethodPost)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusTooManyRequests, he.Code)
	assert.Equal(t, 3, l.seen["10.0.0.1"])
}

func TestMiddlewareSkipsReads(t *testing.T) {
	l := &countingAllower{limit: 0, seen: map[string]int{}}
	assert.NoError(t, serve(t, l, http.MethodGet))
	assert.Empty(t, l.seen)
}

func TestMiddlewareFailsOpen(t *testing.T) {
	l := &countingAllower{err: errors.New("connection refused")}
	assert.NoError(t, serve(t, l, http.MethodPost))
}

func TestRedisUnavailableFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	l, err := NewRedis(rdb, 1, time.Minute)
	require.NoError(t, err)

	_, err = l.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
	assert.NoError(t, serve(t, l, http.MethodPost))
}

func TestNewRedisRejectsEmptyWindow(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()

	for _, window := range []time.Duration{0, -time.Second} {
		l, err := NewRedis(rdb, 10, window)
		assert.Error(t, err, window)
		assert.Nil(t, l)
	}
}
