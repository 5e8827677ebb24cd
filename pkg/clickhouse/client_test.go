package clickhouse

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	cfg := defaultConfig()
	for _, opt := range []ClientOption{
		WithHost("ch.local"),
		WithPort(9440),
		WithDatabase("fundamentals"),
		WithCredentials("svc", "p@ss"),
		WithMaxExecutionTime(time.Minute),
		WithAsyncInsert(true, true),
	} {
		opt(&cfg)
	}

	u, err := url.Parse(buildDSN(cfg))
	require.NoError(t, err)

	assert.Equal(t, "clickhouse", u.Scheme)
	assert.Equal(t, "ch.local:9440", u.Host)
	assert.Equal(t, "/fundamentals", u.Path)
	assert.Equal(t, "svc", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss", pw)

	q := u.Query()
	assert.Equal(t, "60", q.Get("max_execution_time"))
	assert.Equal(t, "1", q.Get("async_insert"))
	assert.Equal(t, "1", q.Get("wait_for_async_insert"))
	assert.Equal(t, "5s", q.Get("dial_timeout"))
	assert.Empty(t, q.Get("write_timeout"))
}

func TestBuildDSNHTTP(t *testing.T) {
	cfg := defaultConfig()
	WithHost("localhost")(&cfg)
	WithHTTP(true)(&cfg)
	WithPort(8123)(&cfg)

	u, err := url.Parse(buildDSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "localhost:8123", u.Host)
	assert.Empty(t, u.Query().Get("async_insert"))
}

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient(context.Background())
	assert.Error(t, err)
}
