package redis

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jupani/storefront/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Host:     mr.Host(),
			Port:     mr.Port(),
			PoolSize: 2,
		},
	}

	l := logrus.New()
	l.SetOutput(io.Discard)

	client, err := NewConnection(cfg, l)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestClient_JSONRoundTrip(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	type showcase struct {
		Slugs []string `json:"slugs"`
	}

	var got showcase
	assert.ErrorIs(t, client.GetJSON(ctx, "products:featured", &got), ErrCacheMiss)

	require.NoError(t, client.SetJSON(ctx, "products:featured", showcase{Slugs: []string{"brigadeiro"}}, time.Minute))
	require.NoError(t, client.GetJSON(ctx, "products:featured", &got))
	assert.Equal(t, []string{"brigadeiro"}, got.Slugs)
	assert.Equal(t, time.Minute, mr.TTL("products:featured"))

	require.NoError(t, mr.Set("products:favorites", "{not json"))
	assert.Error(t, client.GetJSON(ctx, "products:favorites", &got))

	require.NoError(t, client.Del(ctx, "products:featured", "products:favorites"))
	assert.False(t, mr.Exists("products:featured"))
	assert.False(t, mr.Exists("products:favorites"))
}

func TestClient_Health(t *testing.T) {
	client, mr := newTestClient(t)

	require.NoError(t, client.Health())
	assert.Same(t, client.Redis, client.GetClient())

	mr.Close()
	assert.Error(t, client.Health())
}

func TestNewConnection_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{Redis: config.RedisConfig{Host: mr.Host(), Port: mr.Port()}}
	mr.Close()

	l := logrus.New()
	l.SetOutput(io.Discard)

	_, err := NewConnection(cfg, l)
	assert.Error(t, err)
}
