package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/courtstats/internal/config"
	"github.com/riskibarqy/courtstats/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:           config.EnvDev,
		HTTPAddr:         ":0",
		StoreDriver:      config.StoreMemory,
		CacheEnabled:     true,
		CacheTTL:         time.Minute,
		RecalcMaxWorkers: 2,
		RollupMaxWorkers: 2,
		StreamBuffer:     8,
		StorageTimeout:   time.Second,
	}
}

func TestNewHTTPServer_MemoryStore(t *testing.T) {
	t.Parallel()

	srv, err := NewHTTPServer(memoryConfig(), logging.NewNop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.HTTP.Handler)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Shutdown(context.Background(), nil))
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	_, err := NewHTTPServer(cfg, nil)
	require.Error(t, err)
}

func TestNewHTTPServer_InvalidRedisURL(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.RedisEnabled = true
	cfg.RedisURL = "not-a-redis-url"
	_, err := NewHTTPServer(cfg, logging.NewNop())
	require.Error(t, err)
}
