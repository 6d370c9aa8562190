package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8443", cfg.HTTPAddr)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 1.0, cfg.OTELProbability)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.OTELHost)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{
		"HTTP_ADDR":            ":9000",
		"ORDER_STORE":          "memory",
		"REDIS_ADDR":           "redis:6379",
		"PRODUCT_SERVICE_URL":  "http://product",
		"CUSTOMER_SERVICE_URL": "http://customer",
		"REMOTE_TIMEOUT":       "750ms",
		"OTEL_PROBABILITY":     "0.25",
		"TLS_CERT":             "certs/server.crt",
		"TLS_KEY":              "certs/server.key",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "http://product", cfg.ProductServiceURL)
	assert.Equal(t, "http://customer", cfg.CustomerServiceURL)
	assert.Equal(t, 750*time.Millisecond, cfg.RemoteTimeout)
	assert.Equal(t, 0.25, cfg.OTELProbability)
	assert.Equal(t, "certs/server.key", cfg.TLSKey)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(envMap(map[string]string{
		"REMOTE_TIMEOUT":   "soon",
		"OTEL_PROBABILITY": "2",
		"TLS_CERT":         "only-cert.pem",
		"ORDER_STORE":      "mysql",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMOTE_TIMEOUT")
	assert.Contains(t, err.Error(), "OTEL_PROBABILITY")
	assert.Contains(t, err.Error(), "TLS_KEY")
	assert.Contains(t, err.Error(), "ORDER_STORE")
}
