package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, TransportHTTP, cfg.Service.Transport)
	assert.Equal(t, "http://localhost:8080", cfg.Service.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Poll.Interval)
	assert.Equal(t, "SimplQ", cfg.Status.AppTitle)
	assert.Equal(t, "/LogoLight.png", cfg.Status.NotificationIcon)
	assert.False(t, cfg.Status.ResetBusyOnLeaveFailure)
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TICKET_SERVICE_TRANSPORT", "grpc")
	t.Setenv("TICKET_SERVICE_GRPC_ADDR", "tickets:50056")
	t.Setenv("POLL_INTERVAL", "2s")
	t.Setenv("STATUS_QUEUE_NAME", "bakery")
	t.Setenv("STATUS_TICKET_ID", "t-1")
	t.Setenv("STATUS_RESET_BUSY_ON_LEAVE_FAILURE", "true")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, TransportGRPC, cfg.Service.Transport)
	assert.Equal(t, "tickets:50056", cfg.Service.GRPCAddr)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, "bakery", cfg.Status.QueueName)
	assert.Equal(t, "t-1", cfg.Status.TicketID)
	assert.True(t, cfg.Status.ResetBusyOnLeaveFailure)
	assert.Equal(t, StoreBackendRedis, cfg.Store.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")
	t.Setenv("SERVER_HTTP_PORT", "eighty")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 8090, cfg.Server.HTTPPort)
}

func TestValidate(t *testing.T) {
	tcs := map[string]struct {
		env  map[string]string
		fail bool
	}{
		"unknown transport":    {env: map[string]string{"TICKET_SERVICE_TRANSPORT": "carrier-pigeon"}, fail: true},
		"bad base url":         {env: map[string]string{"TICKET_SERVICE_BASE_URL": "localhost"}, fail: true},
		"non-positive poll":    {env: map[string]string{"POLL_INTERVAL": "-1s"}, fail: true},
		"unknown store":        {env: map[string]string{"STORE_BACKEND": "disk"}, fail: true},
		"port out of range":    {env: map[string]string{"SERVER_HTTP_PORT": "70000"}, fail: true},
		"production no secret": {env: map[string]string{"ENV": "production"}, fail: true},
		"production secret":    {env: map[string]string{"ENV": "production", "JWT_SECRET": "s3cret"}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tc.fail {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
