package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc/codes"

	eventbus "github.com/innabox/fulfillment-console/internal/eventbus"
	events "github.com/innabox/fulfillment-console/internal/events"
	reqid "github.com/innabox/fulfillment-console/internal/reqid"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []Environment{EnvironmentDevelopment, EnvironmentProduction} {
		for _, level := range []string{"debug", "info", "WARN", "error"} {
			cfg := Config{Level: level, Environment: env}
			logger, err := NewLogger(cfg)
			require.NoError(t, err, "env=%s level=%s", env, level)
			require.NotNil(t, logger)
		}
	}
}

func TestNewLoggerLevel(t *testing.T) {
	logger, err := NewLogger(DefaultConfig())
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	_, err := NewLogger(Config{Level: "loud"})
	require.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestAttach(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	core, logs := observer.New(zapcore.DebugLevel)
	detach := Attach(zap.New(core))

	ctx, id := reqid.NewContext(context.Background())
	eventbus.Publish(ctx, events.CallFinish{
		Protocol: events.ProtocolGRPCWeb, Service: "private.v1.Hubs", Method: "List", Target: "https://api", Code: codes.OK,
		HTTPStatus: 200, Duration: time.Millisecond,
	})
	eventbus.Publish(ctx, events.CallFinish{
		Service: "private.v1.Hubs", Method: "Get", Code: codes.NotFound, Err: errors.New("nope"),
	})
	eventbus.Publish(ctx, events.ConfigResolved{URL: "https://api"})

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	require.Equal(t, "call", entries[0].Message)
	require.Equal(t, "List", fields["method"])
	require.Equal(t, "grpc-web", fields["protocol"])
	require.Equal(t, id, fields["request_id"])
	require.Equal(t, int64(200), fields["http_status"])

	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, "NotFound", entries[1].ContextMap()["code"])
	require.Equal(t, "nope", entries[1].ContextMap()["error"])

	require.Equal(t, "resolved fulfillment API URL", entries[2].Message)

	detach()
	eventbus.Publish(ctx, events.ConfigResolved{URL: "https://api"})
	require.Equal(t, 3, logs.Len())
}
