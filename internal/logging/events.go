package logging

import (
	"context"

	"go.uber.org/zap"

	eventbus "github.com/innabox/fulfillment-console/internal/eventbus"
	events "github.com/innabox/fulfillment-console/internal/events"
	reqid "github.com/innabox/fulfillment-console/internal/reqid"
)

// Attach logs API calls and base URL resolution through the global
// eventbus. Successful calls log at debug, failures at warn. The returned
// func detaches the subscribers.
func Attach(logger *zap.Logger) (detach func()) {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.CallFinish) {
			fields := []zap.Field{
				zap.String("protocol", e.Protocol),
				zap.String("service", e.Service),
				zap.String("method", e.Method),
				zap.String("target", e.Target),
				zap.Stringer("code", e.Code),
				zap.Duration("duration", e.Duration),
			}
			if id, ok := reqid.FromContext(ctx); ok {
				fields = append(fields, zap.Int64("request_id", id))
			}
			if e.HTTPStatus != 0 {
				fields = append(fields, zap.Int("http_status", e.HTTPStatus))
			}
			if e.Err != nil {
				logger.Warn("call failed", append(fields, zap.Error(e.Err))...)
				return
			}
			logger.Debug("call", fields...)
		}),
		eventbus.Subscribe(func(_ context.Context, e events.ConfigResolved) {
			if e.Err != nil {
				logger.Warn("resolving fulfillment API URL failed", zap.Error(e.Err), zap.Duration("duration", e.Duration))
				return
			}
			logger.Info("resolved fulfillment API URL", zap.String("url", e.URL), zap.Duration("duration", e.Duration))
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
