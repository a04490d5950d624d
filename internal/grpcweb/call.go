package grpcweb

import (
	"context"
	"fmt"
)

// Call encodes req, invokes service/method and decodes the response.
func Call[T any](ctx context.Context, inv Invoker, service, method string, req []byte, decode func([]byte) (T, error)) (T, error) {
	var zero T
	raw, err := inv.Invoke(ctx, service, method, req)
	if err != nil {
		return zero, err
	}
	out, err := decode(raw)
	if err != nil {
		return zero, fmt.Errorf("grpcweb: decode %s/%s response: %w", service, method, err)
	}
	return out, nil
}
