package grpctp

import (
	"context"
	"errors"
	"sync"
)

// ErrNoEndpoints is returned when the provider has no endpoint for a service.
var ErrNoEndpoints = errors.New("grpctp: no endpoints available")

// EndpointProvider returns the reachable endpoints (host:port or a gRPC
// target URI) for a fully qualified service name such as
// "fulfillment.v1.Clusters". Implementations must be safe for concurrent use.
type EndpointProvider interface {
	Endpoints(ctx context.Context, service string) ([]string, error)
}

// StaticEndpoints is an in-memory provider keyed by service name. The empty
// key is the fallback for services without an entry of their own.
type StaticEndpoints struct {
	mu   sync.RWMutex
	data map[string][]string
}

func NewStaticEndpoints(m map[string][]string) *StaticEndpoints {
	cp := make(map[string][]string, len(m))
	for k, v := range m {
		cp[k] = append([]string(nil), v...)
	}
	return &StaticEndpoints{data: cp}
}

func (s *StaticEndpoints) Endpoints(_ context.Context, service string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr, ok := s.data[service]
	if !ok {
		arr = s.data[""]
	}
	if len(arr) == 0 {
		return nil, ErrNoEndpoints
	}
	return append([]string(nil), arr...), nil
}
