package grpcwebtest

import (
	"bytes"
	"context"
	"fmt"
	"sync"
)

// CallRecord captures a single Invoke for assertions.
type CallRecord struct {
	Service string
	Method  string
	// Request is a copy of the request message bytes.
	Request []byte
}

// FullMethod returns "/<service>/<method>".
func (c CallRecord) FullMethod() string { return "/" + c.Service + "/" + c.Method }

// MockInvoker returns pre-seeded responses in order while recording calls.
type MockInvoker struct {
	mu        sync.Mutex
	responses [][]byte
	errs      []error
	idx       int
	calls     []CallRecord
}

// NewMockInvoker returns a MockInvoker answering successive calls with
// responses in order.
func NewMockInvoker(responses ...[]byte) *MockInvoker {
	return &MockInvoker{responses: append([][]byte(nil), responses...)}
}

// NewMockInvokerWithErrors seeds per-call errors alongside responses. For
// call i a non-nil errs[i] is returned instead of responses[i].
func NewMockInvokerWithErrors(responses [][]byte, errs []error) *MockInvoker {
	return &MockInvoker{
		responses: append([][]byte(nil), responses...),
		errs:      append([]error(nil), errs...),
	}
}

func (m *MockInvoker) Invoke(_ context.Context, service, method string, req []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, CallRecord{Service: service, Method: method, Request: bytes.Clone(req)})

	if m.idx >= len(m.responses) && m.idx >= len(m.errs) {
		return nil, fmt.Errorf("mock invoker: no more responses")
	}
	i := m.idx
	m.idx++
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return nil, nil
}

// Calls returns a snapshot of recorded invocations.
func (m *MockInvoker) Calls() []CallRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CallRecord(nil), m.calls...)
}
