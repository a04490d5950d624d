// Package grpcwebtest provides an in-process gRPC-Web backend for tests.
package grpcwebtest

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Handler serves one unary method. Returning a status error produces a
// trailers-only response carrying that status.
type Handler func(ctx context.Context, req []byte) ([]byte, error)

// Request is a recorded call.
type Request struct {
	Path    string
	Header  http.Header
	Message []byte
}

// Server is a fake console: it serves /api/config pointing at itself and
// dispatches POST /{service}/{method} to registered handlers.
type Server struct {
	*httptest.Server

	// StatusInHeaders sends error statuses as HTTP headers instead of a
	// trailer frame.
	StatusInHeaders atomic.Bool

	ConfigHits atomic.Int32

	mu       sync.Mutex
	handlers map[string]Handler
	raw      map[string]http.HandlerFunc
	requests []Request
	config   http.HandlerFunc
}

// NewServer starts a Server that is closed when t finishes.
func NewServer(t testing.TB) *Server {
	s := &Server{
		handlers: make(map[string]Handler),
		raw:      make(map[string]http.HandlerFunc),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers h for service/method.
func (s *Server) Handle(service, method string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers["/"+service+"/"+method] = h
}

// HandleRaw registers a plain HTTP handler for service/method, bypassing
// framing entirely.
func (s *Server) HandleRaw(service, method string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw["/"+service+"/"+method] = h
}

// HandleConfig replaces the default /api/config handler.
func (s *Server) HandleConfig(h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = h
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/config" {
		s.ConfigHits.Add(1)
		s.mu.Lock()
		h := s.config
		s.mu.Unlock()
		if h != nil {
			h(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"fulfillmentApiUrl": s.URL})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	msg, err := unframe(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{Path: r.URL.Path, Header: r.Header.Clone(), Message: msg})
	raw := s.raw[r.URL.Path]
	h := s.handlers[r.URL.Path]
	s.mu.Unlock()

	if raw != nil {
		raw(w, r)
		return
	}
	if h == nil {
		s.writeStatus(w, status.New(codes.Unimplemented, "unknown method "+r.URL.Path))
		return
	}
	resp, err := h(r.Context(), msg)
	if err != nil {
		s.writeStatus(w, status.Convert(err))
		return
	}
	w.Header().Set("Content-Type", "application/grpc-web+proto")
	_, _ = w.Write(Frame(0x00, resp))
	_, _ = w.Write(Trailer(codes.OK, ""))
}

func (s *Server) writeStatus(w http.ResponseWriter, st *status.Status) {
	w.Header().Set("Content-Type", "application/grpc-web+proto")
	if s.StatusInHeaders.Load() {
		w.Header().Set("grpc-status", fmt.Sprint(uint32(st.Code())))
		w.Header().Set("grpc-message", url.PathEscape(st.Message()))
		return
	}
	_, _ = w.Write(Trailer(st.Code(), st.Message()))
}

// Frame encodes a gRPC-Web frame.
func Frame(flags byte, payload []byte) []byte {
	buf := make([]byte, 5+len(payload))
	buf[0] = flags
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(payload)))
	copy(buf[5:], payload)
	return buf
}

// Trailer encodes a trailer frame with the given status.
func Trailer(code codes.Code, msg string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "grpc-status: %d\r\n", uint32(code))
	if msg != "" {
		fmt.Fprintf(&b, "grpc-message: %s\r\n", url.PathEscape(msg))
	}
	return Frame(0x80, []byte(b.String()))
}

func unframe(body []byte) ([]byte, error) {
	if len(body) < 5 {
		return nil, fmt.Errorf("short request frame: %d bytes", len(body))
	}
	n := binary.BigEndian.Uint32(body[1:5])
	if uint64(n) != uint64(len(body)-5) {
		return nil, fmt.Errorf("request frame declares %d bytes, has %d", n, len(body)-5)
	}
	return body[5:], nil
}
