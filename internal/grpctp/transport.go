// Package grpctp issues fulfillment API calls over native gRPC. It serves
// the same byte-level Invoker contract as the gRPC-Web client, so typed
// services work unchanged on top of either transport.
package grpctp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	eventbus "github.com/innabox/fulfillment-console/internal/eventbus"
	events "github.com/innabox/fulfillment-console/internal/events"
	"github.com/innabox/fulfillment-console/internal/grpcweb"
	reqid "github.com/innabox/fulfillment-console/internal/reqid"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("grpctp: transport closed")

// Transport is a gRPC client holding one multiplexed connection per
// endpoint, created on first use.
type Transport struct {
	opts *Options

	mu     sync.RWMutex
	conns  map[string]*grpc.ClientConn // key: endpoint
	closed atomic.Bool
}

var _ grpcweb.Invoker = (*Transport)(nil)

func New(opts ...Option) *Transport {
	o := defaultOptions()
	for _, f := range opts {
		f(o)
	}
	if len(o.DialOptions) == 0 {
		o.DialOptions = []grpc.DialOption{grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{}))}
	}
	o.DialOptions = append(o.DialOptions,
		grpc.WithConnectParams(grpc.ConnectParams{Backoff: backoff.DefaultConfig}),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(rawCodec{})),
	)
	return &Transport{
		opts:  o,
		conns: make(map[string]*grpc.ClientConn),
	}
}

// Invoke sends req to /service/method on one of the service's endpoints and
// returns the response message. Errors from the server keep their gRPC
// status.
func (t *Transport) Invoke(ctx context.Context, service, method string, req []byte) (resp []byte, err error) {
	ctx, _ = reqid.NewContext(ctx)
	var (
		target string
		start  = time.Now()
	)
	eventbus.Publish(ctx, events.CallStart{Protocol: events.ProtocolGRPC, Service: service, Method: method})
	defer func() {
		eventbus.Publish(ctx, events.CallFinish{
			Protocol: events.ProtocolGRPC,
			Service:  service,
			Method:   method,
			Target:   target,
			Code:     status.Code(err),
			Err:      err,
			Duration: time.Since(start),
		})
	}()

	if t.closed.Load() {
		return nil, ErrClosed
	}
	if t.opts.Provider == nil {
		return nil, ErrNoEndpoints
	}
	if _, ok := ctx.Deadline(); !ok && t.opts.RPCTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.RPCTimeout)
		defer cancel()
	}

	endpoints, err := t.opts.Provider.Endpoints(ctx, service)
	if err != nil {
		return nil, err
	}
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	target = endpoints[rand.IntN(len(endpoints))]

	token, err := t.accessToken()
	if err != nil {
		return nil, err
	}
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

	cc, err := t.conn(target)
	if err != nil {
		return nil, err
	}

	if req == nil {
		req = []byte{}
	}
	if err := cc.Invoke(ctx, "/"+service+"/"+method, &req, &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		resp = []byte{}
	}
	return resp, nil
}

func (t *Transport) accessToken() (string, error) {
	if t.opts.TokenSource == nil {
		return "", grpcweb.ErrUnauthenticated
	}
	tok, err := t.opts.TokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", grpcweb.ErrUnauthenticated, err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", grpcweb.ErrUnauthenticated
	}
	return tok.AccessToken, nil
}

// Close closes every connection. Calls made afterwards fail with ErrClosed.
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var errs []error
	for ep, cc := range t.conns {
		if err := cc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", ep, err))
		}
	}
	t.conns = map[string]*grpc.ClientConn{}
	return errors.Join(errs...)
}

func (t *Transport) conn(endpoint string) (*grpc.ClientConn, error) {
	t.mu.RLock()
	cc := t.conns[endpoint]
	t.mu.RUnlock()
	if cc != nil {
		return cc, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed.Load() {
		return nil, ErrClosed
	}
	if cc := t.conns[endpoint]; cc != nil {
		return cc, nil
	}
	cc, err := grpc.NewClient(endpoint, t.opts.DialOptions...)
	if err != nil {
		return nil, fmt.Errorf("grpctp: dial %s: %w", endpoint, err)
	}
	t.conns[endpoint] = cc
	return cc, nil
}
