package grpctp

import (
	"crypto/tls"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// Options configures the gRPC transport.
//
// Defaults:
// - RPCTimeout:  30s (used only if the context has no deadline)
// - DialOptions: TLS with the system roots
//
// Provider must be set; calls fail with ErrNoEndpoints otherwise.
type Options struct {
	Provider    EndpointProvider
	TokenSource oauth2.TokenSource

	RPCTimeout time.Duration

	DialOptions []grpc.DialOption
}

type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		RPCTimeout: 30 * time.Second,
	}
}

func WithProvider(p EndpointProvider) Option        { return func(o *Options) { o.Provider = p } }
func WithTokenSource(ts oauth2.TokenSource) Option  { return func(o *Options) { o.TokenSource = ts } }
func WithRPCTimeout(d time.Duration) Option         { return func(o *Options) { o.RPCTimeout = d } }
func WithDialOptions(opts ...grpc.DialOption) Option { return func(o *Options) { o.DialOptions = opts } }

// WithAddress routes every service to addr.
func WithAddress(addr string) Option {
	return WithProvider(NewStaticEndpoints(map[string][]string{"": {addr}}))
}

// WithStaticToken authenticates every call with a fixed bearer token.
func WithStaticToken(token string) Option {
	return WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

// WithPlaintext disables transport security.
func WithPlaintext() Option {
	return func(o *Options) {
		o.DialOptions = append(o.DialOptions, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
}

// WithTLS dials with the given TLS configuration.
func WithTLS(cfg *tls.Config) Option {
	return func(o *Options) {
		o.DialOptions = append(o.DialOptions, grpc.WithTransportCredentials(credentials.NewTLS(cfg)))
	}
}
