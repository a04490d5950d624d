package grpcweb

import (
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Options configures the Client.
//
// Defaults:
// - HTTPClient:       a new http.Client without timeout
// - ConfigTimeout:    10s (bounds the one-time base URL resolution)
// - MaxResponseBytes: 32 MiB
//
// Config must be provided (WithConfigSource or WithBaseURL), otherwise
// every call fails with ErrNoConfigSource. A nil TokenSource makes every
// call fail with ErrUnauthenticated.
type Options struct {
	Config      ConfigSource
	TokenSource oauth2.TokenSource
	HTTPClient  *http.Client

	ConfigTimeout    time.Duration
	MaxResponseBytes int64
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		HTTPClient:       &http.Client{},
		ConfigTimeout:    10 * time.Second,
		MaxResponseBytes: 32 << 20,
	}
}

func WithConfigSource(s ConfigSource) Option       { return func(o *Options) { o.Config = s } }
func WithBaseURL(u string) Option                  { return func(o *Options) { o.Config = StaticConfig(u) } }
func WithTokenSource(ts oauth2.TokenSource) Option { return func(o *Options) { o.TokenSource = ts } }
func WithConfigTimeout(d time.Duration) Option     { return func(o *Options) { o.ConfigTimeout = d } }
func WithMaxResponseBytes(n int64) Option          { return func(o *Options) { o.MaxResponseBytes = n } }

// WithStaticToken authenticates every call with the same bearer token.
// An empty token behaves like no token at all.
func WithStaticToken(token string) Option {
	return func(o *Options) {
		o.TokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		if c != nil {
			o.HTTPClient = c
		}
	}
}
