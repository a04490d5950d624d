package grpcweb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/status"

	eventbus "github.com/innabox/fulfillment-console/internal/eventbus"
	events "github.com/innabox/fulfillment-console/internal/events"
	reqid "github.com/innabox/fulfillment-console/internal/reqid"
)

const (
	contentType = "application/grpc-web+proto"
	resolveKey  = "base-url"
)

// Invoker performs one unary call and returns the raw response message.
type Invoker interface {
	Invoke(ctx context.Context, service, method string, req []byte) ([]byte, error)
}

// Client is a unary gRPC-Web client. It is safe for concurrent use.
type Client struct {
	opts *Options

	mu      sync.RWMutex
	baseURL string

	resolve singleflight.Group
}

var _ Invoker = (*Client)(nil)

func New(opts ...Option) *Client {
	o := defaultOptions()
	for _, f := range opts {
		f(o)
	}
	return &Client{opts: o}
}

// BaseURL returns the backend base URL, resolving it on first use.
// Concurrent first callers share a single resolution. A failed resolution
// is not cached, so the next call retries. Cancelling ctx releases this
// caller without aborting the resolution other callers wait on.
func (c *Client) BaseURL(ctx context.Context) (string, error) {
	if u := c.cached(); u != "" {
		return u, nil
	}
	if c.opts.Config == nil {
		return "", ErrNoConfigSource
	}
	ch := c.resolve.DoChan(resolveKey, func() (any, error) {
		if u := c.cached(); u != "" {
			return u, nil
		}
		rctx := context.WithoutCancel(ctx)
		if c.opts.ConfigTimeout > 0 {
			var cancel context.CancelFunc
			rctx, cancel = context.WithTimeout(rctx, c.opts.ConfigTimeout)
			defer cancel()
		}
		start := time.Now()
		u, err := c.opts.Config.FulfillmentAPIURL(rctx)
		u = strings.TrimRight(strings.TrimSpace(u), "/")
		if err == nil && u == "" {
			err = ErrNoBaseURL
		}
		eventbus.Publish(ctx, events.ConfigResolved{URL: u, Err: err, Duration: time.Since(start)})
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.baseURL = u
		c.mu.Unlock()
		return u, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", fmt.Errorf("grpcweb: resolve base URL: %w", res.Err)
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Client) cached() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// Invoke sends req to /service/method and returns the response message.
//
// Status is checked in this order: grpc-status in the response headers,
// then the HTTP status, then the framed body and its trailer.
func (c *Client) Invoke(ctx context.Context, service, method string, req []byte) (resp []byte, err error) {
	ctx, _ = reqid.NewContext(ctx)
	var (
		target     string
		httpStatus int
		start      = time.Now()
	)
	eventbus.Publish(ctx, events.CallStart{Protocol: events.ProtocolGRPCWeb, Service: service, Method: method})
	defer func() {
		eventbus.Publish(ctx, events.CallFinish{
			Protocol:   events.ProtocolGRPCWeb,
			Service:    service,
			Method:     method,
			Target:     target,
			Code:       status.Code(err),
			HTTPStatus: httpStatus,
			Err:        err,
			Duration:   time.Since(start),
		})
	}()

	base, err := c.BaseURL(ctx)
	if err != nil {
		return nil, err
	}
	target = base
	token, err := c.accessToken()
	if err != nil {
		return nil, err
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/"+service+"/"+method, bytes.NewReader(EncodeFrame(FrameData, req)))
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Content-Type", contentType)
	hreq.Header.Set("Accept", contentType)
	hreq.Header.Set("X-Grpc-Web", "1")
	hreq.Header.Set("Authorization", "Bearer "+token)

	hresp, err := c.opts.HTTPClient.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(hresp.Body, 4<<10))
		hresp.Body.Close()
	}()
	httpStatus = hresp.StatusCode

	headerOK := false
	if code := hresp.Header.Get(headerStatus); code != "" {
		if err := statusError(code, hresp.Header.Get(headerMessage)); err != nil {
			return nil, err
		}
		headerOK = true
	}
	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: hresp.StatusCode, Status: hresp.Status}
	}
	body, err := io.ReadAll(io.LimitReader(hresp.Body, c.opts.MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("grpcweb: read response: %w", err)
	}
	if int64(len(body)) > c.opts.MaxResponseBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, c.opts.MaxResponseBytes)
	}
	// Trailers-only response with an OK status in the headers.
	if headerOK && len(body) == 0 {
		return nil, ErrTrailerOnly
	}
	return ParseResponse(body)
}

func (c *Client) accessToken() (string, error) {
	if c.opts.TokenSource == nil {
		return "", ErrUnauthenticated
	}
	tok, err := c.opts.TokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", ErrUnauthenticated
	}
	return tok.AccessToken, nil
}
