package grpcweb

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrUnauthenticated is returned before any request is sent when no access token is available.
	ErrUnauthenticated = status.Error(codes.Unauthenticated, "grpcweb: no access token available")

	ErrBufferTooShort    = errors.New("grpcweb: response buffer too short")
	ErrIncompleteMessage = errors.New("grpcweb: incomplete message frame")
	ErrTrailerOnly       = errors.New("grpcweb: received trailer instead of message")
	ErrCompressedFrame   = errors.New("grpcweb: compressed frames are not supported")
	ErrResponseTooLarge  = errors.New("grpcweb: response body exceeds size limit")

	ErrNoConfigSource = errors.New("grpcweb: no config source configured")
	ErrNoBaseURL      = errors.New("grpcweb: configuration has no fulfillment API URL")
)

// HTTPError is a non-2xx response that carried no grpc-status.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("grpcweb: http error %s", e.Status)
}

// GRPCStatus maps the HTTP status to a gRPC code the way gRPC clients do
// when a proxy answers instead of the server.
func (e *HTTPError) GRPCStatus() *status.Status {
	var code codes.Code
	switch e.StatusCode {
	case http.StatusBadRequest:
		code = codes.Internal
	case http.StatusUnauthorized:
		code = codes.Unauthenticated
	case http.StatusForbidden:
		code = codes.PermissionDenied
	case http.StatusNotFound:
		code = codes.Unimplemented
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		code = codes.Unavailable
	default:
		code = codes.Unknown
	}
	return status.New(code, e.Error())
}
