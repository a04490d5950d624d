package events

import (
	"time"

	"google.golang.org/grpc/codes"
)

// Protocols reported in call events.
const (
	ProtocolGRPCWeb = "grpc-web"
	ProtocolGRPC    = "grpc"
)

// CallStart is emitted before a unary call is sent.
// Context carries the per-call request ID.
type CallStart struct {
	Protocol string
	Service  string
	Method   string
}

// CallFinish is emitted after a unary call completes, successfully or not.
// Target is empty when the endpoint could not be resolved. HTTPStatus is
// only set for gRPC-Web calls that got a response.
type CallFinish struct {
	Protocol   string
	Service    string
	Method     string
	Target     string
	Code       codes.Code
	HTTPStatus int
	Err        error
	Duration   time.Duration
}
