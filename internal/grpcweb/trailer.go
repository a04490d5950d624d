package grpcweb

import (
	"net/url"
	"strconv"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	headerStatus  = "grpc-status"
	headerMessage = "grpc-message"
)

// ParseTrailers parses the "key: value" lines of a trailer frame. Lines are
// CRLF separated; a bare LF is accepted too. Keys are lowercased.
func ParseTrailers(payload []byte) metadata.MD {
	md := metadata.MD{}
	for _, line := range strings.Split(string(payload), "\n") {
		line = strings.TrimRight(line, "\r")
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		md.Append(key, strings.TrimSpace(value))
	}
	return md
}

// StatusFromTrailers returns the status error carried by md, or nil when
// grpc-status is absent or zero.
func StatusFromTrailers(md metadata.MD) error {
	codeVals := md.Get(headerStatus)
	if len(codeVals) == 0 {
		return nil
	}
	var msg string
	if v := md.Get(headerMessage); len(v) > 0 {
		msg = v[0]
	}
	return statusError(codeVals[0], msg)
}

// statusError builds the error for a raw grpc-status / grpc-message pair.
// The message is percent-decoded; undecodable messages are used verbatim.
func statusError(rawCode, rawMsg string) error {
	n, err := strconv.ParseUint(strings.TrimSpace(rawCode), 10, 32)
	if err != nil {
		return status.Errorf(codes.Unknown, "grpcweb: invalid grpc-status %q", rawCode)
	}
	if n == 0 {
		return nil
	}
	msg, err := url.PathUnescape(rawMsg)
	if err != nil {
		msg = rawMsg
	}
	return status.Error(codes.Code(n), msg)
}
