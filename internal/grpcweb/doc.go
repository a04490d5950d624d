// Package grpcweb is a unary gRPC-Web client over plain HTTP/1.1.
//
// A request message is sent as a single data frame:
//
//	[flags:1][length:4, big endian][payload:length]
//
// The response body holds a data frame followed by a trailer frame (flags
// bit 0x80) whose payload is "key: value\r\n" text carrying grpc-status and
// grpc-message. A trailers-only response has no data frame at all.
//
// The backend base URL is resolved lazily from a ConfigSource on the first
// call and cached for the lifetime of the Client.
package grpcweb
