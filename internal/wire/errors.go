package wire

import "errors"

var (
	ErrTruncated       = errors.New("wire: truncated data")
	ErrMalformed       = errors.New("wire: malformed data")
	ErrUnknownWireType = errors.New("wire: unknown wire type")
	ErrInvalidTag      = errors.New("wire: invalid field tag")
)
