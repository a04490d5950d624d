package grpcweb

import (
	"encoding/binary"
	"fmt"
)

const (
	FrameData    byte = 0x00
	FrameTrailer byte = 0x80

	flagCompressed byte = 0x01
	frameHeaderLen      = 5
)

// Frame is one length-prefixed unit of a gRPC-Web body.
type Frame struct {
	Flags   byte
	Payload []byte
}

func (f Frame) IsTrailer() bool { return f.Flags&FrameTrailer != 0 }

// EncodeFrame prepends the 5-byte gRPC-Web header to payload.
func EncodeFrame(flags byte, payload []byte) []byte {
	buf := make([]byte, frameHeaderLen+len(payload))
	buf[0] = flags
	binary.BigEndian.PutUint32(buf[1:frameHeaderLen], uint32(len(payload)))
	copy(buf[frameHeaderLen:], payload)
	return buf
}

// ParseFrames splits a response body into frames. The body must hold at
// least one complete frame.
func ParseFrames(body []byte) ([]Frame, error) {
	if len(body) < frameHeaderLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrBufferTooShort, len(body))
	}
	var frames []Frame
	for off := 0; off < len(body); {
		if len(body)-off < frameHeaderLen {
			return nil, fmt.Errorf("%w: %d trailing bytes at offset %d", ErrBufferTooShort, len(body)-off, off)
		}
		flags := body[off]
		n := binary.BigEndian.Uint32(body[off+1 : off+frameHeaderLen])
		off += frameHeaderLen
		if uint64(n) > uint64(len(body)-off) {
			return nil, fmt.Errorf("%w: declared %d bytes, have %d", ErrIncompleteMessage, n, len(body)-off)
		}
		if flags&flagCompressed != 0 {
			return nil, ErrCompressedFrame
		}
		frames = append(frames, Frame{Flags: flags, Payload: body[off : off+int(n)]})
		off += int(n)
	}
	return frames, nil
}

// ParseResponse extracts the message payload of a unary response body.
// Trailer status always wins over the message: a non-zero grpc-status
// discards the payload.
func ParseResponse(body []byte) ([]byte, error) {
	frames, err := ParseFrames(body)
	if err != nil {
		return nil, err
	}
	first := frames[0]
	if first.IsTrailer() {
		if err := StatusFromTrailers(ParseTrailers(first.Payload)); err != nil {
			return nil, err
		}
		return nil, ErrTrailerOnly
	}
	for _, f := range frames[1:] {
		if !f.IsTrailer() {
			continue
		}
		if err := StatusFromTrailers(ParseTrailers(f.Payload)); err != nil {
			return nil, err
		}
		break
	}
	return first.Payload, nil
}
