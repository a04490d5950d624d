package grpcweb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func trailer(s string) []byte { return EncodeFrame(FrameTrailer, []byte(s)) }

func TestEncodeFrameLayout(t *testing.T) {
	got := EncodeFrame(FrameData, []byte{0x0a, 0x01, 'a'})
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x03, 0x0a, 0x01, 'a'}, got)
	require.Equal(t, []byte{0x00, 0, 0, 0, 0}, EncodeFrame(FrameData, nil))
}

func TestParseResponseMessageThenOKTrailer(t *testing.T) {
	body := append(EncodeFrame(FrameData, []byte{0x0a, 0x01, 'a'}), trailer("grpc-status: 0\r\n")...)
	msg, err := ParseResponse(body)
	require.NoError(t, err)
	require.Equal(t, []byte{0x0a, 0x01, 'a'}, msg)
}

func TestParseResponseMessageWithoutTrailer(t *testing.T) {
	msg, err := ParseResponse(EncodeFrame(FrameData, []byte("x")))
	require.NoError(t, err)
	require.Equal(t, []byte("x"), msg)
}

func TestParseResponseTrailerOnlyStatus(t *testing.T) {
	_, err := ParseResponse(trailer("grpc-status: 3\r\ngrpc-message: bad%20request\r\n"))
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, codes.InvalidArgument, st.Code())
	require.Equal(t, "bad request", st.Message())
}

func TestParseResponseTrailerOnlyOK(t *testing.T) {
	_, err := ParseResponse(trailer("grpc-status: 0\r\n"))
	require.ErrorIs(t, err, ErrTrailerOnly)
}

func TestParseResponseTrailerStatusWinsOverMessage(t *testing.T) {
	body := append(EncodeFrame(FrameData, []byte("partial")), trailer("grpc-status: 13\r\ngrpc-message: boom\r\n")...)
	msg, err := ParseResponse(body)
	require.Nil(t, msg)
	require.Equal(t, codes.Internal, status.Code(err))
}

func TestParseResponseTooShort(t *testing.T) {
	_, err := ParseResponse([]byte{0x00, 0x00, 0x00})
	require.ErrorIs(t, err, ErrBufferTooShort)
	_, err = ParseResponse(nil)
	require.ErrorIs(t, err, ErrBufferTooShort)
}

func TestParseResponseIncompleteMessage(t *testing.T) {
	_, err := ParseResponse([]byte{0x00, 0x00, 0x00, 0x00, 0x0a, 1, 2})
	require.ErrorIs(t, err, ErrIncompleteMessage)
}

func TestParseFramesTrailingGarbage(t *testing.T) {
	body := append(EncodeFrame(FrameData, []byte("x")), 0x80, 0x00)
	_, err := ParseFrames(body)
	require.ErrorIs(t, err, ErrBufferTooShort)
}

func TestParseFramesCompressed(t *testing.T) {
	_, err := ParseFrames(EncodeFrame(0x01, []byte("z")))
	require.ErrorIs(t, err, ErrCompressedFrame)
}

func TestParseTrailers(t *testing.T) {
	md := ParseTrailers([]byte("Grpc-Status: 5\ngrpc-message:not%20found\r\nno-colon-line\r\nx-extra: a: b\r\n"))
	require.Equal(t, []string{"5"}, md.Get("grpc-status"))
	require.Equal(t, []string{"not%20found"}, md.Get("grpc-message"))
	require.Equal(t, []string{"a: b"}, md.Get("x-extra"))

	err := StatusFromTrailers(md)
	require.Equal(t, codes.NotFound, status.Code(err))
	require.Equal(t, "not found", status.Convert(err).Message())
}

func TestStatusFromTrailersAbsent(t *testing.T) {
	require.NoError(t, StatusFromTrailers(ParseTrailers([]byte("x-other: 1\r\n"))))
}

func TestStatusErrorInvalidCode(t *testing.T) {
	err := statusError("abc", "")
	require.Equal(t, codes.Unknown, status.Code(err))
}

func TestStatusErrorUndecodableMessage(t *testing.T) {
	err := statusError("2", "100%")
	require.Equal(t, "100%", status.Convert(err).Message())
}
