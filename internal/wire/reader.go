package wire

import (
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// Tag is a decoded field key.
type Tag struct {
	Field Number
	Type  Type
}

// T builds a Tag; decoders use it as a switch case.
func T(field Number, typ Type) Tag { return Tag{Field: field, Type: typ} }

// Reader decodes one message strictly front to back.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(b []byte) *Reader { return &Reader{buf: b} }

// Len reports the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

func (r *Reader) rest() []byte { return r.buf[r.pos:] }

// ReadVarint consumes one varint.
func (r *Reader) ReadVarint() (uint64, error) {
	v, n := protowire.ConsumeVarint(r.rest())
	if n < 0 {
		return 0, consumeError(n)
	}
	r.pos += n
	return v, nil
}

// ReadTag consumes the next field key. It returns io.EOF when the buffer is
// exhausted, which is the normal end of a message.
func (r *Reader) ReadTag() (Tag, error) {
	if r.Len() == 0 {
		return Tag{}, io.EOF
	}
	v, err := r.ReadVarint()
	if err != nil {
		return Tag{}, err
	}
	num, typ := protowire.DecodeTag(v)
	if num < protowire.MinValidNumber || num > protowire.MaxValidNumber {
		return Tag{}, fmt.Errorf("%w: field number %d", ErrInvalidTag, int64(v>>3))
	}
	return Tag{Field: num, Type: typ}, nil
}

// ReadBytes consumes a length prefix and exactly that many bytes. The returned
// slice aliases the underlying buffer.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Len()) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, r.Len())
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadInt32 reads a varint and truncates it to 32 bits. Sign-extended
// negatives therefore come back negative.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadVarint()
	return int32(v), err
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadVarint()
	return int64(v), err
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadVarint()
	return v != 0, err
}

// Skip consumes and discards a field value of the given wire type.
func (r *Reader) Skip(typ Type) error {
	var n int
	switch typ {
	case VarintType:
		_, n = protowire.ConsumeVarint(r.rest())
	case Fixed64Type:
		_, n = protowire.ConsumeFixed64(r.rest())
	case Fixed32Type:
		_, n = protowire.ConsumeFixed32(r.rest())
	case BytesType:
		_, err := r.ReadBytes()
		return err
	default:
		return fmt.Errorf("%w: %d", ErrUnknownWireType, typ)
	}
	if n < 0 {
		return consumeError(n)
	}
	r.pos += n
	return nil
}

// Fields runs fn for every field until the buffer is exhausted. fn must
// consume the field value, using Skip for fields it does not recognise.
func (r *Reader) Fields(fn func(Tag) error) error {
	for {
		tag, err := r.ReadTag()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(tag); err != nil {
			return err
		}
	}
}

func consumeError(n int) error {
	err := protowire.ParseError(n)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}
