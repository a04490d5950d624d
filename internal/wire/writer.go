package wire

import "google.golang.org/protobuf/encoding/protowire"

// Number is a protobuf field number.
type Number = protowire.Number

// Type is a protobuf wire type.
type Type = protowire.Type

const (
	VarintType  Type = protowire.VarintType
	Fixed64Type Type = protowire.Fixed64Type
	BytesType   Type = protowire.BytesType
	Fixed32Type Type = protowire.Fixed32Type
)

// Writer accumulates the encoded fields of a single message.
// A Writer is not safe for concurrent use and is meant to be used once.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer { return &Writer{} }

// WriteVarint appends v as an unsigned base-128 varint.
func (w *Writer) WriteVarint(v uint64) {
	w.buf = protowire.AppendVarint(w.buf, v)
}

// WriteTag appends (num << 3) | typ as a varint.
func (w *Writer) WriteTag(num Number, typ Type) {
	w.buf = protowire.AppendTag(w.buf, num, typ)
}

// WriteString writes a length-delimited string field. Empty strings are not
// written, so "" and absent are indistinguishable on the wire.
func (w *Writer) WriteString(num Number, s string) {
	if s == "" {
		return
	}
	w.WriteTag(num, BytesType)
	w.buf = protowire.AppendString(w.buf, s)
}

// WriteBytes writes a length-delimited bytes field. Empty values are skipped.
func (w *Writer) WriteBytes(num Number, b []byte) {
	if len(b) == 0 {
		return
	}
	w.WriteTag(num, BytesType)
	w.buf = protowire.AppendBytes(w.buf, b)
}

// WriteMessage writes an already encoded nested message. Empty encodings are skipped.
func (w *Writer) WriteMessage(num Number, msg []byte) {
	w.WriteBytes(num, msg)
}

// WriteInt32 writes v when it is set, including an explicit zero.
func (w *Writer) WriteInt32(num Number, v *int32) {
	if v == nil {
		return
	}
	w.WriteTag(num, VarintType)
	w.WriteVarint(uint64(int64(*v)))
}

// WriteInt64 writes v when it is set, including an explicit zero.
func (w *Writer) WriteInt64(num Number, v *int64) {
	if v == nil {
		return
	}
	w.WriteTag(num, VarintType)
	w.WriteVarint(uint64(*v))
}

// WriteEnum writes an enum value; the zero value is the proto3 default and is skipped.
func (w *Writer) WriteEnum(num Number, v int32) {
	if v == 0 {
		return
	}
	w.WriteInt32(num, &v)
}

// WriteBool writes true as 1; false is the proto3 default and is skipped.
func (w *Writer) WriteBool(num Number, v bool) {
	if !v {
		return
	}
	w.WriteTag(num, VarintType)
	w.WriteVarint(1)
}

// Bytes returns the encoded message.
func (w *Writer) Bytes() []byte {
	return w.buf
}
