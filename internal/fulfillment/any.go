package fulfillment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/innabox/fulfillment-console/internal/wire"
)

const typeURLPrefix = "type.googleapis.com/"

// Kind enumerates the well-known wrapper types an Any value can be resolved to.
type Kind int

const (
	KindUnknown Kind = iota
	KindString
	KindInt32
	KindInt64
	KindBool
)

// KindOf resolves a type URL by the full message name after its last '/'.
func KindOf(typeURL string) Kind {
	name := typeURL[strings.LastIndexByte(typeURL, '/')+1:]
	switch name {
	case "google.protobuf.StringValue":
		return KindString
	case "google.protobuf.Int32Value":
		return KindInt32
	case "google.protobuf.Int64Value":
		return KindInt64
	case "google.protobuf.BoolValue":
		return KindBool
	}
	return KindUnknown
}

// FullName returns the protobuf message name of the wrapper, or "" for KindUnknown.
func (k Kind) FullName() string {
	switch k {
	case KindString:
		return "google.protobuf.StringValue"
	case KindInt32:
		return "google.protobuf.Int32Value"
	case KindInt64:
		return "google.protobuf.Int64Value"
	case KindBool:
		return "google.protobuf.BoolValue"
	case KindUnknown:
	}
	return ""
}

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	case KindUnknown:
	}
	return "unknown"
}

// Value is a google.protobuf.Any resolved to one of the known wrapper kinds.
// Values with an unrecognised type URL keep the URL and the raw payload so
// they can be passed back to the server untouched.
type Value struct {
	kind    Kind
	str     string
	num     int64
	boolean bool
	typeURL string
	raw     []byte
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func Int32Value(n int32) Value   { return Value{kind: KindInt32, num: int64(n)} }
func Int64Value(n int64) Value   { return Value{kind: KindInt64, num: n} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, boolean: b} }

// UnknownValue carries a payload this package cannot interpret.
func UnknownValue(typeURL string, raw []byte) Value {
	return Value{kind: KindUnknown, typeURL: typeURL, raw: raw}
}

func (v Value) Kind() Kind { return v.kind }

// TypeURL returns the URL the value is packed under.
func (v Value) TypeURL() string {
	if v.kind == KindUnknown {
		return v.typeURL
	}
	return typeURLPrefix + v.kind.FullName()
}

// Raw returns the undecoded payload of an unknown value.
func (v Value) Raw() []byte { return v.raw }

// Interface returns the Go value: string, int32, int64, bool, or nil when unknown.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt32:
		return int32(v.num)
	case KindInt64:
		return v.num
	case KindBool:
		return v.boolean
	case KindUnknown:
	}
	return nil
}

// Equal reports whether v and o hold the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.str == o.str && v.num == o.num &&
		v.boolean == o.boolean && v.typeURL == o.typeURL && bytes.Equal(v.raw, o.raw)
}

func (v Value) MarshalJSON() ([]byte, error) { return json.Marshal(v.Interface()) }

func (v Value) MarshalYAML() (any, error) { return v.Interface(), nil }

// EncodeAny packs v as a google.protobuf.Any {type_url = 1, value = 2}.
func EncodeAny(v Value) []byte {
	w := wire.NewWriter()
	w.WriteString(1, v.TypeURL())
	p := wire.NewWriter()
	switch v.kind {
	case KindString:
		p.WriteString(1, v.str)
	case KindInt32:
		if v.num != 0 {
			n := int32(v.num)
			p.WriteInt32(1, &n)
		}
	case KindInt64:
		if v.num != 0 {
			p.WriteInt64(1, &v.num)
		}
	case KindBool:
		p.WriteBool(1, v.boolean)
	case KindUnknown:
		w.WriteBytes(2, v.raw)
		return w.Bytes()
	}
	w.WriteMessage(2, p.Bytes())
	return w.Bytes()
}

// DecodeAny decodes a google.protobuf.Any and unwraps its payload.
// Unknown type URLs are not an error.
func DecodeAny(b []byte) (*Value, error) {
	var (
		typeURL string
		payload []byte
	)
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.BytesType):
			typeURL, err = r.ReadString()
		case wire.T(2, wire.BytesType):
			payload, err = r.ReadBytes()
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode Any: %w", err)
	}
	v, err := DecodeAnyValue(typeURL, payload)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DecodeAnyValue interprets payload according to typeURL. Every known wrapper
// stores its value in field 1.
func DecodeAnyValue(typeURL string, payload []byte) (Value, error) {
	kind := KindOf(typeURL)
	if kind == KindUnknown {
		return UnknownValue(typeURL, payload), nil
	}
	v := Value{kind: kind}
	r := wire.NewReader(payload)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch {
		case tag == wire.T(1, wire.BytesType) && kind == KindString:
			v.str, err = r.ReadString()
		case tag == wire.T(1, wire.VarintType) && kind == KindInt32:
			var n int32
			n, err = r.ReadInt32()
			v.num = int64(n)
		case tag == wire.T(1, wire.VarintType) && kind == KindInt64:
			v.num, err = r.ReadInt64()
		case tag == wire.T(1, wire.VarintType) && kind == KindBool:
			v.boolean, err = r.ReadBool()
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return Value{}, fmt.Errorf("decode %s: %w", kind.FullName(), err)
	}
	return v, nil
}

func decodeValue(b []byte) (Value, error) {
	v, err := DecodeAny(b)
	if err != nil {
		return Value{}, err
	}
	return *v, nil
}

func encodeValue(v Value) ([]byte, error) { return EncodeAny(v), nil }
