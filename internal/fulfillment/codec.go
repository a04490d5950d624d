package fulfillment

import (
	"encoding/base64"
	"fmt"
	"maps"
	"slices"

	"github.com/innabox/fulfillment-console/internal/wire"
)

// Decoder decodes the bytes of one message.
type Decoder[T any] func([]byte) (*T, error)

// readMessage reads a length-delimited field and decodes it as a nested message.
func readMessage[T any](r *wire.Reader, decode Decoder[T]) (*T, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	return decode(b)
}

// readMapEntry decodes one {key = 1, value = 2} entry of a map<string, V> field.
// A missing value decodes as the value decoder's result for empty input.
func readMapEntry[V any](r *wire.Reader, decodeValue func([]byte) (V, error)) (string, V, error) {
	var (
		key   string
		value []byte
		zero  V
	)
	b, err := r.ReadBytes()
	if err != nil {
		return "", zero, err
	}
	er := wire.NewReader(b)
	err = er.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.BytesType):
			key, err = er.ReadString()
		case wire.T(2, wire.BytesType):
			value, err = er.ReadBytes()
		default:
			err = er.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return "", zero, fmt.Errorf("map entry: %w", err)
	}
	v, err := decodeValue(value)
	if err != nil {
		return "", zero, err
	}
	return key, v, nil
}

// writeMap writes m as repeated map entries in sorted key order.
func writeMap[V any](w *wire.Writer, num wire.Number, m map[string]V, encodeValue func(V) ([]byte, error)) error {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		vb, err := encodeValue(m[k])
		if err != nil {
			return fmt.Errorf("map key %q: %w", k, err)
		}
		ew := wire.NewWriter()
		ew.WriteString(1, k)
		// Entries always carry the value field, even when it encodes to nothing.
		ew.WriteTag(2, wire.BytesType)
		ew.WriteVarint(uint64(len(vb)))
		entry := append(ew.Bytes(), vb...)
		w.WriteMessage(num, entry)
	}
	return nil
}

func bytesToBase64(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func base64ToBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(s)
}
