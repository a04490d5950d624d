package fulfillment

import (
	"fmt"
	"time"

	"github.com/innabox/fulfillment-console/internal/wire"
)

// Metadata is the common object metadata.
//
//	message Metadata {
//	  google.protobuf.Timestamp creation_timestamp = 1;
//	  repeated string creators = 2;
//	  google.protobuf.Timestamp deletion_timestamp = 3;
//	}
type Metadata struct {
	CreationTimestamp *time.Time `json:"creationTimestamp,omitempty"`
	Creators          []string   `json:"creators,omitempty"`
	DeletionTimestamp *time.Time `json:"deletionTimestamp,omitempty"`
}

func EncodeMetadata(m *Metadata) []byte {
	if m == nil {
		return nil
	}
	w := wire.NewWriter()
	if m.CreationTimestamp != nil {
		w.WriteMessage(1, EncodeTimestamp(*m.CreationTimestamp))
	}
	for _, c := range m.Creators {
		w.WriteString(2, c)
	}
	if m.DeletionTimestamp != nil {
		w.WriteMessage(3, EncodeTimestamp(*m.DeletionTimestamp))
	}
	return w.Bytes()
}

func DecodeMetadata(b []byte) (*Metadata, error) {
	m := &Metadata{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.BytesType):
			m.CreationTimestamp, err = readMessage(r, DecodeTimestamp)
		case wire.T(2, wire.BytesType):
			var c string
			c, err = r.ReadString()
			m.Creators = append(m.Creators, c)
		case wire.T(3, wire.BytesType):
			m.DeletionTimestamp, err = readMessage(r, DecodeTimestamp)
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode Metadata: %w", err)
	}
	return m, nil
}

// EncodeTimestamp encodes t as a google.protobuf.Timestamp
// {seconds = 1, nanos = 2}. Zero components are omitted.
func EncodeTimestamp(t time.Time) []byte {
	w := wire.NewWriter()
	if s := t.Unix(); s != 0 {
		w.WriteInt64(1, &s)
	}
	if n := int32(t.Nanosecond()); n != 0 {
		w.WriteInt32(2, &n)
	}
	return w.Bytes()
}

// DecodeTimestamp decodes a google.protobuf.Timestamp. The result is UTC and
// truncated to millisecond precision.
func DecodeTimestamp(b []byte) (*time.Time, error) {
	var (
		seconds int64
		nanos   int32
	)
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.VarintType):
			seconds, err = r.ReadInt64()
		case wire.T(2, wire.VarintType):
			nanos, err = r.ReadInt32()
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode Timestamp: %w", err)
	}
	t := time.UnixMilli(seconds*1000 + int64(nanos)/1e6).UTC()
	return &t, nil
}
