package fulfillment

import (
	"fmt"

	"github.com/innabox/fulfillment-console/internal/wire"
)

// ListRequest is shared by every List method.
//
//	message ListRequest {
//	  optional int32 offset = 1;
//	  optional int32 limit = 2;
//	  string filter = 3;
//	}
type ListRequest struct {
	Offset *int32
	Limit  *int32
	Filter string
}

func EncodeListRequest(req ListRequest) []byte {
	w := wire.NewWriter()
	w.WriteInt32(1, req.Offset)
	w.WriteInt32(2, req.Limit)
	w.WriteString(3, req.Filter)
	return w.Bytes()
}

// ListResponse is one page of a List method.
//
//	message <Items>ListResponse {
//	  int32 size = 1;
//	  int32 total = 2;
//	  repeated <Item> items = 3;
//	}
//
// Items keep wire order. Total may exceed the number of items on the page.
type ListResponse[T any] struct {
	Size  *int32 `json:"size,omitempty"`
	Total *int32 `json:"total,omitempty"`
	Items []T    `json:"items"`
}

// DecodeListResponse decodes a list envelope, decoding each item with decodeItem.
func DecodeListResponse[T any](b []byte, decodeItem Decoder[T]) (*ListResponse[T], error) {
	resp := &ListResponse[T]{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.VarintType):
			var v int32
			v, err = r.ReadInt32()
			resp.Size = &v
		case wire.T(2, wire.VarintType):
			var v int32
			v, err = r.ReadInt32()
			resp.Total = &v
		case wire.T(3, wire.BytesType):
			var item *T
			if item, err = readMessage(r, decodeItem); err == nil {
				resp.Items = append(resp.Items, *item)
			}
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode ListResponse: %w", err)
	}
	return resp, nil
}

func DecodeHubsListResponse(b []byte) (*ListResponse[Hub], error) {
	return DecodeListResponse(b, DecodeHub)
}

func DecodeClustersListResponse(b []byte) (*ListResponse[Cluster], error) {
	return DecodeListResponse(b, DecodeCluster)
}

func DecodeClusterTemplatesListResponse(b []byte) (*ListResponse[ClusterTemplate], error) {
	return DecodeListResponse(b, DecodeClusterTemplate)
}

func DecodeHostsListResponse(b []byte) (*ListResponse[Host], error) {
	return DecodeListResponse(b, DecodeHost)
}

// EncodeIDRequest encodes the {string id = 1} request of Get and Delete.
func EncodeIDRequest(id string) []byte {
	w := wire.NewWriter()
	w.WriteString(1, id)
	return w.Bytes()
}

// EncodeObjectRequest wraps an encoded object as field 1, the shape of Create
// and Update requests.
func EncodeObjectRequest(object []byte) []byte {
	w := wire.NewWriter()
	w.WriteMessage(1, object)
	return w.Bytes()
}

// DecodeObjectResponse decodes the {object = 1} envelope of Get, Create and
// Update responses. A response without the field yields nil.
func DecodeObjectResponse[T any](b []byte, decode Decoder[T]) (*T, error) {
	var obj *T
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.BytesType):
			obj, err = readMessage(r, decode)
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode object response: %w", err)
	}
	return obj, nil
}

// DecodeEmpty validates a response that carries no fields of interest, such
// as DeleteResponse. Unknown fields are still walked so malformed bodies fail.
func DecodeEmpty(b []byte) error {
	r := wire.NewReader(b)
	if err := r.Fields(func(tag wire.Tag) error { return r.Skip(tag.Type) }); err != nil {
		return fmt.Errorf("decode empty response: %w", err)
	}
	return nil
}
