package api

import (
	"context"
	"fmt"

	"github.com/innabox/fulfillment-console/internal/fulfillment"
	"github.com/innabox/fulfillment-console/internal/grpcweb"
)

// Codec is the encode/decode pair of one object type.
type Codec[T any] struct {
	Encode func(*T) ([]byte, error)
	Decode fulfillment.Decoder[T]
}

// Reader is a read-only service exposing List and Get.
type Reader[T any] struct {
	inv     grpcweb.Invoker
	service string
	noun    string
	decode  fulfillment.Decoder[T]
}

func NewReader[T any](inv grpcweb.Invoker, service, noun string, decode fulfillment.Decoder[T]) *Reader[T] {
	return &Reader[T]{inv: inv, service: service, noun: noun, decode: decode}
}

// Service returns the fully qualified gRPC service name.
func (r *Reader[T]) Service() string { return r.service }

// List returns one page of objects in server order.
func (r *Reader[T]) List(ctx context.Context, req fulfillment.ListRequest) (*fulfillment.ListResponse[T], error) {
	resp, err := grpcweb.Call(ctx, r.inv, r.service, "List", fulfillment.EncodeListRequest(req),
		func(b []byte) (*fulfillment.ListResponse[T], error) {
			return fulfillment.DecodeListResponse(b, r.decode)
		})
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", r.noun, err)
	}
	return resp, nil
}

// Get returns the object with the given id.
func (r *Reader[T]) Get(ctx context.Context, id string) (*T, error) {
	obj, err := r.object(ctx, "Get", fulfillment.EncodeIDRequest(id))
	if err != nil {
		return nil, fmt.Errorf("get %s %q: %w", r.noun, id, err)
	}
	return obj, nil
}

func (r *Reader[T]) object(ctx context.Context, method string, req []byte) (*T, error) {
	obj, err := grpcweb.Call(ctx, r.inv, r.service, method, req, func(b []byte) (*T, error) {
		return fulfillment.DecodeObjectResponse(b, r.decode)
	})
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrMissingObject
	}
	return obj, nil
}

// Resource is a service with full create, read, update and delete support.
type Resource[T any] struct {
	*Reader[T]
	encode func(*T) ([]byte, error)
}

func NewResource[T any](inv grpcweb.Invoker, service, noun string, codec Codec[T]) *Resource[T] {
	return &Resource[T]{
		Reader: NewReader(inv, service, noun, codec.Decode),
		encode: codec.Encode,
	}
}

// Create stores obj and returns the object as persisted by the server.
func (r *Resource[T]) Create(ctx context.Context, obj *T) (*T, error) {
	out, err := r.write(ctx, "Create", obj)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", r.noun, err)
	}
	return out, nil
}

// Update replaces the stored object and returns the server's version.
func (r *Resource[T]) Update(ctx context.Context, obj *T) (*T, error) {
	out, err := r.write(ctx, "Update", obj)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", r.noun, err)
	}
	return out, nil
}

func (r *Resource[T]) write(ctx context.Context, method string, obj *T) (*T, error) {
	b, err := r.encode(obj)
	if err != nil {
		return nil, err
	}
	return r.object(ctx, method, fulfillment.EncodeObjectRequest(b))
}

// Delete removes the object with the given id.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := grpcweb.Call(ctx, r.inv, r.service, "Delete", fulfillment.EncodeIDRequest(id), func(b []byte) (struct{}, error) {
		return struct{}{}, fulfillment.DecodeEmpty(b)
	})
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", r.noun, id, err)
	}
	return nil
}
