package grpctp

import "fmt"

// rawCodec passes already encoded messages through untouched. Its name is
// "proto" so the wire content type stays application/grpc+proto.
type rawCodec struct{}

func (rawCodec) Name() string { return "proto" }

func (rawCodec) Marshal(v any) ([]byte, error) {
	b, ok := v.(*[]byte)
	if !ok {
		return nil, fmt.Errorf("grpctp: cannot marshal %T", v)
	}
	return *b, nil
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	b, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("grpctp: cannot unmarshal into %T", v)
	}
	*b = append((*b)[:0], data...)
	return nil
}
