package protoreg

import (
	"fmt"

	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var scalars = map[string]protoreflect.Kind{
	protoreflect.BoolKind.String():   protoreflect.BoolKind,
	protoreflect.Int32Kind.String():  protoreflect.Int32Kind,
	protoreflect.Int64Kind.String():  protoreflect.Int64Kind,
	protoreflect.StringKind.String(): protoreflect.StringKind,
	protoreflect.BytesKind.String():  protoreflect.BytesKind,
}

var wellKnown = map[string]protoreflect.MessageDescriptor{
	timestampType: (&timestamppb.Timestamp{}).ProtoReflect().Descriptor(),
	anyType:       (&anypb.Any{}).ProtoReflect().Descriptor(),
}

func (b *builder) resolveType(typ string) (*protobuilder.FieldType, error) {
	if kind, ok := scalars[typ]; ok {
		return protobuilder.FieldTypeScalar(kind), nil
	}
	if md, ok := wellKnown[typ]; ok {
		return protobuilder.FieldTypeImportedMessage(md), nil
	}
	if mb, ok := b.messages[typ]; ok {
		return protobuilder.FieldTypeMessage(mb), nil
	}
	if eb, ok := b.enums[typ]; ok {
		return protobuilder.FieldTypeEnum(eb), nil
	}
	return nil, fmt.Errorf("protoreg: unknown type %q", typ)
}
