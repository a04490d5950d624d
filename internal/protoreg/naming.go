package protoreg

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

func nameRequest(service protoreflect.Name, method string) protoreflect.Name {
	return protoreflect.Name(string(service) + method + "Request")
}

func nameResponse(service protoreflect.Name, method string) protoreflect.Name {
	return protoreflect.Name(string(service) + method + "Response")
}

func nameEnumValue(enumName protoreflect.Name, value string) protoreflect.Name {
	return protoreflect.Name(strings.ToUpper(snakeCase(string(enumName))) + "_" + value)
}

// snakeCase converts a string from CamelCase or PascalCase to snake_case.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
