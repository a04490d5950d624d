// Package protoreg builds protobuf descriptors for the fulfillment API wire
// contract, so the contract can be rendered as .proto files and checked
// against the hand-written codecs.
package protoreg

import (
	"fmt"
	"strings"

	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

type builder struct {
	files    map[string]*protobuilder.FileBuilder
	messages map[string]*protobuilder.MessageBuilder // full name -> builder
	enums    map[string]*protobuilder.EnumBuilder    // full name -> builder
}

// Build builds descriptors for every file of the contract.
func Build() (*Registry, error) {
	b := &builder{
		files:    make(map[string]*protobuilder.FileBuilder),
		messages: make(map[string]*protobuilder.MessageBuilder),
		enums:    make(map[string]*protobuilder.EnumBuilder),
	}

	// Pass 1: files, enums and empty messages, so fields can refer to any of them.
	for _, fs := range files {
		fb := protobuilder.NewFile(fs.path)
		fb.SetPackageName(fs.pkg)
		fb.SetSyntax(protoreflect.Proto3)
		for _, dep := range fs.deps {
			fb.AddDependency(b.files[dep])
		}
		b.files[fs.path] = fb

		for _, es := range fs.enums {
			fb.AddEnum(b.enum(fs.pkg, es))
		}
		for _, ms := range fs.messages {
			fb.AddMessage(b.message(fs.pkg, ms))
		}
		for _, ss := range fs.services {
			for _, m := range ss.methods {
				req, resp := methodMessages(ss.name, m, ss.object)
				fb.AddMessage(b.message(fs.pkg, req))
				fb.AddMessage(b.message(fs.pkg, resp))
			}
		}
	}

	// Pass 2: fields and services.
	for _, fs := range files {
		for _, ms := range fs.messages {
			if err := b.addFields(fs.pkg, ms); err != nil {
				return nil, err
			}
		}
		for _, ss := range fs.services {
			sb := protobuilder.NewService(ss.name)
			for _, m := range ss.methods {
				req, resp := methodMessages(ss.name, m, ss.object)
				if err := b.addFields(fs.pkg, req); err != nil {
					return nil, err
				}
				if err := b.addFields(fs.pkg, resp); err != nil {
					return nil, err
				}
				sb.AddMethod(protobuilder.NewMethod(
					protoreflect.Name(m),
					protobuilder.RpcTypeMessage(b.messages[qualify(fs.pkg, req.name)], false),
					protobuilder.RpcTypeMessage(b.messages[qualify(fs.pkg, resp.name)], false),
				))
			}
			b.files[fs.path].AddService(sb)
		}
	}

	reg := newRegistry()
	for _, fs := range files {
		fd, err := b.files[fs.path].Build()
		if err != nil {
			return nil, fmt.Errorf("protoreg: build %s: %w", fs.path, err)
		}
		reg.add(fd)
	}
	return reg, nil
}

func qualify(pkg protoreflect.FullName, name protoreflect.Name) string {
	return string(pkg.Append(name))
}

func (b *builder) enum(pkg protoreflect.FullName, es enumSpec) *protobuilder.EnumBuilder {
	eb := protobuilder.NewEnum(es.name)
	eb.SetComments(comment(es.doc))
	zero := protobuilder.NewEnumValue(nameEnumValue(es.name, "UNSPECIFIED"))
	zero.SetNumber(0)
	eb.AddValue(zero)
	for i, v := range es.values {
		evb := protobuilder.NewEnumValue(nameEnumValue(es.name, v))
		evb.SetNumber(protoreflect.EnumNumber(i + 1))
		eb.AddValue(evb)
	}
	b.enums[qualify(pkg, es.name)] = eb
	return eb
}

func (b *builder) message(pkg protoreflect.FullName, ms messageSpec) *protobuilder.MessageBuilder {
	mb := protobuilder.NewMessage(ms.name)
	mb.SetComments(comment(ms.doc))
	b.messages[qualify(pkg, ms.name)] = mb
	return mb
}

func (b *builder) addFields(pkg protoreflect.FullName, ms messageSpec) error {
	mb := b.messages[qualify(pkg, ms.name)]
	for _, f := range ms.fields {
		ft, err := b.resolveType(f.typ)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", ms.name, f.name, err)
		}
		var fb *protobuilder.FieldBuilder
		if f.mapValue {
			fb = protobuilder.NewMapField(f.name, protobuilder.FieldTypeScalar(protoreflect.StringKind), ft)
		} else {
			fb = protobuilder.NewField(f.name, ft)
			if f.repeated {
				fb.SetRepeated()
			}
		}
		fb.SetNumber(f.number)
		mb.AddField(fb)
	}
	return nil
}

func comment(doc string) protobuilder.Comments {
	if doc == "" {
		return protobuilder.Comments{}
	}
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = " " + line
	}
	return protobuilder.Comments{LeadingComment: strings.Join(lines, "\n") + "\n"}
}
