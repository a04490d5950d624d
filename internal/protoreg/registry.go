package protoreg

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Registry indexes the built descriptors.
type Registry struct {
	files    []protoreflect.FileDescriptor
	messages map[protoreflect.FullName]protoreflect.MessageDescriptor
	services []protoreflect.ServiceDescriptor
	methods  map[string]protoreflect.MethodDescriptor // "/service/method"
}

func newRegistry() *Registry {
	return &Registry{
		messages: make(map[protoreflect.FullName]protoreflect.MessageDescriptor),
		methods:  make(map[string]protoreflect.MethodDescriptor),
	}
}

func (r *Registry) add(fd protoreflect.FileDescriptor) {
	r.files = append(r.files, fd)
	msgs := fd.Messages()
	for i := 0; i < msgs.Len(); i++ {
		r.messages[msgs.Get(i).FullName()] = msgs.Get(i)
	}
	svcs := fd.Services()
	for i := 0; i < svcs.Len(); i++ {
		svc := svcs.Get(i)
		r.services = append(r.services, svc)
		methods := svc.Methods()
		for j := 0; j < methods.Len(); j++ {
			m := methods.Get(j)
			r.methods["/"+string(svc.FullName())+"/"+string(m.Name())] = m
		}
	}
}

// Files returns the file descriptors in dependency order.
func (r *Registry) Files() []protoreflect.FileDescriptor { return r.files }

// Services returns every service of the API.
func (r *Registry) Services() []protoreflect.ServiceDescriptor { return r.services }

// Message returns the top-level message with the given full name, or nil.
func (r *Registry) Message(name protoreflect.FullName) protoreflect.MessageDescriptor {
	return r.messages[name]
}

// Method returns the descriptor of service/method, or nil.
func (r *Registry) Method(service, method string) protoreflect.MethodDescriptor {
	return r.methods["/"+service+"/"+method]
}
