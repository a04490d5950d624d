package protoreg

import "google.golang.org/protobuf/reflect/protoreflect"

// The wire contract of the fulfillment API. Field numbers are part of the
// contract and must match the codecs in package fulfillment.

const (
	timestampType = "google.protobuf.Timestamp"
	anyType       = "google.protobuf.Any"
)

type fieldSpec struct {
	name     protoreflect.Name
	number   protoreflect.FieldNumber
	typ      string // scalar kind name or fully qualified message/enum name
	repeated bool
	mapValue bool // map<string, typ>
}

func field(number protoreflect.FieldNumber, name protoreflect.Name, typ string) fieldSpec {
	return fieldSpec{name: name, number: number, typ: typ}
}

func repeated(number protoreflect.FieldNumber, name protoreflect.Name, typ string) fieldSpec {
	return fieldSpec{name: name, number: number, typ: typ, repeated: true}
}

func mapOf(number protoreflect.FieldNumber, name protoreflect.Name, valueType string) fieldSpec {
	return fieldSpec{name: name, number: number, typ: valueType, mapValue: true}
}

type messageSpec struct {
	name   protoreflect.Name
	doc    string
	fields []fieldSpec
}

// enumSpec values are numbered from 1 in order; UNSPECIFIED = 0 is implied.
type enumSpec struct {
	name   protoreflect.Name
	doc    string
	values []string
}

type serviceSpec struct {
	name    protoreflect.Name
	object  string
	methods []string
}

type fileSpec struct {
	path     string
	pkg      protoreflect.FullName
	deps     []string
	enums    []enumSpec
	messages []messageSpec
	services []serviceSpec
}

var crud = []string{"List", "Get", "Create", "Update", "Delete"}

var files = []fileSpec{
	{
		path: "fulfillment/v1/types.proto",
		pkg:  "fulfillment.v1",
		enums: []enumSpec{
			{name: "ClusterState", values: []string{"PROGRESSING", "READY", "FAILED"}},
			{name: "ClusterConditionType", values: []string{"PROGRESSING", "READY", "FAILED", "DEGRADED"}},
			{name: "ConditionStatus", values: []string{"TRUE", "FALSE", "UNKNOWN"}},
			{name: "HostPowerState", values: []string{"ON", "OFF"}},
		},
		messages: []messageSpec{
			{name: "Metadata", doc: "Common object metadata.", fields: []fieldSpec{
				field(1, "creation_timestamp", timestampType),
				repeated(2, "creators", "string"),
				field(3, "deletion_timestamp", timestampType),
			}},
			{name: "NodeSet", fields: []fieldSpec{
				field(1, "host_class", "string"),
				field(2, "size", "int32"),
			}},
			{name: "ParameterDefinition", doc: "An input accepted by a cluster template.", fields: []fieldSpec{
				field(1, "name", "string"),
				field(2, "title", "string"),
				field(3, "description", "string"),
				field(4, "required", "bool"),
				field(5, "type", "string"),
				field(6, "default", anyType),
			}},
			{name: "ClusterTemplate", fields: []fieldSpec{
				field(1, "id", "string"),
				field(2, "metadata", "fulfillment.v1.Metadata"),
				field(3, "title", "string"),
				field(4, "description", "string"),
				repeated(5, "parameters", "fulfillment.v1.ParameterDefinition"),
				mapOf(6, "node_sets", "fulfillment.v1.NodeSet"),
			}},
			{name: "ClusterSpec", fields: []fieldSpec{
				field(1, "template", "string"),
				mapOf(2, "template_parameters", anyType),
				mapOf(3, "node_sets", "fulfillment.v1.NodeSet"),
			}},
			{name: "ClusterCondition", fields: []fieldSpec{
				field(1, "type", "fulfillment.v1.ClusterConditionType"),
				field(2, "status", "fulfillment.v1.ConditionStatus"),
				field(3, "last_transition_time", timestampType),
				field(4, "reason", "string"),
				field(5, "message", "string"),
			}},
			{name: "ClusterStatus", fields: []fieldSpec{
				field(1, "state", "fulfillment.v1.ClusterState"),
				repeated(2, "conditions", "fulfillment.v1.ClusterCondition"),
				field(3, "api_url", "string"),
				field(4, "console_url", "string"),
				mapOf(5, "node_sets", "fulfillment.v1.NodeSet"),
				field(6, "hub", "string"),
			}},
			{name: "Cluster", fields: []fieldSpec{
				field(1, "id", "string"),
				field(2, "metadata", "fulfillment.v1.Metadata"),
				field(3, "spec", "fulfillment.v1.ClusterSpec"),
				field(4, "status", "fulfillment.v1.ClusterStatus"),
			}},
			{name: "HostSpec", fields: []fieldSpec{
				field(1, "power_state", "fulfillment.v1.HostPowerState"),
				field(2, "host_class", "string"),
			}},
			{name: "HostStatus", fields: []fieldSpec{
				field(1, "power_state", "fulfillment.v1.HostPowerState"),
				field(2, "hub", "string"),
			}},
			{name: "Host", fields: []fieldSpec{
				field(1, "id", "string"),
				field(2, "metadata", "fulfillment.v1.Metadata"),
				field(3, "spec", "fulfillment.v1.HostSpec"),
				field(4, "status", "fulfillment.v1.HostStatus"),
			}},
		},
	},
	{
		path:     "fulfillment/v1/clusters_service.proto",
		pkg:      "fulfillment.v1",
		deps:     []string{"fulfillment/v1/types.proto"},
		services: []serviceSpec{{name: "Clusters", object: "fulfillment.v1.Cluster", methods: crud}},
	},
	{
		path:     "fulfillment/v1/cluster_templates_service.proto",
		pkg:      "fulfillment.v1",
		deps:     []string{"fulfillment/v1/types.proto"},
		services: []serviceSpec{{name: "ClusterTemplates", object: "fulfillment.v1.ClusterTemplate", methods: []string{"List", "Get"}}},
	},
	{
		path:     "fulfillment/v1/hosts_service.proto",
		pkg:      "fulfillment.v1",
		deps:     []string{"fulfillment/v1/types.proto"},
		services: []serviceSpec{{name: "Hosts", object: "fulfillment.v1.Host", methods: crud}},
	},
	{
		path: "private/v1/hubs_service.proto",
		pkg:  "private.v1",
		deps: []string{"fulfillment/v1/types.proto"},
		messages: []messageSpec{
			{name: "Hub", doc: "A management cluster that hosts fulfilled clusters.", fields: []fieldSpec{
				field(1, "id", "string"),
				field(2, "metadata", "fulfillment.v1.Metadata"),
				field(3, "kubeconfig", "bytes"),
				field(4, "namespace", "string"),
			}},
		},
		services: []serviceSpec{{name: "Hubs", object: "private.v1.Hub", methods: crud}},
	},
}

// methodMessages returns the request and response messages of one method.
// Every service uses the same envelope shapes around its object type.
func methodMessages(service protoreflect.Name, method, object string) (req, resp messageSpec) {
	req = messageSpec{name: nameRequest(service, method)}
	resp = messageSpec{name: nameResponse(service, method)}
	switch method {
	case "List":
		req.fields = []fieldSpec{
			field(1, "offset", "int32"),
			field(2, "limit", "int32"),
			field(3, "filter", "string"),
		}
		resp.fields = []fieldSpec{
			field(1, "size", "int32"),
			field(2, "total", "int32"),
			repeated(3, "items", object),
		}
	case "Get":
		req.fields = []fieldSpec{field(1, "id", "string")}
		resp.fields = []fieldSpec{field(1, "object", object)}
	case "Create", "Update":
		req.fields = []fieldSpec{field(1, "object", object)}
		resp.fields = []fieldSpec{field(1, "object", object)}
	case "Delete":
		req.fields = []fieldSpec{field(1, "id", "string")}
	}
	return req, resp
}
