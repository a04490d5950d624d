package fulfillment

import (
	"fmt"

	"github.com/innabox/fulfillment-console/internal/wire"
)

// NodeSet is a group of hosts of one class.
//
//	message NodeSet {
//	  string host_class = 1;
//	  int32 size = 2;
//	}
type NodeSet struct {
	HostClass string `json:"hostClass,omitempty"`
	Size      *int32 `json:"size,omitempty"`
}

func EncodeNodeSet(n NodeSet) []byte {
	w := wire.NewWriter()
	w.WriteString(1, n.HostClass)
	w.WriteInt32(2, n.Size)
	return w.Bytes()
}

func DecodeNodeSet(b []byte) (*NodeSet, error) {
	n := &NodeSet{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.BytesType):
			n.HostClass, err = r.ReadString()
		case wire.T(2, wire.VarintType):
			var size int32
			size, err = r.ReadInt32()
			n.Size = &size
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode NodeSet: %w", err)
	}
	return n, nil
}

func encodeNodeSet(n NodeSet) ([]byte, error) { return EncodeNodeSet(n), nil }

func decodeNodeSetValue(b []byte) (NodeSet, error) {
	n, err := DecodeNodeSet(b)
	if err != nil {
		return NodeSet{}, err
	}
	return *n, nil
}

// ParameterDefinition describes one input accepted by a cluster template.
//
//	message ParameterDefinition {
//	  string name = 1;
//	  string title = 2;
//	  string description = 3;
//	  bool required = 4;
//	  string type = 5;
//	  google.protobuf.Any default = 6;
//	}
type ParameterDefinition struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Type        string `json:"type,omitempty"`
	Default     *Value `json:"default,omitempty"`
}

func EncodeParameterDefinition(p *ParameterDefinition) ([]byte, error) {
	if p.Name == "" {
		return nil, ErrMissingName
	}
	w := wire.NewWriter()
	w.WriteString(1, p.Name)
	w.WriteString(2, p.Title)
	w.WriteString(3, p.Description)
	w.WriteBool(4, p.Required)
	w.WriteString(5, p.Type)
	if p.Default != nil {
		w.WriteMessage(6, EncodeAny(*p.Default))
	}
	return w.Bytes(), nil
}

func DecodeParameterDefinition(b []byte) (*ParameterDefinition, error) {
	p := &ParameterDefinition{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.BytesType):
			p.Name, err = r.ReadString()
		case wire.T(2, wire.BytesType):
			p.Title, err = r.ReadString()
		case wire.T(3, wire.BytesType):
			p.Description, err = r.ReadString()
		case wire.T(4, wire.VarintType):
			p.Required, err = r.ReadBool()
		case wire.T(5, wire.BytesType):
			p.Type, err = r.ReadString()
		case wire.T(6, wire.BytesType):
			p.Default, err = readMessage(r, DecodeAny)
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode ParameterDefinition: %w", err)
	}
	return p, nil
}

// ClusterTemplate is a blueprint clusters are created from.
//
//	message ClusterTemplate {
//	  string id = 1;
//	  Metadata metadata = 2;
//	  string title = 3;
//	  string description = 4;
//	  repeated ParameterDefinition parameters = 5;
//	  map<string, NodeSet> node_sets = 6;
//	}
type ClusterTemplate struct {
	ID          string                `json:"id,omitempty"`
	Metadata    *Metadata             `json:"metadata,omitempty"`
	Title       string                `json:"title,omitempty"`
	Description string                `json:"description,omitempty"`
	Parameters  []ParameterDefinition `json:"parameters,omitempty"`
	NodeSets    map[string]NodeSet    `json:"nodeSets,omitempty"`
}

func EncodeClusterTemplate(t *ClusterTemplate) ([]byte, error) {
	w := wire.NewWriter()
	w.WriteString(1, t.ID)
	w.WriteMessage(2, EncodeMetadata(t.Metadata))
	w.WriteString(3, t.Title)
	w.WriteString(4, t.Description)
	for i := range t.Parameters {
		pb, err := EncodeParameterDefinition(&t.Parameters[i])
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		w.WriteMessage(5, pb)
	}
	if err := writeMap(w, 6, t.NodeSets, encodeNodeSet); err != nil {
		return nil, fmt.Errorf("node sets: %w", err)
	}
	return w.Bytes(), nil
}

func DecodeClusterTemplate(b []byte) (*ClusterTemplate, error) {
	t := &ClusterTemplate{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.BytesType):
			t.ID, err = r.ReadString()
		case wire.T(2, wire.BytesType):
			t.Metadata, err = readMessage(r, DecodeMetadata)
		case wire.T(3, wire.BytesType):
			t.Title, err = r.ReadString()
		case wire.T(4, wire.BytesType):
			t.Description, err = r.ReadString()
		case wire.T(5, wire.BytesType):
			var p *ParameterDefinition
			if p, err = readMessage(r, DecodeParameterDefinition); err == nil {
				t.Parameters = append(t.Parameters, *p)
			}
		case wire.T(6, wire.BytesType):
			t.NodeSets, err = readNodeSetEntry(r, t.NodeSets)
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode ClusterTemplate: %w", err)
	}
	return t, nil
}
