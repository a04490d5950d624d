package fulfillment

import (
	"fmt"
	"time"

	"github.com/innabox/fulfillment-console/internal/wire"
)

// Cluster is a cluster fulfilled from a ClusterTemplate.
//
//	message Cluster {
//	  string id = 1;
//	  Metadata metadata = 2;
//	  ClusterSpec spec = 3;
//	  ClusterStatus status = 4;
//	}
type Cluster struct {
	ID       string         `json:"id,omitempty"`
	Metadata *Metadata      `json:"metadata,omitempty"`
	Spec     *ClusterSpec   `json:"spec,omitempty"`
	Status   *ClusterStatus `json:"status,omitempty"`
}

//	message ClusterSpec {
//	  string template = 1;
//	  map<string, google.protobuf.Any> template_parameters = 2;
//	  map<string, NodeSet> node_sets = 3;
//	}
type ClusterSpec struct {
	Template           string             `json:"template,omitempty"`
	TemplateParameters map[string]Value   `json:"templateParameters,omitempty"`
	NodeSets           map[string]NodeSet `json:"nodeSets,omitempty"`
}

//	message ClusterStatus {
//	  ClusterState state = 1;
//	  repeated ClusterCondition conditions = 2;
//	  string api_url = 3;
//	  string console_url = 4;
//	  map<string, NodeSet> node_sets = 5;
//	  string hub = 6;
//	}
type ClusterStatus struct {
	State      ClusterState       `json:"state,omitempty"`
	Conditions []ClusterCondition `json:"conditions,omitempty"`
	APIURL     string             `json:"apiUrl,omitempty"`
	ConsoleURL string             `json:"consoleUrl,omitempty"`
	NodeSets   map[string]NodeSet `json:"nodeSets,omitempty"`
	Hub        string             `json:"hub,omitempty"`
}

//	message ClusterCondition {
//	  ClusterConditionType type = 1;
//	  ConditionStatus status = 2;
//	  google.protobuf.Timestamp last_transition_time = 3;
//	  string reason = 4;
//	  string message = 5;
//	}
type ClusterCondition struct {
	Type               ClusterConditionType `json:"type,omitempty"`
	Status             ConditionStatus      `json:"status,omitempty"`
	LastTransitionTime *time.Time           `json:"lastTransitionTime,omitempty"`
	Reason             string               `json:"reason,omitempty"`
	Message            string               `json:"message,omitempty"`
}

func EncodeCluster(c *Cluster) ([]byte, error) {
	w := wire.NewWriter()
	w.WriteString(1, c.ID)
	w.WriteMessage(2, EncodeMetadata(c.Metadata))
	if c.Spec != nil {
		sb, err := EncodeClusterSpec(c.Spec)
		if err != nil {
			return nil, err
		}
		w.WriteMessage(3, sb)
	}
	if c.Status != nil {
		sb, err := EncodeClusterStatus(c.Status)
		if err != nil {
			return nil, err
		}
		w.WriteMessage(4, sb)
	}
	return w.Bytes(), nil
}

func DecodeCluster(b []byte) (*Cluster, error) {
	c := &Cluster{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.BytesType):
			c.ID, err = r.ReadString()
		case wire.T(2, wire.BytesType):
			c.Metadata, err = readMessage(r, DecodeMetadata)
		case wire.T(3, wire.BytesType):
			c.Spec, err = readMessage(r, DecodeClusterSpec)
		case wire.T(4, wire.BytesType):
			c.Status, err = readMessage(r, DecodeClusterStatus)
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode Cluster: %w", err)
	}
	return c, nil
}

func EncodeClusterSpec(s *ClusterSpec) ([]byte, error) {
	w := wire.NewWriter()
	w.WriteString(1, s.Template)
	if err := writeMap(w, 2, s.TemplateParameters, encodeValue); err != nil {
		return nil, fmt.Errorf("template parameters: %w", err)
	}
	if err := writeMap(w, 3, s.NodeSets, encodeNodeSet); err != nil {
		return nil, fmt.Errorf("node sets: %w", err)
	}
	return w.Bytes(), nil
}

func DecodeClusterSpec(b []byte) (*ClusterSpec, error) {
	s := &ClusterSpec{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.BytesType):
			s.Template, err = r.ReadString()
		case wire.T(2, wire.BytesType):
			var (
				key string
				v   Value
			)
			if key, v, err = readMapEntry(r, decodeValue); err == nil {
				if s.TemplateParameters == nil {
					s.TemplateParameters = map[string]Value{}
				}
				s.TemplateParameters[key] = v
			}
		case wire.T(3, wire.BytesType):
			s.NodeSets, err = readNodeSetEntry(r, s.NodeSets)
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode ClusterSpec: %w", err)
	}
	return s, nil
}

func EncodeClusterStatus(s *ClusterStatus) ([]byte, error) {
	w := wire.NewWriter()
	w.WriteEnum(1, int32(s.State))
	for i := range s.Conditions {
		w.WriteMessage(2, EncodeClusterCondition(&s.Conditions[i]))
	}
	w.WriteString(3, s.APIURL)
	w.WriteString(4, s.ConsoleURL)
	if err := writeMap(w, 5, s.NodeSets, encodeNodeSet); err != nil {
		return nil, fmt.Errorf("node sets: %w", err)
	}
	w.WriteString(6, s.Hub)
	return w.Bytes(), nil
}

func DecodeClusterStatus(b []byte) (*ClusterStatus, error) {
	s := &ClusterStatus{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.VarintType):
			var v int32
			v, err = r.ReadInt32()
			s.State = ClusterState(v)
		case wire.T(2, wire.BytesType):
			var c *ClusterCondition
			if c, err = readMessage(r, DecodeClusterCondition); err == nil {
				s.Conditions = append(s.Conditions, *c)
			}
		case wire.T(3, wire.BytesType):
			s.APIURL, err = r.ReadString()
		case wire.T(4, wire.BytesType):
			s.ConsoleURL, err = r.ReadString()
		case wire.T(5, wire.BytesType):
			s.NodeSets, err = readNodeSetEntry(r, s.NodeSets)
		case wire.T(6, wire.BytesType):
			s.Hub, err = r.ReadString()
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode ClusterStatus: %w", err)
	}
	return s, nil
}

func EncodeClusterCondition(c *ClusterCondition) []byte {
	w := wire.NewWriter()
	w.WriteEnum(1, int32(c.Type))
	w.WriteEnum(2, int32(c.Status))
	if c.LastTransitionTime != nil {
		w.WriteMessage(3, EncodeTimestamp(*c.LastTransitionTime))
	}
	w.WriteString(4, c.Reason)
	w.WriteString(5, c.Message)
	return w.Bytes()
}

func DecodeClusterCondition(b []byte) (*ClusterCondition, error) {
	c := &ClusterCondition{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.VarintType):
			var v int32
			v, err = r.ReadInt32()
			c.Type = ClusterConditionType(v)
		case wire.T(2, wire.VarintType):
			var v int32
			v, err = r.ReadInt32()
			c.Status = ConditionStatus(v)
		case wire.T(3, wire.BytesType):
			c.LastTransitionTime, err = readMessage(r, DecodeTimestamp)
		case wire.T(4, wire.BytesType):
			c.Reason, err = r.ReadString()
		case wire.T(5, wire.BytesType):
			c.Message, err = r.ReadString()
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode ClusterCondition: %w", err)
	}
	return c, nil
}

// readNodeSetEntry reads one map<string, NodeSet> entry into m, allocating it on first use.
func readNodeSetEntry(r *wire.Reader, m map[string]NodeSet) (map[string]NodeSet, error) {
	key, ns, err := readMapEntry(r, decodeNodeSetValue)
	if err != nil {
		return m, err
	}
	if m == nil {
		m = map[string]NodeSet{}
	}
	m[key] = ns
	return m, nil
}
