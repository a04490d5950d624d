package fulfillment

import (
	"fmt"

	"github.com/innabox/fulfillment-console/internal/wire"
)

// Host is a bare-metal host managed by the fulfillment service.
//
//	message Host {
//	  string id = 1;
//	  Metadata metadata = 2;
//	  HostSpec spec = 3;
//	  HostStatus status = 4;
//	}
//	message HostSpec { HostPowerState power_state = 1; string host_class = 2; }
//	message HostStatus { HostPowerState power_state = 1; string hub = 2; }
type Host struct {
	ID       string      `json:"id,omitempty"`
	Metadata *Metadata   `json:"metadata,omitempty"`
	Spec     *HostSpec   `json:"spec,omitempty"`
	Status   *HostStatus `json:"status,omitempty"`
}

type HostSpec struct {
	PowerState HostPowerState `json:"powerState,omitempty"`
	HostClass  string         `json:"hostClass,omitempty"`
}

type HostStatus struct {
	PowerState HostPowerState `json:"powerState,omitempty"`
	Hub        string         `json:"hub,omitempty"`
}

func EncodeHost(h *Host) ([]byte, error) {
	w := wire.NewWriter()
	w.WriteString(1, h.ID)
	w.WriteMessage(2, EncodeMetadata(h.Metadata))
	if h.Spec != nil {
		sw := wire.NewWriter()
		sw.WriteEnum(1, int32(h.Spec.PowerState))
		sw.WriteString(2, h.Spec.HostClass)
		w.WriteMessage(3, sw.Bytes())
	}
	if h.Status != nil {
		sw := wire.NewWriter()
		sw.WriteEnum(1, int32(h.Status.PowerState))
		sw.WriteString(2, h.Status.Hub)
		w.WriteMessage(4, sw.Bytes())
	}
	return w.Bytes(), nil
}

func DecodeHost(b []byte) (*Host, error) {
	h := &Host{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.BytesType):
			h.ID, err = r.ReadString()
		case wire.T(2, wire.BytesType):
			h.Metadata, err = readMessage(r, DecodeMetadata)
		case wire.T(3, wire.BytesType):
			h.Spec, err = readMessage(r, decodeHostSpec)
		case wire.T(4, wire.BytesType):
			h.Status, err = readMessage(r, decodeHostStatus)
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode Host: %w", err)
	}
	return h, nil
}

func decodeHostSpec(b []byte) (*HostSpec, error) {
	s := &HostSpec{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.VarintType):
			var v int32
			v, err = r.ReadInt32()
			s.PowerState = HostPowerState(v)
		case wire.T(2, wire.BytesType):
			s.HostClass, err = r.ReadString()
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode HostSpec: %w", err)
	}
	return s, nil
}

func decodeHostStatus(b []byte) (*HostStatus, error) {
	s := &HostStatus{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.VarintType):
			var v int32
			v, err = r.ReadInt32()
			s.PowerState = HostPowerState(v)
		case wire.T(2, wire.BytesType):
			s.Hub, err = r.ReadString()
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode HostStatus: %w", err)
	}
	return s, nil
}
