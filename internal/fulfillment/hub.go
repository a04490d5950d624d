package fulfillment

import (
	"fmt"

	"github.com/innabox/fulfillment-console/internal/wire"
)

// Hub is a management cluster that hosts fulfilled clusters.
//
//	message Hub {
//	  string id = 1;
//	  Metadata metadata = 2;
//	  bytes kubeconfig = 3;
//	  string namespace = 4;
//	}
//
// Kubeconfig is kept base64 encoded at this boundary.
type Hub struct {
	ID         string    `json:"id,omitempty"`
	Metadata   *Metadata `json:"metadata,omitempty"`
	Kubeconfig string    `json:"kubeconfig,omitempty"`
	Namespace  string    `json:"namespace,omitempty"`
}

func EncodeHub(h *Hub) ([]byte, error) {
	kubeconfig, err := base64ToBytes(h.Kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKubeconfig, err)
	}
	w := wire.NewWriter()
	w.WriteString(1, h.ID)
	w.WriteMessage(2, EncodeMetadata(h.Metadata))
	w.WriteBytes(3, kubeconfig)
	w.WriteString(4, h.Namespace)
	return w.Bytes(), nil
}

func DecodeHub(b []byte) (*Hub, error) {
	h := &Hub{}
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		var err error
		switch tag {
		case wire.T(1, wire.BytesType):
			h.ID, err = r.ReadString()
		case wire.T(2, wire.BytesType):
			h.Metadata, err = readMessage(r, DecodeMetadata)
		case wire.T(3, wire.BytesType):
			var raw []byte
			raw, err = r.ReadBytes()
			h.Kubeconfig = bytesToBase64(raw)
		case wire.T(4, wire.BytesType):
			h.Namespace, err = r.ReadString()
		default:
			err = r.Skip(tag.Type)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode Hub: %w", err)
	}
	return h, nil
}
