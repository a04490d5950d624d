// Package api exposes one typed client per fulfillment service on top of a
// gRPC-Web Invoker.
package api

import (
	"github.com/innabox/fulfillment-console/internal/fulfillment"
	"github.com/innabox/fulfillment-console/internal/grpcweb"
)

const (
	HubsService             = "private.v1.Hubs"
	ClustersService         = "fulfillment.v1.Clusters"
	ClusterTemplatesService = "fulfillment.v1.ClusterTemplates"
	HostsService            = "fulfillment.v1.Hosts"
)

// Client bundles the services of the fulfillment API.
type Client struct {
	Hubs             *Resource[fulfillment.Hub]
	Clusters         *Resource[fulfillment.Cluster]
	Hosts            *Resource[fulfillment.Host]
	ClusterTemplates *Reader[fulfillment.ClusterTemplate]
}

// New returns a Client issuing every call through inv.
func New(inv grpcweb.Invoker) *Client {
	return &Client{
		Hubs: NewResource(inv, HubsService, "hub", Codec[fulfillment.Hub]{
			Encode: fulfillment.EncodeHub,
			Decode: fulfillment.DecodeHub,
		}),
		Clusters: NewResource(inv, ClustersService, "cluster", Codec[fulfillment.Cluster]{
			Encode: fulfillment.EncodeCluster,
			Decode: fulfillment.DecodeCluster,
		}),
		Hosts: NewResource(inv, HostsService, "host", Codec[fulfillment.Host]{
			Encode: fulfillment.EncodeHost,
			Decode: fulfillment.DecodeHost,
		}),
		ClusterTemplates: NewReader(inv, ClusterTemplatesService, "cluster template", fulfillment.DecodeClusterTemplate),
	}
}
