package api

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/innabox/fulfillment-console/internal/fulfillment"
	"github.com/innabox/fulfillment-console/internal/grpcweb"
	"github.com/innabox/fulfillment-console/internal/grpcweb/grpcwebtest"
	"github.com/innabox/fulfillment-console/internal/wire"
)

func ptr[T any](v T) *T { return &v }

func mustEncode[T any](t *testing.T, enc func(*T) ([]byte, error), v *T) []byte {
	t.Helper()
	b, err := enc(v)
	require.NoError(t, err)
	return b
}

func listResponse(size, total int32, items ...[]byte) []byte {
	w := wire.NewWriter()
	w.WriteInt32(1, &size)
	w.WriteInt32(2, &total)
	for _, it := range items {
		w.WriteMessage(3, it)
	}
	return w.Bytes()
}

func TestHubsList(t *testing.T) {
	h1 := &fulfillment.Hub{ID: "h1", Namespace: "ns1", Kubeconfig: "a3ViZWNvbmZpZw=="}
	h2 := &fulfillment.Hub{ID: "h2"}
	mock := grpcwebtest.NewMockInvoker(listResponse(2, 7,
		mustEncode(t, fulfillment.EncodeHub, h1),
		mustEncode(t, fulfillment.EncodeHub, h2),
	))
	c := New(mock)

	resp, err := c.Hubs.List(context.Background(), fulfillment.ListRequest{Limit: ptr(int32(2)), Filter: "x"})
	require.NoError(t, err)
	require.Equal(t, int32(7), *resp.Total)
	if diff := cmp.Diff([]fulfillment.Hub{*h1, *h2}, resp.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}

	calls := mock.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "/private.v1.Hubs/List", calls[0].FullMethod())
	require.Equal(t, fulfillment.EncodeListRequest(fulfillment.ListRequest{Limit: ptr(int32(2)), Filter: "x"}), calls[0].Request)
}

func TestGetSendsIDAndDecodesObject(t *testing.T) {
	host := &fulfillment.Host{
		ID:   "host-1",
		Spec: &fulfillment.HostSpec{PowerState: fulfillment.HostPowerStateOn, HostClass: "gpu"},
	}
	mock := grpcwebtest.NewMockInvoker(fulfillment.EncodeObjectRequest(mustEncode(t, fulfillment.EncodeHost, host)))
	c := New(mock)

	got, err := c.Hosts.Get(context.Background(), "host-1")
	require.NoError(t, err)
	if diff := cmp.Diff(host, got); diff != "" {
		t.Fatalf("host mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "/fulfillment.v1.Hosts/Get", mock.Calls()[0].FullMethod())
	require.Equal(t, fulfillment.EncodeIDRequest("host-1"), mock.Calls()[0].Request)
}

func TestGetWithoutObject(t *testing.T) {
	c := New(grpcwebtest.NewMockInvoker([]byte{}))
	_, err := c.Hubs.Get(context.Background(), "h1")
	require.ErrorIs(t, err, ErrMissingObject)
	require.EqualError(t, err, `get hub "h1": api: response has no object`)
}

func TestStatusErrorsAreWrappedNotReplaced(t *testing.T) {
	mock := grpcwebtest.NewMockInvokerWithErrors(nil, []error{status.Error(codes.NotFound, "cluster c1 not found")})
	c := New(mock)

	_, err := c.Clusters.Get(context.Background(), "c1")
	require.Equal(t, codes.NotFound, status.Code(err))
	require.Contains(t, err.Error(), `get cluster "c1"`)
}

func TestTransportErrorsPropagate(t *testing.T) {
	mock := grpcwebtest.NewMockInvokerWithErrors(nil, []error{grpcweb.ErrUnauthenticated})
	c := New(mock)

	_, err := c.ClusterTemplates.List(context.Background(), fulfillment.ListRequest{})
	require.ErrorIs(t, err, grpcweb.ErrUnauthenticated)
	require.Contains(t, err.Error(), "list cluster templates")
}

func TestDecodeErrorsPropagate(t *testing.T) {
	c := New(grpcwebtest.NewMockInvoker([]byte{0x1a, 0x05, 0x0a}))
	_, err := c.ClusterTemplates.List(context.Background(), fulfillment.ListRequest{})
	require.ErrorIs(t, err, wire.ErrTruncated)
}

func TestCreateAndUpdate(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	in := &fulfillment.Cluster{Spec: &fulfillment.ClusterSpec{
		Template:           "ocp-small",
		TemplateParameters: map[string]fulfillment.Value{"replicas": fulfillment.Int32Value(3)},
	}}
	out := &fulfillment.Cluster{
		ID:       "c1",
		Metadata: &fulfillment.Metadata{CreationTimestamp: &created},
		Spec:     in.Spec,
		Status:   &fulfillment.ClusterStatus{State: fulfillment.ClusterStateProgressing},
	}
	resp := fulfillment.EncodeObjectRequest(mustEncode(t, fulfillment.EncodeCluster, out))
	mock := grpcwebtest.NewMockInvoker(resp, resp)
	c := New(mock)

	got, err := c.Clusters.Create(context.Background(), in)
	require.NoError(t, err)
	if diff := cmp.Diff(out, got); diff != "" {
		t.Fatalf("created cluster mismatch (-want +got):\n%s", diff)
	}
	_, err = c.Clusters.Update(context.Background(), out)
	require.NoError(t, err)

	calls := mock.Calls()
	require.Equal(t, "/fulfillment.v1.Clusters/Create", calls[0].FullMethod())
	require.Equal(t, fulfillment.EncodeObjectRequest(mustEncode(t, fulfillment.EncodeCluster, in)), calls[0].Request)
	require.Equal(t, "/fulfillment.v1.Clusters/Update", calls[1].FullMethod())
	require.Equal(t, resp, calls[1].Request)
}

func TestCreateInvalidObjectSendsNothing(t *testing.T) {
	mock := grpcwebtest.NewMockInvoker()
	c := New(mock)

	_, err := c.Hubs.Create(context.Background(), &fulfillment.Hub{Kubeconfig: "not base64!"})
	require.ErrorIs(t, err, fulfillment.ErrInvalidKubeconfig)
	require.Empty(t, mock.Calls())
}

func TestDelete(t *testing.T) {
	mock := grpcwebtest.NewMockInvoker(nil)
	c := New(mock)

	require.NoError(t, c.Hubs.Delete(context.Background(), "h1"))
	require.Equal(t, "/private.v1.Hubs/Delete", mock.Calls()[0].FullMethod())
	require.Equal(t, fulfillment.EncodeIDRequest("h1"), mock.Calls()[0].Request)
}

func TestServiceNames(t *testing.T) {
	c := New(grpcwebtest.NewMockInvoker())
	require.Equal(t, HubsService, c.Hubs.Service())
	require.Equal(t, ClustersService, c.Clusters.Service())
	require.Equal(t, HostsService, c.Hosts.Service())
	require.Equal(t, ClusterTemplatesService, c.ClusterTemplates.Service())
}

func TestEndToEndOverGRPCWeb(t *testing.T) {
	tmpl := &fulfillment.ClusterTemplate{
		ID:    "ocp-small",
		Title: "Small OpenShift",
		NodeSets: map[string]fulfillment.NodeSet{
			"workers": {HostClass: "gpu", Size: ptr(int32(3))},
		},
	}
	srv := grpcwebtest.NewServer(t)
	srv.Handle(ClusterTemplatesService, "Get", func(_ context.Context, req []byte) ([]byte, error) {
		r := wire.NewReader(req)
		var id string
		err := r.Fields(func(tag wire.Tag) error {
			if tag == wire.T(1, wire.BytesType) {
				var err error
				id, err = r.ReadString()
				return err
			}
			return r.Skip(tag.Type)
		})
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		if id != tmpl.ID {
			return nil, status.Errorf(codes.NotFound, "template %s not found", id)
		}
		b, err := fulfillment.EncodeClusterTemplate(tmpl)
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		return fulfillment.EncodeObjectRequest(b), nil
	})
	c := New(grpcweb.New(
		grpcweb.WithConfigSource(grpcweb.NewHTTPConfigSource(srv.URL, srv.Client())),
		grpcweb.WithHTTPClient(srv.Client()),
		grpcweb.WithStaticToken("tok"),
	))

	got, err := c.ClusterTemplates.Get(context.Background(), "ocp-small")
	require.NoError(t, err)
	if diff := cmp.Diff(tmpl, got); diff != "" {
		t.Fatalf("template mismatch (-want +got):\n%s", diff)
	}

	_, err = c.ClusterTemplates.Get(context.Background(), "other")
	require.Equal(t, codes.NotFound, status.Code(err))
	require.ErrorContains(t, err, "template other not found")
	require.ErrorContains(t, err, `get cluster template "other"`)
}
