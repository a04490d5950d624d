package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/innabox/fulfillment-console/internal/api"
	"github.com/innabox/fulfillment-console/internal/config"
	"github.com/innabox/fulfillment-console/internal/fulfillment"
	"github.com/innabox/fulfillment-console/internal/grpcweb/grpcwebtest"
	"github.com/innabox/fulfillment-console/internal/wire"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvToken, config.EnvConsoleURL, config.EnvAPIURL, config.EnvGRPCAddr} {
		t.Setenv(k, "")
	}
}

const testToken = "test-token"

// execute runs the CLI with a clean environment holding only a bearer token.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	clearEnv(t)
	t.Setenv(config.EnvToken, testToken)
	return runCLI(args...)
}

func runCLI(args ...string) (stdout, stderr string, err error) {
	var out, errb bytes.Buffer
	err = run(context.Background(), args, &out, &errb)
	return out.String(), errb.String(), err
}

func hubServer(t *testing.T, hubs ...fulfillment.Hub) *grpcwebtest.Server {
	t.Helper()
	byID := make(map[string][]byte, len(hubs))
	var items [][]byte
	for i := range hubs {
		b, err := fulfillment.EncodeHub(&hubs[i])
		require.NoError(t, err)
		byID[hubs[i].ID] = b
		items = append(items, b)
	}
	srv := grpcwebtest.NewServer(t)
	srv.Handle(api.HubsService, "Get", func(_ context.Context, req []byte) ([]byte, error) {
		id, err := decodeID(req)
		if err != nil {
			return nil, err
		}
		b, ok := byID[id]
		if !ok {
			return nil, status.Errorf(codes.NotFound, "hub %s not found", id)
		}
		return fulfillment.EncodeObjectRequest(b), nil
	})
	srv.Handle(api.HubsService, "List", func(context.Context, []byte) ([]byte, error) {
		w := wire.NewWriter()
		size := int32(len(items))
		w.WriteInt32(1, &size)
		w.WriteInt32(2, &size)
		for _, it := range items {
			w.WriteMessage(3, it)
		}
		return w.Bytes(), nil
	})
	srv.Handle(api.HubsService, "Delete", func(context.Context, []byte) ([]byte, error) {
		return nil, nil
	})
	return srv
}

func decodeID(b []byte) (string, error) {
	var id string
	r := wire.NewReader(b)
	err := r.Fields(func(tag wire.Tag) error {
		if tag == wire.T(1, wire.BytesType) {
			var err error
			id, err = r.ReadString()
			return err
		}
		return r.Skip(tag.Type)
	})
	return id, err
}

func TestGetPrintsJSON(t *testing.T) {
	srv := hubServer(t, fulfillment.Hub{ID: "h1", Namespace: "ns1"})

	out, _, err := execute(t, "--api-url", srv.URL, "-o", "json", "hubs", "get", "h1")
	require.NoError(t, err)

	var got fulfillment.Hub
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, fulfillment.Hub{ID: "h1", Namespace: "ns1"}, got)
}

func TestGetPrintsYAMLByDefault(t *testing.T) {
	srv := hubServer(t, fulfillment.Hub{ID: "h1", Namespace: "ns1"})

	out, _, err := execute(t, "--api-url", srv.URL, "hubs", "get", "h1")
	require.NoError(t, err)
	require.Contains(t, out, "id: h1")
	require.Contains(t, out, "namespace: ns1")
}

func TestGetManyKeepsArgumentOrder(t *testing.T) {
	srv := hubServer(t,
		fulfillment.Hub{ID: "a"}, fulfillment.Hub{ID: "b"}, fulfillment.Hub{ID: "c"})

	out, _, err := execute(t, "--api-url", srv.URL, "-o", "json", "hubs", "get", "c", "a", "b")
	require.NoError(t, err)

	var got []fulfillment.Hub
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, []fulfillment.Hub{{ID: "c"}, {ID: "a"}, {ID: "b"}}, got)
}

func TestGetNotFoundKeepsStatus(t *testing.T) {
	srv := hubServer(t)

	_, _, err := execute(t, "--api-url", srv.URL, "hubs", "get", "missing")
	require.Error(t, err)
	require.Equal(t, codes.NotFound, status.Code(err))
	require.Contains(t, err.Error(), `get hub "missing"`)
}

func TestListSendsPagingFlags(t *testing.T) {
	srv := hubServer(t, fulfillment.Hub{ID: "h1"}, fulfillment.Hub{ID: "h2"})

	out, _, err := execute(t, "--api-url", srv.URL, "-o", "json", "hubs", "list", "--limit", "2", "--filter", "x")
	require.NoError(t, err)

	var got fulfillment.ListResponse[fulfillment.Hub]
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Items, 2)
	require.Equal(t, int32(2), *got.Total)

	limit := int32(2)
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	require.Equal(t, "/private.v1.Hubs/List", reqs[0].Path)
	require.Equal(t, fulfillment.EncodeListRequest(fulfillment.ListRequest{Limit: &limit, Filter: "x"}), reqs[0].Message)
}

func TestConsoleURLDiscoversAPI(t *testing.T) {
	srv := hubServer(t, fulfillment.Hub{ID: "h1"}, fulfillment.Hub{ID: "h2"})

	_, _, err := execute(t, "--console-url", srv.URL, "hubs", "get", "h1", "h2")
	require.NoError(t, err)
	require.Equal(t, int32(1), srv.ConfigHits.Load())
	require.Len(t, srv.Requests(), 2)
}

func TestTokenIsSentAsBearer(t *testing.T) {
	srv := hubServer(t, fulfillment.Hub{ID: "h1"})

	_, _, err := execute(t, "--api-url", srv.URL, "--token", "tok", "hubs", "get", "h1")
	require.NoError(t, err)
	require.Equal(t, "Bearer tok", srv.Requests()[0].Header.Get("Authorization"))
}

func TestTokenFromEnvironment(t *testing.T) {
	srv := hubServer(t, fulfillment.Hub{ID: "h1"})

	_, _, err := execute(t, "--api-url", srv.URL, "hubs", "get", "h1")
	require.NoError(t, err)
	require.Equal(t, "Bearer "+testToken, srv.Requests()[0].Header.Get("Authorization"))
}

func TestMissingTokenSendsNothing(t *testing.T) {
	srv := hubServer(t, fulfillment.Hub{ID: "h1"})
	clearEnv(t)

	_, _, err := runCLI("--api-url", srv.URL, "hubs", "get", "h1")
	require.Error(t, err)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Empty(t, srv.Requests())
}

func TestDelete(t *testing.T) {
	srv := hubServer(t)

	out, _, err := execute(t, "--api-url", srv.URL, "hubs", "delete", "h1", "h2")
	require.NoError(t, err)
	require.Equal(t, "hub h1 deleted\nhub h2 deleted\n", out)
	require.Len(t, srv.Requests(), 2)
}

func TestMissingURL(t *testing.T) {
	_, _, err := execute(t, "hubs", "list")
	require.ErrorContains(t, err, "console_url, api_url or grpc_address")
}

func TestMetricsSummary(t *testing.T) {
	srv := hubServer(t, fulfillment.Hub{ID: "h1"})

	_, stderr, err := execute(t, "--api-url", srv.URL, "--metrics", "hubs", "get", "h1")
	require.NoError(t, err)
	require.Contains(t, stderr, "fulfillment_client_calls_total")
	require.Contains(t, stderr, "private.v1.Hubs")
}

func TestConfigFileAndFlags(t *testing.T) {
	srv := hubServer(t, fulfillment.Hub{ID: "h1"})
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: "+srv.URL+"\noutput: json\ntoken: from-file\n"), 0o600))

	clearEnv(t)
	out, _, err := runCLI("--config", path, "hubs", "get", "h1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "{"), "output %q is not JSON", out)
	require.Equal(t, "Bearer from-file", srv.Requests()[0].Header.Get("Authorization"))

	out, _, err = runCLI("--config", path, "-o", "yaml", "hubs", "get", "h1")
	require.NoError(t, err)
	require.Contains(t, out, "id: h1")
}

func TestConfigViewRedactsToken(t *testing.T) {
	out, _, err := execute(t, "--api-url", "http://api", "--token", "secret", "config", "view")
	require.NoError(t, err)
	require.NotContains(t, out, "secret")
	require.Contains(t, out, redacted)
	require.Contains(t, out, "http://api")
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	_, _, err := execute(t, "--api-url", "http://api", "-o", "json", "config", "save", path)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://api", cfg.APIURL)
	require.Equal(t, "json", cfg.Output)
}

func TestProtoPrintsSchema(t *testing.T) {
	out, _, err := execute(t, "proto", "--file", "private/v1/hubs_service.proto")
	require.NoError(t, err)
	require.Contains(t, out, "package private.v1;")
	require.Contains(t, out, "service Hubs")
}

func TestProtoWritesFiles(t *testing.T) {
	dir := t.TempDir()
	out, _, err := execute(t, "proto", "--out", dir)
	require.NoError(t, err)

	paths := strings.Fields(out)
	require.Len(t, paths, 5)
	for _, p := range paths {
		require.FileExists(t, p)
	}
}

func TestVersionShort(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	require.Equal(t, version+"\n", out)
}

type bytesCodec struct{}

func (bytesCodec) Name() string { return "proto" }

func (bytesCodec) Marshal(v any) ([]byte, error) {
	if b, ok := v.(*[]byte); ok {
		return *b, nil
	}
	return nil, fmt.Errorf("unexpected %T", v)
}

func (bytesCodec) Unmarshal(data []byte, v any) error {
	if b, ok := v.(*[]byte); ok {
		*b = append([]byte(nil), data...)
		return nil
	}
	return fmt.Errorf("unexpected %T", v)
}

func TestGRPCAddress(t *testing.T) {
	hub, err := fulfillment.EncodeHub(&fulfillment.Hub{ID: "h1", Namespace: "ns1"})
	require.NoError(t, err)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	auth := make(chan []string, 1)
	srv := grpc.NewServer(
		grpc.ForceServerCodec(bytesCodec{}),
		grpc.UnknownServiceHandler(func(_ any, stream grpc.ServerStream) error {
			name, _ := grpc.MethodFromServerStream(stream)
			if name != "/private.v1.Hubs/Get" {
				return status.Errorf(codes.Unimplemented, "unknown method %s", name)
			}
			md, _ := metadata.FromIncomingContext(stream.Context())
			auth <- md.Get("authorization")
			var req []byte
			if err := stream.RecvMsg(&req); err != nil {
				return err
			}
			resp := fulfillment.EncodeObjectRequest(hub)
			return stream.SendMsg(&resp)
		}),
	)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	out, _, err := execute(t, "--grpc-address", lis.Addr().String(), "--plaintext", "--token", "tok", "-o", "json", "hubs", "get", "h1")
	require.NoError(t, err)
	require.Equal(t, []string{"Bearer tok"}, <-auth)

	var got fulfillment.Hub
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, fulfillment.Hub{ID: "h1", Namespace: "ns1"}, got)
}
