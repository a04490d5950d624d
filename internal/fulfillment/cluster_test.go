package fulfillment

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestClusterRoundTrip(t *testing.T) {
	changed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	in := &Cluster{
		ID: "c1",
		Spec: &ClusterSpec{
			Template: "ocp-4-17-small",
			TemplateParameters: map[string]Value{
				"name":    StringValue("prod"),
				"workers": Int32Value(5),
				"quota":   Int64Value(1 << 40),
				"fips":    BoolValue(true),
			},
			NodeSets: map[string]NodeSet{"compute": {HostClass: "gb200", Size: ptr[int32](2)}},
		},
		Status: &ClusterStatus{
			State: ClusterStateReady,
			Conditions: []ClusterCondition{{
				Type:               ClusterConditionTypeReady,
				Status:             ConditionStatusTrue,
				LastTransitionTime: &changed,
				Reason:             "Installed",
			}},
			APIURL:     "https://api.c1.example.com:6443",
			ConsoleURL: "https://console.c1.example.com",
			Hub:        "h1",
		},
	}
	b, err := EncodeCluster(in)
	require.NoError(t, err)

	out, err := DecodeCluster(b)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("cluster mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeAnyWellKnownWrappers(t *testing.T) {
	cases := []struct {
		name string
		msg  proto.Message
		want any
	}{
		{"string", wrapperspb.String("hello"), "hello"},
		{"int32", wrapperspb.Int32(42), int32(42)},
		{"int32 negative", wrapperspb.Int32(-3), int32(-3)},
		{"int64", wrapperspb.Int64(1 << 50), int64(1 << 50)},
		{"bool", wrapperspb.Bool(true), true},
		{"bool false", wrapperspb.Bool(false), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := anypb.New(tc.msg)
			require.NoError(t, err)
			b, err := proto.Marshal(a)
			require.NoError(t, err)

			v, err := DecodeAny(b)
			require.NoError(t, err)
			require.Equal(t, tc.want, v.Interface())
			require.Equal(t, a.GetTypeUrl(), v.TypeURL())
		})
	}
}

func TestEncodeAnyMatchesProtobuf(t *testing.T) {
	b := EncodeAny(StringValue("x"))
	var a anypb.Any
	require.NoError(t, proto.Unmarshal(b, &a))
	var s wrapperspb.StringValue
	require.NoError(t, a.UnmarshalTo(&s))
	require.Equal(t, "x", s.GetValue())
}

func TestDecodeAnyUnknownType(t *testing.T) {
	a, err := anypb.New(timestamppb.Now())
	require.NoError(t, err)
	b, err := proto.Marshal(a)
	require.NoError(t, err)

	v, err := DecodeAny(b)
	require.NoError(t, err)
	require.Equal(t, KindUnknown, v.Kind())
	require.Nil(t, v.Interface())
	require.Equal(t, a.GetValue(), v.Raw())

	// Unknown values are passed back untouched.
	again, err := DecodeAny(EncodeAny(*v))
	require.NoError(t, err)
	require.True(t, v.Equal(*again))
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindString, KindOf("type.googleapis.com/google.protobuf.StringValue"))
	require.Equal(t, KindBool, KindOf("google.protobuf.BoolValue"))
	require.Equal(t, KindUnknown, KindOf("type.googleapis.com/acme.NotStringValue"))
	require.Equal(t, KindUnknown, KindOf(""))
}

func TestTimestampMatchesProtobuf(t *testing.T) {
	ts := timestamppb.New(time.Date(2024, 2, 29, 12, 0, 0, 250_000_000, time.UTC))
	b, err := proto.Marshal(ts)
	require.NoError(t, err)

	got, err := DecodeTimestamp(b)
	require.NoError(t, err)
	require.True(t, ts.AsTime().Equal(*got))

	require.True(t, proto.Equal(ts, mustTimestamp(t, EncodeTimestamp(*got))))
}

func mustTimestamp(t *testing.T, b []byte) *timestamppb.Timestamp {
	t.Helper()
	var ts timestamppb.Timestamp
	require.NoError(t, proto.Unmarshal(b, &ts))
	return &ts
}

func TestEnumStrings(t *testing.T) {
	require.Equal(t, "CLUSTER_STATE_READY", ClusterStateReady.String())
	require.Equal(t, "HOST_POWER_STATE_OFF", HostPowerStateOff.String())
	require.Equal(t, "17", ClusterState(17).String())
}
