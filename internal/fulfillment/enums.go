package fulfillment

import "strconv"

func enumName(names []string, v int32) string {
	if v >= 0 && int(v) < len(names) {
		return names[v]
	}
	return strconv.Itoa(int(v))
}

// ClusterState is the lifecycle state reported in ClusterStatus.
type ClusterState int32

const (
	ClusterStateUnspecified ClusterState = iota
	ClusterStateProgressing
	ClusterStateReady
	ClusterStateFailed
)

var clusterStateNames = []string{
	"CLUSTER_STATE_UNSPECIFIED",
	"CLUSTER_STATE_PROGRESSING",
	"CLUSTER_STATE_READY",
	"CLUSTER_STATE_FAILED",
}

func (s ClusterState) String() string              { return enumName(clusterStateNames, int32(s)) }
func (s ClusterState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ClusterConditionType names a condition in ClusterStatus.
type ClusterConditionType int32

const (
	ClusterConditionTypeUnspecified ClusterConditionType = iota
	ClusterConditionTypeProgressing
	ClusterConditionTypeReady
	ClusterConditionTypeFailed
	ClusterConditionTypeDegraded
)

var clusterConditionTypeNames = []string{
	"CLUSTER_CONDITION_TYPE_UNSPECIFIED",
	"CLUSTER_CONDITION_TYPE_PROGRESSING",
	"CLUSTER_CONDITION_TYPE_READY",
	"CLUSTER_CONDITION_TYPE_FAILED",
	"CLUSTER_CONDITION_TYPE_DEGRADED",
}

func (t ClusterConditionType) String() string {
	return enumName(clusterConditionTypeNames, int32(t))
}
func (t ClusterConditionType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ConditionStatus is the tri-state value of a condition.
type ConditionStatus int32

const (
	ConditionStatusUnspecified ConditionStatus = iota
	ConditionStatusTrue
	ConditionStatusFalse
	ConditionStatusUnknown
)

var conditionStatusNames = []string{
	"CONDITION_STATUS_UNSPECIFIED",
	"CONDITION_STATUS_TRUE",
	"CONDITION_STATUS_FALSE",
	"CONDITION_STATUS_UNKNOWN",
}

func (s ConditionStatus) String() string              { return enumName(conditionStatusNames, int32(s)) }
func (s ConditionStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// HostPowerState is the desired or observed power state of a host.
type HostPowerState int32

const (
	HostPowerStateUnspecified HostPowerState = iota
	HostPowerStateOn
	HostPowerStateOff
)

var hostPowerStateNames = []string{
	"HOST_POWER_STATE_UNSPECIFIED",
	"HOST_POWER_STATE_ON",
	"HOST_POWER_STATE_OFF",
}

func (s HostPowerState) String() string              { return enumName(hostPowerStateNames, int32(s)) }
func (s HostPowerState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
