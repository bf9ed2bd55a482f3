package audit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/clock"

	"github.com/mchmarny/kaudit/pkg/policy"
	"github.com/mchmarny/kaudit/pkg/quantity"
)

// Node type is derived from the standard instance-type labels.
const (
	labelInstanceType     = "node.kubernetes.io/instance-type"
	labelInstanceTypeBeta = "beta.kubernetes.io/instance-type"

	// NodeTypeUnknown is used when a node carries no instance-type label.
	NodeTypeUnknown = "unknown"

	// UnassignedNode names the placeholder node for pods that have not
	// been scheduled yet.
	UnassignedNode = "Unknown"
)

// Collector builds audit snapshots from already-fetched node and pod
// objects. The zero value uses the real clock and an empty namespace
// policy; callers normally inject policy.Default() or stricter.
type Collector struct {
	// Policy classifies namespaces; system namespaces are excluded.
	Policy policy.Policy

	// Clock supplies snapshot timestamps. If nil, the real clock is used.
	Clock clock.PassiveClock
}

// Collect builds an immutable snapshot from the given nodes and pods.
// Only Running pods outside system namespaces are included. Cluster
// statistics are computed as part of construction so the snapshot is
// complete the moment it is returned.
func (c *Collector) Collect(nodes []corev1.Node, pods []corev1.Pod) *Snapshot {
	start := time.Now()
	defer func() {
		collectDuration.Observe(time.Since(start).Seconds())
	}()

	snap := &Snapshot{
		ID:        uuid.NewString(),
		Timestamp: c.now(),
		Nodes:     make([]NodeRecord, 0, len(nodes)),
		Pods:      make([]PodRecord, 0, len(pods)),
	}

	for i := range nodes {
		snap.Nodes = append(snap.Nodes, c.buildNodeRecord(&nodes[i]))
	}

	for i := range pods {
		pod := &pods[i]
		if pod.Status.Phase != corev1.PodRunning {
			continue
		}
		if c.Policy.IsSystem(pod.Namespace) {
			continue
		}
		snap.Pods = append(snap.Pods, c.buildPodRecord(pod))
	}

	snap.ClusterStats = ComputeClusterStats(snap.Nodes, snap.Pods)

	containersWithIssues.Set(float64(snap.ClusterStats.ContainersWithIssues))
	slog.Debug("snapshot collected",
		slog.String("id", snap.ID),
		slog.Int("nodes", len(snap.Nodes)),
		slog.Int("pods", len(snap.Pods)),
		slog.Int("containers_with_issues", snap.ClusterStats.ContainersWithIssues))

	return snap
}

func (c *Collector) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (c *Collector) buildNodeRecord(node *corev1.Node) NodeRecord {
	capacity := node.Status.Capacity
	allocatable := node.Status.Allocatable

	podCapacity := int64(0)
	if q, ok := capacity[corev1.ResourcePods]; ok {
		podCapacity = q.Value()
	}

	return NodeRecord{
		Name:              node.Name,
		NodeType:          nodeTypeOf(node),
		CPUCapacity:       cpuOf(capacity),
		MemoryCapacity:    memoryOf(capacity),
		CPUAllocatable:    cpuOf(allocatable),
		MemoryAllocatable: memoryOf(allocatable),
		PodCapacity:       podCapacity,
	}
}

func (c *Collector) buildPodRecord(pod *corev1.Pod) PodRecord {
	record := PodRecord{
		Name:       pod.Name,
		Namespace:  pod.Namespace,
		Node:       pod.Spec.NodeName,
		Containers: make([]ContainerResource, 0, len(pod.Spec.Containers)),
	}
	if record.Node == "" {
		record.Node = UnassignedNode
	}

	for _, container := range pod.Spec.Containers {
		record.Containers = append(record.Containers, AnalyzeContainer(container))
	}

	return record
}

// AnalyzeContainer converts one container spec into a classified
// ContainerResource with canonical quantities and detected issues.
func AnalyzeContainer(container corev1.Container) ContainerResource {
	cpuRequest := cpuOf(container.Resources.Requests)
	cpuLimit := cpuOf(container.Resources.Limits)
	memoryRequest := memoryOf(container.Resources.Requests)
	memoryLimit := memoryOf(container.Resources.Limits)

	return ContainerResource{
		Name:          container.Name,
		CPURequest:    cpuRequest,
		CPULimit:      cpuLimit,
		MemoryRequest: memoryRequest,
		MemoryLimit:   memoryLimit,
		Issues:        DetectIssues(cpuRequest, cpuLimit, memoryRequest, memoryLimit),
	}
}

// PodResourceRequests sums a pod spec's container CPU and memory requests
// without building a full record. Used for pods excluded from the
// snapshot (pending, failed) that still need request totals reported.
func PodResourceRequests(pod *corev1.Pod) (cpuMillis, memoryBytes int64) {
	for _, container := range pod.Spec.Containers {
		cpuMillis += cpuOf(container.Resources.Requests)
		memoryBytes += memoryOf(container.Resources.Requests)
	}
	return cpuMillis, memoryBytes
}

// cpuOf parses the CPU quantity from a resource list. An unparseable
// value maps to zero but is surfaced in the logs and metrics rather
// than silently conflated with a genuine zero.
func cpuOf(resources corev1.ResourceList) int64 {
	q, ok := resources[corev1.ResourceCPU]
	if !ok {
		return 0
	}
	v, parsed := quantity.ParseCPU(q.String())
	if !parsed {
		unparsedQuantities.Inc()
		slog.Warn("unparsed cpu quantity, defaulting to zero", slog.String("value", q.String()))
	}
	return v
}

// memoryOf parses the memory quantity from a resource list, with the
// same unparsed-value handling as cpuOf.
func memoryOf(resources corev1.ResourceList) int64 {
	q, ok := resources[corev1.ResourceMemory]
	if !ok {
		return 0
	}
	v, parsed := quantity.ParseMemory(q.String())
	if !parsed {
		unparsedQuantities.Inc()
		slog.Warn("unparsed memory quantity, defaulting to zero", slog.String("value", q.String()))
	}
	return v
}

func nodeTypeOf(node *corev1.Node) string {
	if t := node.Labels[labelInstanceType]; t != "" {
		return t
	}
	if t := node.Labels[labelInstanceTypeBeta]; t != "" {
		return t
	}
	return NodeTypeUnknown
}
