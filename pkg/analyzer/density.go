package analyzer

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/mchmarny/kaudit/pkg/audit"
	"github.com/mchmarny/kaudit/pkg/policy"
)

// PodUtilizationLimit is the pod utilization percentage above which a
// node is flagged as approaching its pod capacity. The comparison is
// strictly greater-than, so a node at exactly the limit is not flagged.
const PodUtilizationLimit = 90.0

// PodDensityRecord is the per-node density rollup. Pod phase counts come
// from the raw pod list (all phases, system namespaces excluded);
// resource requests come from the snapshot's audited pods.
type PodDensityRecord struct {
	Node                 string  `json:"node"`
	NodeType             string  `json:"node_type"`
	RunningPods          int     `json:"running_pods"`
	FailedPods           int     `json:"failed_pods"`
	PendingPods          int     `json:"pending_pods"`
	TotalPods            int     `json:"total_pods"`
	PodCapacity          int64   `json:"pod_capacity"`
	CPUAllocatable       int64   `json:"cpu_allocatable"`
	MemoryAllocatable    int64   `json:"memory_allocatable"`
	CPURequests          int64   `json:"cpu_requests"`
	MemoryRequests       int64   `json:"memory_requests"`
	PodUtilizationPct    float64 `json:"pod_utilization_pct"`
	CPUUtilizationPct    float64 `json:"cpu_utilization_pct"`
	MemoryUtilizationPct float64 `json:"memory_utilization_pct"`
	ApproachingLimit     bool    `json:"approaching_limit"`
}

type phaseCounts struct {
	running int
	failed  int
	pending int
	total   int
}

type nodeRequests struct {
	cpu    int64
	memory int64
	pods   int
}

// PodDensity builds one density record per snapshot node. The raw pod
// list supplies phase counts so that pending and failed pods, which the
// snapshot excludes, still count against node capacity.
func PodDensity(snap *audit.Snapshot, rawPods []corev1.Pod, pol policy.Policy) []PodDensityRecord {
	counts := countPhases(rawPods, pol)
	usage := sumNodeRequests(snap.Pods)

	records := make([]PodDensityRecord, 0, len(snap.Nodes))
	for _, node := range snap.Nodes {
		c := counts[node.Name]
		u := usage[node.Name]

		record := PodDensityRecord{
			Node:              node.Name,
			NodeType:          node.NodeType,
			RunningPods:       c.running,
			FailedPods:        c.failed,
			PendingPods:       c.pending,
			TotalPods:         c.total,
			PodCapacity:       node.PodCapacity,
			CPUAllocatable:    node.CPUAllocatable,
			MemoryAllocatable: node.MemoryAllocatable,
			CPURequests:       u.cpu,
			MemoryRequests:    u.memory,
		}

		if node.PodCapacity > 0 {
			record.PodUtilizationPct = float64(c.total) / float64(node.PodCapacity) * 100
		}
		if node.CPUAllocatable > 0 {
			record.CPUUtilizationPct = float64(u.cpu) / float64(node.CPUAllocatable) * 100
		}
		if node.MemoryAllocatable > 0 {
			record.MemoryUtilizationPct = float64(u.memory) / float64(node.MemoryAllocatable) * 100
		}
		record.ApproachingLimit = record.PodUtilizationPct > PodUtilizationLimit

		records = append(records, record)
	}

	return records
}

func countPhases(rawPods []corev1.Pod, pol policy.Policy) map[string]phaseCounts {
	counts := map[string]phaseCounts{}
	for i := range rawPods {
		pod := &rawPods[i]
		if pol.IsSystem(pod.Namespace) {
			continue
		}
		node := pod.Spec.NodeName
		if node == "" {
			node = audit.UnassignedNode
		}

		c := counts[node]
		c.total++
		switch pod.Status.Phase {
		case corev1.PodRunning:
			c.running++
		case corev1.PodFailed:
			c.failed++
		case corev1.PodPending:
			c.pending++
		}
		counts[node] = c
	}
	return counts
}

func sumNodeRequests(pods []audit.PodRecord) map[string]nodeRequests {
	usage := map[string]nodeRequests{}
	for _, pod := range pods {
		if pod.Node == audit.UnassignedNode {
			continue
		}
		u := usage[pod.Node]
		u.cpu += pod.TotalCPURequest()
		u.memory += pod.TotalMemoryRequest()
		u.pods++
		usage[pod.Node] = u
	}
	return usage
}
