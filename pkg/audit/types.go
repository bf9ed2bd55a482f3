package audit

import (
	"time"
)

// ContainerResource holds one container's resource requests and limits in
// canonical units (millicores, bytes) plus the issues detected on it.
// Issue order is detection order.
type ContainerResource struct {
	Name          string      `json:"name"`
	CPURequest    int64       `json:"cpu_request"`
	CPULimit      int64       `json:"cpu_limit"`
	MemoryRequest int64       `json:"memory_request"`
	MemoryLimit   int64       `json:"memory_limit"`
	Issues        []IssueCode `json:"issues"`
}

// CPURatio returns the CPU limit/request ratio, or 0 when no request is set.
func (c ContainerResource) CPURatio() float64 {
	if c.CPURequest == 0 {
		return 0
	}
	return float64(c.CPULimit) / float64(c.CPURequest)
}

// MemoryRatio returns the memory limit/request ratio, or 0 when no request is set.
func (c ContainerResource) MemoryRatio() float64 {
	if c.MemoryRequest == 0 {
		return 0
	}
	return float64(c.MemoryLimit) / float64(c.MemoryRequest)
}

// HasIssues reports whether any issue was detected on the container.
func (c ContainerResource) HasIssues() bool {
	return len(c.Issues) > 0
}

// Severity returns the severity classification for the container's issues.
func (c ContainerResource) Severity() Severity {
	return SeverityFor(c.Issues)
}

// PodRecord is one audited pod with its classified containers.
type PodRecord struct {
	Name       string              `json:"name"`
	Namespace  string              `json:"namespace"`
	Node       string              `json:"node"`
	Containers []ContainerResource `json:"containers"`
}

// TotalCPURequest sums CPU requests across the pod's containers.
func (p PodRecord) TotalCPURequest() int64 {
	var total int64
	for _, c := range p.Containers {
		total += c.CPURequest
	}
	return total
}

// TotalCPULimit sums CPU limits across the pod's containers.
func (p PodRecord) TotalCPULimit() int64 {
	var total int64
	for _, c := range p.Containers {
		total += c.CPULimit
	}
	return total
}

// TotalMemoryRequest sums memory requests across the pod's containers.
func (p PodRecord) TotalMemoryRequest() int64 {
	var total int64
	for _, c := range p.Containers {
		total += c.MemoryRequest
	}
	return total
}

// TotalMemoryLimit sums memory limits across the pod's containers.
func (p PodRecord) TotalMemoryLimit() int64 {
	var total int64
	for _, c := range p.Containers {
		total += c.MemoryLimit
	}
	return total
}

// HasIssues reports whether any container in the pod has issues.
func (p PodRecord) HasIssues() bool {
	for _, c := range p.Containers {
		if c.HasIssues() {
			return true
		}
	}
	return false
}

// NodeRecord captures one node's capacity and allocatable resources.
type NodeRecord struct {
	Name              string `json:"name"`
	NodeType          string `json:"node_type"`
	CPUCapacity       int64  `json:"cpu_capacity"`
	MemoryCapacity    int64  `json:"memory_capacity"`
	CPUAllocatable    int64  `json:"cpu_allocatable"`
	MemoryAllocatable int64  `json:"memory_allocatable"`
	PodCapacity       int64  `json:"pod_capacity"`
}

// Utilization holds the four cluster-wide request/limit ratios against
// total allocatable resources.
type Utilization struct {
	CPURequestsRatio    float64 `json:"cpu_requests_ratio"`
	CPULimitsRatio      float64 `json:"cpu_limits_ratio"`
	MemoryRequestsRatio float64 `json:"memory_requests_ratio"`
	MemoryLimitsRatio   float64 `json:"memory_limits_ratio"`
}

// ClusterStats holds cluster-wide counts and utilization ratios computed
// from a snapshot's nodes and pods.
type ClusterStats struct {
	TotalNodes           int              `json:"total_nodes"`
	TotalPods            int              `json:"total_pods"`
	TotalContainers      int              `json:"total_containers"`
	ContainersWithIssues int              `json:"containers_with_issues"`
	IssueRate            float64          `json:"issue_rate"`
	SeverityBreakdown    map[Severity]int `json:"severity_breakdown"`
	ResourceUtilization  Utilization      `json:"resource_utilization"`
}

// Snapshot is one immutable point-in-time capture of cluster resource
// state. It is created once per audit run and never mutated afterwards.
type Snapshot struct {
	ID           string       `json:"id,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
	Nodes        []NodeRecord `json:"nodes"`
	Pods         []PodRecord  `json:"pods"`
	ClusterStats ClusterStats `json:"cluster_stats"`
}
