package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeClusterStatsEmpty(t *testing.T) {
	stats := ComputeClusterStats(nil, nil)

	assert.Equal(t, 0, stats.TotalNodes)
	assert.Equal(t, 0, stats.TotalPods)
	assert.Equal(t, 0, stats.TotalContainers)
	assert.Equal(t, 0.0, stats.IssueRate)
	assert.Equal(t, 0.0, stats.ResourceUtilization.CPURequestsRatio)
	assert.Empty(t, stats.SeverityBreakdown)
}

func TestComputeClusterStats(t *testing.T) {
	nodes := []NodeRecord{
		{Name: "node-a", CPUAllocatable: 4000, MemoryAllocatable: 8 << 30},
		{Name: "node-b", CPUAllocatable: 4000, MemoryAllocatable: 8 << 30},
	}

	pods := []PodRecord{
		{
			Name: "clean", Namespace: "apps", Node: "node-a",
			Containers: []ContainerResource{
				{Name: "main", CPURequest: 500, CPULimit: 1000, MemoryRequest: 1 << 30, MemoryLimit: 2 << 30},
			},
		},
		{
			Name: "broken", Namespace: "apps", Node: "node-b",
			Containers: []ContainerResource{
				{Name: "main", Issues: []IssueCode{IssueNoCPUResources, IssueNoMemoryResources}},
				{Name: "sidecar", CPURequest: 100, MemoryRequest: 1 << 20, MemoryLimit: 1 << 20, Issues: []IssueCode{IssueNoCPULimit}},
			},
		},
	}

	stats := ComputeClusterStats(nodes, pods)

	assert.Equal(t, 2, stats.TotalNodes)
	assert.Equal(t, 2, stats.TotalPods)
	assert.Equal(t, 3, stats.TotalContainers)
	assert.Equal(t, 2, stats.ContainersWithIssues)
	assert.InDelta(t, 2.0/3.0, stats.IssueRate, 1e-9)

	assert.Equal(t, map[Severity]int{
		SeverityCritical: 1,
		SeverityMedium:   1,
	}, stats.SeverityBreakdown)

	// 600m requested against 8000m allocatable.
	assert.InDelta(t, 0.075, stats.ResourceUtilization.CPURequestsRatio, 1e-9)
	assert.InDelta(t, 0.125, stats.ResourceUtilization.CPULimitsRatio, 1e-9)
}

func TestComputeClusterStatsZeroAllocatable(t *testing.T) {
	nodes := []NodeRecord{{Name: "node-a"}}
	pods := []PodRecord{
		{
			Name: "p", Namespace: "apps", Node: "node-a",
			Containers: []ContainerResource{
				{Name: "main", CPURequest: 500, MemoryRequest: 1 << 20},
			},
		},
	}

	stats := ComputeClusterStats(nodes, pods)

	assert.Equal(t, 0.0, stats.ResourceUtilization.CPURequestsRatio)
	assert.Equal(t, 0.0, stats.ResourceUtilization.MemoryRequestsRatio)
}
