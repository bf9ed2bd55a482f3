package audit

// ComputeClusterStats aggregates cluster-wide counts and utilization
// ratios from the snapshot's node and pod records. All ratios guard
// against zero denominators and report 0.0 in that case.
func ComputeClusterStats(nodes []NodeRecord, pods []PodRecord) ClusterStats {
	stats := ClusterStats{
		TotalNodes:        len(nodes),
		TotalPods:         len(pods),
		SeverityBreakdown: map[Severity]int{},
	}

	var cpuAllocatable, memoryAllocatable int64
	for _, node := range nodes {
		cpuAllocatable += node.CPUAllocatable
		memoryAllocatable += node.MemoryAllocatable
	}

	var cpuRequests, cpuLimits, memoryRequests, memoryLimits int64
	for _, pod := range pods {
		for _, container := range pod.Containers {
			stats.TotalContainers++
			cpuRequests += container.CPURequest
			cpuLimits += container.CPULimit
			memoryRequests += container.MemoryRequest
			memoryLimits += container.MemoryLimit

			if container.HasIssues() {
				stats.ContainersWithIssues++
				stats.SeverityBreakdown[container.Severity()]++
			}
		}
	}

	if stats.TotalContainers > 0 {
		stats.IssueRate = float64(stats.ContainersWithIssues) / float64(stats.TotalContainers)
	}

	if cpuAllocatable > 0 {
		stats.ResourceUtilization.CPURequestsRatio = float64(cpuRequests) / float64(cpuAllocatable)
		stats.ResourceUtilization.CPULimitsRatio = float64(cpuLimits) / float64(cpuAllocatable)
	}
	if memoryAllocatable > 0 {
		stats.ResourceUtilization.MemoryRequestsRatio = float64(memoryRequests) / float64(memoryAllocatable)
		stats.ResourceUtilization.MemoryLimitsRatio = float64(memoryLimits) / float64(memoryAllocatable)
	}

	return stats
}
