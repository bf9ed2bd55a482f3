package analyzer

import (
	"sort"

	"github.com/mchmarny/kaudit/pkg/audit"
)

// WastePriority labels a namespace's estimated CPU waste.
type WastePriority string

const (
	WastePriorityHigh   WastePriority = "HIGH"
	WastePriorityMedium WastePriority = "MEDIUM"
	WastePriorityLow    WastePriority = "LOW"
)

// wasteCoefficient is a fixed heuristic: 30% of requested resources is
// assumed to be reclaimable headroom. It is not derived from measured
// usage.
const wasteCoefficient = 0.3

// Waste priority cut points, in millicores of estimated CPU waste.
const (
	highWasteThreshold   = 1000.0
	mediumWasteThreshold = 500.0
)

// NamespaceEfficiencyRecord is the per-namespace efficiency rollup.
type NamespaceEfficiencyRecord struct {
	Namespace            string        `json:"namespace"`
	CPURequests          int64         `json:"cpu_requests"`
	MemoryRequests       int64         `json:"memory_requests"`
	CPUWastePotential    float64       `json:"cpu_waste_potential"`
	MemoryWastePotential int64         `json:"memory_waste_potential"`
	EfficiencyScore      float64       `json:"efficiency_score"`
	PodCount             int           `json:"pod_count"`
	ContainerCount       int           `json:"container_count"`
	WastePriority        WastePriority `json:"waste_priority"`
}

// CPUPerPod returns average requested millicores per pod, 0 if the
// namespace has no pods.
func (r NamespaceEfficiencyRecord) CPUPerPod() float64 {
	if r.PodCount == 0 {
		return 0
	}
	return float64(r.CPURequests) / float64(r.PodCount)
}

// NamespaceEfficiency rolls the snapshot's pods up per namespace and
// estimates reclaimable waste. System namespaces are already excluded
// at snapshot construction. Output is ordered by CPU waste potential
// descending, namespace name breaking ties.
func NamespaceEfficiency(snap *audit.Snapshot) []NamespaceEfficiencyRecord {
	byNamespace := map[string]*NamespaceEfficiencyRecord{}

	for _, pod := range snap.Pods {
		record, ok := byNamespace[pod.Namespace]
		if !ok {
			record = &NamespaceEfficiencyRecord{Namespace: pod.Namespace}
			byNamespace[pod.Namespace] = record
		}
		record.CPURequests += pod.TotalCPURequest()
		record.MemoryRequests += pod.TotalMemoryRequest()
		record.PodCount++
		record.ContainerCount += len(pod.Containers)
	}

	records := make([]NamespaceEfficiencyRecord, 0, len(byNamespace))
	for _, record := range byNamespace {
		record.CPUWastePotential = float64(record.CPURequests) * wasteCoefficient
		record.MemoryWastePotential = int64(float64(record.MemoryRequests) * wasteCoefficient)
		record.EfficiencyScore = efficiencyScore(record.CPUPerPod())
		record.WastePriority = wastePriorityFor(record.CPUWastePotential)
		records = append(records, *record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].CPUWastePotential != records[j].CPUWastePotential {
			return records[i].CPUWastePotential > records[j].CPUWastePotential
		}
		return records[i].Namespace < records[j].Namespace
	})

	return records
}

// efficiencyScore scales average CPU density per pod to 0-100, where a
// full core per pod scores 100.
func efficiencyScore(cpuPerPod float64) float64 {
	score := (cpuPerPod / 1000) * 100
	if score > 100 {
		return 100
	}
	return score
}

func wastePriorityFor(cpuWaste float64) WastePriority {
	switch {
	case cpuWaste > highWasteThreshold:
		return WastePriorityHigh
	case cpuWaste > mediumWasteThreshold:
		return WastePriorityMedium
	default:
		return WastePriorityLow
	}
}
