package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/mchmarny/kaudit/pkg/audit"
	"github.com/mchmarny/kaudit/pkg/policy"
)

func rawPod(name, namespace, node string, phase corev1.PodPhase) corev1.Pod {
	return corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec:       corev1.PodSpec{NodeName: node},
		Status:     corev1.PodStatus{Phase: phase},
	}
}

func snapshotPod(name, namespace, node string, cpuRequest, memoryRequest int64) audit.PodRecord {
	return audit.PodRecord{
		Name:      name,
		Namespace: namespace,
		Node:      node,
		Containers: []audit.ContainerResource{
			{Name: "main", CPURequest: cpuRequest, MemoryRequest: memoryRequest},
		},
	}
}

func TestPodDensity(t *testing.T) {
	snap := &audit.Snapshot{
		Nodes: []audit.NodeRecord{
			{Name: "node-a", NodeType: "m5.large", PodCapacity: 12, CPUAllocatable: 4000, MemoryAllocatable: 8 << 30},
			{Name: "node-b", NodeType: "m5.large", PodCapacity: 30, CPUAllocatable: 4000, MemoryAllocatable: 8 << 30},
		},
		Pods: []audit.PodRecord{
			snapshotPod("a1", "apps", "node-a", 1000, 2<<30),
			snapshotPod("a2", "apps", "node-a", 1000, 2<<30),
			snapshotPod("floating", "apps", audit.UnassignedNode, 500, 1<<30),
		},
	}

	raw := []corev1.Pod{
		rawPod("a1", "apps", "node-a", corev1.PodRunning),
		rawPod("a2", "apps", "node-a", corev1.PodRunning),
		rawPod("crashed", "apps", "node-a", corev1.PodFailed),
		rawPod("queued", "apps", "", corev1.PodPending),
		rawPod("system", "kube-system", "node-a", corev1.PodRunning),
	}

	records := PodDensity(snap, raw, policy.Default())
	require.Len(t, records, 2)

	a := records[0]
	assert.Equal(t, "node-a", a.Node)
	assert.Equal(t, 2, a.RunningPods)
	assert.Equal(t, 1, a.FailedPods)
	assert.Equal(t, 0, a.PendingPods)
	assert.Equal(t, 3, a.TotalPods)
	assert.InDelta(t, 25.0, a.PodUtilizationPct, 1e-9)
	assert.Equal(t, int64(2000), a.CPURequests)
	assert.InDelta(t, 50.0, a.CPUUtilizationPct, 1e-9)
	assert.False(t, a.ApproachingLimit)

	b := records[1]
	assert.Equal(t, 0, b.TotalPods)
	assert.Equal(t, 0.0, b.PodUtilizationPct)
}

func TestPodDensityApproachingLimitBoundary(t *testing.T) {
	tests := []struct {
		name     string
		pods     int
		capacity int64
		expected bool
	}{
		{"above the limit", 91, 100, true},
		{"exactly at the limit", 90, 100, false},
		{"zero capacity", 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &audit.Snapshot{
				Nodes: []audit.NodeRecord{{Name: "n", PodCapacity: tt.capacity}},
			}
			raw := make([]corev1.Pod, 0, tt.pods)
			for i := 0; i < tt.pods; i++ {
				raw = append(raw, rawPod("p", "apps", "n", corev1.PodRunning))
			}

			records := PodDensity(snap, raw, policy.Default())
			require.Len(t, records, 1)
			assert.Equal(t, tt.expected, records[0].ApproachingLimit)
		})
	}
}
