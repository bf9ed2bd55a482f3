package audit

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/mchmarny/kaudit/pkg/policy"
)

func testNode(name, instanceType string, cpu, memory, pods string) corev1.Node {
	capacity := corev1.ResourceList{
		corev1.ResourceCPU:    resource.MustParse(cpu),
		corev1.ResourceMemory: resource.MustParse(memory),
		corev1.ResourcePods:   resource.MustParse(pods),
	}
	node := corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Capacity:    capacity,
			Allocatable: capacity.DeepCopy(),
		},
	}
	if instanceType != "" {
		node.Labels = map[string]string{labelInstanceType: instanceType}
	}
	return node
}

func testPod(name, namespace, node string, phase corev1.PodPhase, resources corev1.ResourceRequirements) corev1.Pod {
	return corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: corev1.PodSpec{
			NodeName:   node,
			Containers: []corev1.Container{{Name: "main", Resources: resources}},
		},
		Status: corev1.PodStatus{Phase: phase},
	}
}

func TestCollectFiltersPods(t *testing.T) {
	collector := &Collector{Policy: policy.Default()}

	requests := corev1.ResourceRequirements{
		Requests: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse("100m"),
			corev1.ResourceMemory: resource.MustParse("128Mi"),
		},
		Limits: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse("200m"),
			corev1.ResourceMemory: resource.MustParse("256Mi"),
		},
	}

	pods := []corev1.Pod{
		testPod("keep", "apps", "node-a", corev1.PodRunning, requests),
		testPod("pending", "apps", "", corev1.PodPending, requests),
		testPod("failed", "apps", "node-a", corev1.PodFailed, requests),
		testPod("system", "kube-system", "node-a", corev1.PodRunning, requests),
		testPod("rancher", "cattle-fleet", "node-a", corev1.PodRunning, requests),
	}

	snap := collector.Collect(nil, pods)

	require.Len(t, snap.Pods, 1)
	assert.Equal(t, "keep", snap.Pods[0].Name)
	assert.Empty(t, snap.Pods[0].Containers[0].Issues)
}

func TestCollectNodeRecords(t *testing.T) {
	collector := &Collector{Policy: policy.Default()}

	nodes := []corev1.Node{
		testNode("node-a", "m5.large", "4", "16Gi", "30"),
		testNode("node-b", "", "2", "8Gi", "30"),
	}
	nodes[1].Labels = map[string]string{labelInstanceTypeBeta: "t3.medium"}

	snap := collector.Collect(nodes, nil)

	require.Len(t, snap.Nodes, 2)

	a := snap.Nodes[0]
	assert.Equal(t, "m5.large", a.NodeType)
	assert.Equal(t, int64(4000), a.CPUCapacity)
	assert.Equal(t, int64(16)<<30, a.MemoryCapacity)
	assert.Equal(t, int64(4000), a.CPUAllocatable)
	assert.Equal(t, int64(30), a.PodCapacity)

	assert.Equal(t, "t3.medium", snap.Nodes[1].NodeType)
}

func TestCollectNodeTypeUnknown(t *testing.T) {
	collector := &Collector{}

	snap := collector.Collect([]corev1.Node{testNode("bare", "", "1", "1Gi", "10")}, nil)

	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, NodeTypeUnknown, snap.Nodes[0].NodeType)
}

func TestCollectUnassignedNodeName(t *testing.T) {
	collector := &Collector{}

	pod := testPod("floating", "apps", "", corev1.PodRunning, corev1.ResourceRequirements{})
	snap := collector.Collect(nil, []corev1.Pod{pod})

	require.Len(t, snap.Pods, 1)
	assert.Equal(t, UnassignedNode, snap.Pods[0].Node)
}

func TestCollectUsesInjectedClock(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	collector := &Collector{Clock: clocktesting.NewFakePassiveClock(at)}

	snap := collector.Collect(nil, nil)

	assert.Equal(t, at, snap.Timestamp)
	assert.NotEmpty(t, snap.ID)
}

func TestCollectClusterStatsEndToEnd(t *testing.T) {
	collector := &Collector{Policy: policy.Default()}

	nodes := []corev1.Node{
		testNode("node-a", "m5.large", "8", "32Gi", "30"),
		testNode("node-b", "m5.large", "8", "32Gi", "30"),
	}

	// Every pod requests CPU and memory but sets no CPU limit.
	resources := corev1.ResourceRequirements{
		Requests: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse("100m"),
			corev1.ResourceMemory: resource.MustParse("128Mi"),
		},
		Limits: corev1.ResourceList{
			corev1.ResourceMemory: resource.MustParse("128Mi"),
		},
	}

	pods := make([]corev1.Pod, 0, 25)
	for i := 0; i < 25; i++ {
		pods = append(pods, testPod(fmt.Sprintf("pod-%d", i), "apps", "node-a", corev1.PodRunning, resources))
	}

	snap := collector.Collect(nodes, pods)
	stats := snap.ClusterStats

	assert.Equal(t, 2, stats.TotalNodes)
	assert.Equal(t, 25, stats.TotalPods)
	assert.Equal(t, 25, stats.TotalContainers)
	assert.Equal(t, 25, stats.ContainersWithIssues)
	assert.Equal(t, 1.0, stats.IssueRate)
	assert.Equal(t, map[Severity]int{SeverityMedium: 25}, stats.SeverityBreakdown)

	// 2500m requested against 16000m allocatable.
	assert.InDelta(t, 0.15625, stats.ResourceUtilization.CPURequestsRatio, 1e-9)
	assert.Equal(t, 0.0, stats.ResourceUtilization.CPULimitsRatio)

	for _, pod := range snap.Pods {
		assert.Equal(t, []IssueCode{IssueNoCPULimit}, pod.Containers[0].Issues)
	}
}

func TestAnalyzeContainerRatios(t *testing.T) {
	container := corev1.Container{
		Name: "hungry",
		Resources: corev1.ResourceRequirements{
			Requests: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("100m"),
				corev1.ResourceMemory: resource.MustParse("100Mi"),
			},
			Limits: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("2"),
				corev1.ResourceMemory: resource.MustParse("600Mi"),
			},
		},
	}

	got := AnalyzeContainer(container)

	assert.Equal(t, int64(100), got.CPURequest)
	assert.Equal(t, int64(2000), got.CPULimit)
	assert.Equal(t, []IssueCode{
		IssueCode("HIGH_CPU_RATIO_20.0x"),
		IssueCode("HIGH_MEMORY_RATIO_6.0x"),
	}, got.Issues)
	assert.Equal(t, SeverityHigh, got.Severity())
}

func TestAnalyzeContainerUnparsedQuantity(t *testing.T) {
	before := testutil.ToFloat64(unparsedQuantities)

	// Exponent-format quantities round-trip through the API as "1e9",
	// which the canonical parser does not recognize.
	container := corev1.Container{
		Name: "app",
		Resources: corev1.ResourceRequirements{
			Requests: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("100m"),
				corev1.ResourceMemory: resource.MustParse("1e9"),
			},
		},
	}

	got := AnalyzeContainer(container)

	assert.Equal(t, int64(100), got.CPURequest)
	assert.Equal(t, int64(0), got.MemoryRequest, "unparsed quantity defaults to zero")
	assert.Equal(t, before+1, testutil.ToFloat64(unparsedQuantities))
}
