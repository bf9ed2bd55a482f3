package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/mchmarny/kaudit/pkg/audit"
	"github.com/mchmarny/kaudit/pkg/policy"
)

func TestSchedulingIssuesOverCapacity(t *testing.T) {
	snap := &audit.Snapshot{
		Nodes: []audit.NodeRecord{{Name: "packed", PodCapacity: 2}},
		Pods: []audit.PodRecord{
			snapshotPod("p1", "apps", "packed", 100, 1<<20),
			snapshotPod("p2", "apps", "packed", 100, 1<<20),
			snapshotPod("p3", "apps", "packed", 100, 1<<20),
		},
	}

	issues := SchedulingIssues(snap, nil, policy.Default())
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, SchedulingOverCapacity, issue.Kind)
	assert.Equal(t, "node-packed", issue.PodName)
	assert.Equal(t, "cluster", issue.Namespace)
	assert.Equal(t, "packed", issue.Node)
	assert.Equal(t, "Node has 3 pods but capacity is 2", issue.Reason)
	assert.Equal(t, int64(300), issue.CPURequest)
	assert.Equal(t, SchedulingSeverityCritical, issue.Severity)
}

func TestSchedulingIssuesAtCapacityNotFlagged(t *testing.T) {
	snap := &audit.Snapshot{
		Nodes: []audit.NodeRecord{{Name: "full", PodCapacity: 2}},
		Pods: []audit.PodRecord{
			snapshotPod("p1", "apps", "full", 100, 0),
			snapshotPod("p2", "apps", "full", 100, 0),
		},
	}

	assert.Empty(t, SchedulingIssues(snap, nil, policy.Default()))
}

func TestSchedulingIssuesPendingAndFailed(t *testing.T) {
	pending := corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "stuck", Namespace: "apps"},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{{
				Name: "main",
				Resources: corev1.ResourceRequirements{
					Requests: corev1.ResourceList{
						corev1.ResourceCPU:    resource.MustParse("250m"),
						corev1.ResourceMemory: resource.MustParse("64Mi"),
					},
				},
			}},
		},
		Status: corev1.PodStatus{
			Phase: corev1.PodPending,
			Conditions: []corev1.PodCondition{
				{Type: corev1.PodScheduled, Status: corev1.ConditionFalse, Reason: "Unschedulable"},
			},
		},
	}

	pendingNoReason := corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "mystery", Namespace: "apps"},
		Status:     corev1.PodStatus{Phase: corev1.PodPending},
	}

	failed := corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "dead", Namespace: "apps"},
		Spec:       corev1.PodSpec{NodeName: "node-a"},
		Status:     corev1.PodStatus{Phase: corev1.PodFailed, Reason: "Evicted"},
	}

	failedNoReason := corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "gone", Namespace: "apps"},
		Status:     corev1.PodStatus{Phase: corev1.PodFailed},
	}

	systemPending := corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "sys", Namespace: "kube-system"},
		Status:     corev1.PodStatus{Phase: corev1.PodPending},
	}

	running := corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "fine", Namespace: "apps"},
		Status:     corev1.PodStatus{Phase: corev1.PodRunning},
	}

	raw := []corev1.Pod{pending, pendingNoReason, failed, failedNoReason, systemPending, running}
	issues := SchedulingIssues(&audit.Snapshot{}, raw, policy.Default())
	require.Len(t, issues, 4)

	assert.Equal(t, SchedulingPending, issues[0].Kind)
	assert.Equal(t, "Unschedulable", issues[0].Reason)
	assert.Equal(t, SchedulingSeverityHigh, issues[0].Severity)
	assert.Equal(t, int64(250), issues[0].CPURequest)

	assert.Equal(t, "Unknown", issues[1].Reason)

	assert.Equal(t, SchedulingFailed, issues[2].Kind)
	assert.Equal(t, "Evicted", issues[2].Reason)
	assert.Equal(t, SchedulingSeverityMedium, issues[2].Severity)
	assert.Equal(t, "node-a", issues[2].Node)

	assert.Equal(t, "Unknown", issues[3].Reason)
}
