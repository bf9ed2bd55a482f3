package analyzer

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/mchmarny/kaudit/pkg/audit"
	"github.com/mchmarny/kaudit/pkg/policy"
)

// SchedulingIssueKind identifies one class of scheduling problem.
type SchedulingIssueKind string

const (
	SchedulingOverCapacity SchedulingIssueKind = "OVER_CAPACITY"
	SchedulingPending      SchedulingIssueKind = "PENDING"
	SchedulingFailed       SchedulingIssueKind = "FAILED"
)

// SchedulingSeverity is the severity vocabulary for scheduling issues.
// It is distinct from the container issue severity and the two must not
// be mixed.
type SchedulingSeverity string

const (
	SchedulingSeverityCritical SchedulingSeverity = "CRITICAL"
	SchedulingSeverityHigh     SchedulingSeverity = "HIGH"
	SchedulingSeverityMedium   SchedulingSeverity = "MEDIUM"
)

// reasonUnknown is reported when a pod carries no usable reason.
const reasonUnknown = "Unknown"

// SchedulingIssue is one detected scheduling problem. Over-capacity
// nodes are reported as synthetic pods named node-<name> in the
// reserved "cluster" namespace.
type SchedulingIssue struct {
	PodName       string              `json:"pod_name"`
	Namespace     string              `json:"namespace"`
	Kind          SchedulingIssueKind `json:"kind"`
	Reason        string              `json:"reason"`
	Node          string              `json:"node,omitempty"`
	CPURequest    int64               `json:"cpu_request"`
	MemoryRequest int64               `json:"memory_request"`
	Severity      SchedulingSeverity  `json:"severity"`
}

// SchedulingIssues detects over-capacity nodes from the snapshot plus
// pending and failed pods from the raw pod list. Only pods outside
// system namespaces are considered. Over-capacity issues come first,
// then raw-pod issues in input order.
func SchedulingIssues(snap *audit.Snapshot, rawPods []corev1.Pod, pol policy.Policy) []SchedulingIssue {
	issues := overCapacityIssues(snap)

	for i := range rawPods {
		pod := &rawPods[i]
		if pol.IsSystem(pod.Namespace) {
			continue
		}
		if issue := nonRunningIssue(pod); issue != nil {
			issues = append(issues, *issue)
		}
	}

	return issues
}

func overCapacityIssues(snap *audit.Snapshot) []SchedulingIssue {
	usage := sumNodeRequests(snap.Pods)

	var issues []SchedulingIssue
	for _, node := range snap.Nodes {
		u := usage[node.Name]
		if int64(u.pods) <= node.PodCapacity {
			continue
		}
		issues = append(issues, SchedulingIssue{
			PodName:       fmt.Sprintf("node-%s", node.Name),
			Namespace:     "cluster",
			Kind:          SchedulingOverCapacity,
			Reason:        fmt.Sprintf("Node has %d pods but capacity is %d", u.pods, node.PodCapacity),
			Node:          node.Name,
			CPURequest:    u.cpu,
			MemoryRequest: u.memory,
			Severity:      SchedulingSeverityCritical,
		})
	}
	return issues
}

func nonRunningIssue(pod *corev1.Pod) *SchedulingIssue {
	switch pod.Status.Phase {
	case corev1.PodPending, corev1.PodFailed:
	default:
		return nil
	}

	cpu, memory := audit.PodResourceRequests(pod)
	issue := &SchedulingIssue{
		PodName:       pod.Name,
		Namespace:     pod.Namespace,
		Node:          pod.Spec.NodeName,
		CPURequest:    cpu,
		MemoryRequest: memory,
	}

	if pod.Status.Phase == corev1.PodPending {
		issue.Kind = SchedulingPending
		issue.Reason = pendingReason(pod)
		issue.Severity = SchedulingSeverityHigh
		return issue
	}

	issue.Kind = SchedulingFailed
	issue.Reason = pod.Status.Reason
	if issue.Reason == "" {
		issue.Reason = reasonUnknown
	}
	issue.Severity = SchedulingSeverityMedium
	return issue
}

// pendingReason extracts the scheduler's reason from the PodScheduled
// condition with status False, defaulting to Unknown.
func pendingReason(pod *corev1.Pod) string {
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodScheduled && cond.Status == corev1.ConditionFalse {
			if cond.Reason != "" {
				return cond.Reason
			}
			return reasonUnknown
		}
	}
	return reasonUnknown
}
