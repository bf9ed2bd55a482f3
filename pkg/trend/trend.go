package trend

import (
	"github.com/mchmarny/kaudit/pkg/audit"
)

// DefaultWindow is the number of trailing history entries the windowed
// delta spans when no window is given. History entries are assumed to be
// produced roughly daily, so the default reads as one week.
const DefaultWindow = 7

// Direction summarizes the sign of a delta.
type Direction string

const (
	DirectionUp     Direction = "UP"
	DirectionDown   Direction = "DOWN"
	DirectionSteady Direction = "STEADY"
)

// DirectionOf maps a signed change to its Direction.
func DirectionOf(change int) Direction {
	switch {
	case change > 0:
		return DirectionUp
	case change < 0:
		return DirectionDown
	default:
		return DirectionSteady
	}
}

// Delta is the previous-run comparison: the newest snapshot against the
// one immediately preceding it.
type Delta struct {
	IssueChange       int                      `json:"issue_change"`
	PodChange         int                      `json:"pod_change"`
	IssueDirection    Direction                `json:"issue_direction"`
	SeverityBreakdown map[audit.Severity]int   `json:"severity_breakdown"`
	Current           audit.ClusterStats       `json:"current"`
	Previous          audit.ClusterStats       `json:"previous"`
}

// WindowDelta is the trailing-window comparison: the first entry of the
// window against the last.
type WindowDelta struct {
	Window               int       `json:"window"`
	IssueChange          int       `json:"issue_change"`
	PodChange            int       `json:"pod_change"`
	CPULimitsRatioChange float64   `json:"cpu_limits_ratio_change"`
	IssueDirection       Direction `json:"issue_direction"`
}

// PreviousRunDelta compares the newest snapshot to the immediately
// preceding one. Returns nil when fewer than two snapshots exist.
func PreviousRunDelta(history []audit.Snapshot) *Delta {
	if len(history) < 2 {
		return nil
	}

	current := history[len(history)-1].ClusterStats
	previous := history[len(history)-2].ClusterStats

	issueChange := current.ContainersWithIssues - previous.ContainersWithIssues

	breakdown := map[audit.Severity]int{}
	for severity, count := range current.SeverityBreakdown {
		breakdown[severity] = count - previous.SeverityBreakdown[severity]
	}
	for severity, count := range previous.SeverityBreakdown {
		if _, ok := current.SeverityBreakdown[severity]; !ok {
			breakdown[severity] = -count
		}
	}

	return &Delta{
		IssueChange:       issueChange,
		PodChange:         current.TotalPods - previous.TotalPods,
		IssueDirection:    DirectionOf(issueChange),
		SeverityBreakdown: breakdown,
		Current:           current,
		Previous:          previous,
	}
}

// WindowedDelta compares the first and last entries of the trailing
// window of the history. A window of 0 or less uses DefaultWindow.
// Returns nil when the history holds fewer entries than the window.
func WindowedDelta(history []audit.Snapshot, window int) *WindowDelta {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(history) < window {
		return nil
	}

	recent := history[len(history)-window:]
	first := recent[0].ClusterStats
	last := recent[len(recent)-1].ClusterStats

	issueChange := last.ContainersWithIssues - first.ContainersWithIssues

	return &WindowDelta{
		Window:               window,
		IssueChange:          issueChange,
		PodChange:            last.TotalPods - first.TotalPods,
		CPULimitsRatioChange: last.ResourceUtilization.CPULimitsRatio - first.ResourceUtilization.CPULimitsRatio,
		IssueDirection:       DirectionOf(issueChange),
	}
}
