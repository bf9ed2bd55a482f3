package audit

import (
	"fmt"
	"strings"
)

// IssueCode is a short machine-readable identifier for one detected
// misconfiguration on a container (e.g. NO_CPU_LIMIT, HIGH_CPU_RATIO_12.0x).
type IssueCode string

// Missing-resource issue codes. The CPU and memory families are detected
// independently; within a family the codes are mutually exclusive.
const (
	IssueNoCPUResources    IssueCode = "NO_CPU_RESOURCES"
	IssueNoCPURequest      IssueCode = "NO_CPU_REQUEST"
	IssueNoCPULimit        IssueCode = "NO_CPU_LIMIT"
	IssueNoMemoryResources IssueCode = "NO_MEMORY_RESOURCES"
	IssueNoMemoryRequest   IssueCode = "NO_MEMORY_REQUEST"
	IssueNoMemoryLimit     IssueCode = "NO_MEMORY_LIMIT"
)

const (
	cpuRatioPrefix    = "HIGH_CPU_RATIO_"
	memoryRatioPrefix = "HIGH_MEMORY_RATIO_"

	missingPrefix = "NO_"
)

// Ratio thresholds above which a limit/request ratio is flagged.
const (
	CPURatioThreshold    = 10.0
	MemoryRatioThreshold = 5.0
)

// HighCPURatioIssue builds the issue code for an excessive CPU
// limit/request ratio, embedding the ratio formatted to one decimal.
func HighCPURatioIssue(ratio float64) IssueCode {
	return IssueCode(fmt.Sprintf("%s%.1fx", cpuRatioPrefix, ratio))
}

// HighMemoryRatioIssue builds the issue code for an excessive memory
// limit/request ratio, embedding the ratio formatted to one decimal.
func HighMemoryRatioIssue(ratio float64) IssueCode {
	return IssueCode(fmt.Sprintf("%s%.1fx", memoryRatioPrefix, ratio))
}

// IsMissingResources reports whether the code marks a container with
// neither request nor limit set for a resource family.
func (c IssueCode) IsMissingResources() bool {
	return c == IssueNoCPUResources || c == IssueNoMemoryResources
}

// IsHighRatio reports whether the code marks an excessive limit/request ratio.
func (c IssueCode) IsHighRatio() bool {
	s := string(c)
	return strings.HasPrefix(s, cpuRatioPrefix) || strings.HasPrefix(s, memoryRatioPrefix)
}

// IsMissing reports whether the code marks any missing request or limit.
func (c IssueCode) IsMissing() bool {
	return strings.HasPrefix(string(c), missingPrefix)
}

// Severity classifies how serious a container's resource
// misconfiguration is.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// severityRules is the ordered severity ladder, evaluated first-match-wins:
// CRITICAL > HIGH > MEDIUM, with LOW as the default (including no issues).
var severityRules = []struct {
	match    func(IssueCode) bool
	severity Severity
}{
	{IssueCode.IsMissingResources, SeverityCritical},
	{IssueCode.IsHighRatio, SeverityHigh},
	{IssueCode.IsMissing, SeverityMedium},
}

// SeverityFor returns the severity for an issue list by walking the
// ordered rule ladder.
func SeverityFor(issues []IssueCode) Severity {
	for _, rule := range severityRules {
		for _, code := range issues {
			if rule.match(code) {
				return rule.severity
			}
		}
	}
	return SeverityLow
}

// DetectIssues classifies one container's canonical request/limit
// quantities into an ordered issue list. Missing-resource codes come
// first (CPU family, then memory family), followed by ratio codes.
func DetectIssues(cpuRequest, cpuLimit, memoryRequest, memoryLimit int64) []IssueCode {
	var issues []IssueCode

	switch {
	case cpuRequest == 0 && cpuLimit == 0:
		issues = append(issues, IssueNoCPUResources)
	case cpuRequest == 0:
		issues = append(issues, IssueNoCPURequest)
	case cpuLimit == 0:
		issues = append(issues, IssueNoCPULimit)
	}

	switch {
	case memoryRequest == 0 && memoryLimit == 0:
		issues = append(issues, IssueNoMemoryResources)
	case memoryRequest == 0:
		issues = append(issues, IssueNoMemoryRequest)
	case memoryLimit == 0:
		issues = append(issues, IssueNoMemoryLimit)
	}

	if cpuRequest > 0 && cpuLimit > 0 {
		if ratio := float64(cpuLimit) / float64(cpuRequest); ratio > CPURatioThreshold {
			issues = append(issues, HighCPURatioIssue(ratio))
		}
	}

	if memoryRequest > 0 && memoryLimit > 0 {
		if ratio := float64(memoryLimit) / float64(memoryRequest); ratio > MemoryRatioThreshold {
			issues = append(issues, HighMemoryRatioIssue(ratio))
		}
	}

	return issues
}
