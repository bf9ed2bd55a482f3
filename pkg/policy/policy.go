package policy

import (
	"fmt"
	"strings"

	"github.com/mchmarny/kaudit/pkg/serializer"
)

// defaultNamespaces are namespaces always treated as system.
var defaultNamespaces = []string{
	"kube-system",
	"kube-public",
	"kube-node-lease",
	"default",
	"ingress-controller",
}

// defaultPrefixes mark namespaces created by cluster tooling.
var defaultPrefixes = []string{"cattle-", "rancher-", "kube-"}

// Policy decides whether a namespace belongs to the cluster's system
// plumbing or to a user workload.
type Policy struct {
	// IncludeSystem disables filtering entirely: no namespace is
	// classified as system.
	IncludeSystem bool `json:"includeSystem" yaml:"includeSystem"`

	// Namespaces is the set of exact namespace names treated as system.
	Namespaces []string `json:"namespaces" yaml:"namespaces"`

	// Prefixes lists namespace name prefixes treated as system.
	Prefixes []string `json:"prefixes" yaml:"prefixes"`
}

// Default returns the baseline policy covering the standard Kubernetes
// system namespaces and common tooling prefixes.
func Default() Policy {
	return Policy{
		Namespaces: append([]string(nil), defaultNamespaces...),
		Prefixes:   append([]string(nil), defaultPrefixes...),
	}
}

// Load reads extra system namespaces and prefixes from a JSON or YAML
// file and merges them onto the default policy. The format is detected
// from the file extension.
func Load(path string) (Policy, error) {
	extra, err := serializer.FromFile[Policy](path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to load policy file: %w", err)
	}

	p := Default()
	p.IncludeSystem = extra.IncludeSystem
	p.Namespaces = append(p.Namespaces, extra.Namespaces...)
	p.Prefixes = append(p.Prefixes, extra.Prefixes...)
	return p, nil
}

// IsSystem reports whether the namespace should be treated as system
// and excluded from the audit.
func (p Policy) IsSystem(namespace string) bool {
	if p.IncludeSystem {
		return false
	}
	for _, ns := range p.Namespaces {
		if namespace == ns {
			return true
		}
	}
	for _, prefix := range p.Prefixes {
		if strings.HasPrefix(namespace, prefix) {
			return true
		}
	}
	return false
}
