package cli

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/kaudit/pkg/history"
	"github.com/mchmarny/kaudit/pkg/policy"
)

const defaultHistoryPath = "reports/history.json"

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "Output file path (default: stdout)",
}

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"t"},
	Value:   "json",
	Usage:   "Output format: json, yaml, table",
}

var kubeconfigFlag = &cli.StringFlag{
	Name:    "kubeconfig",
	Usage:   "Path to kubeconfig file (default: standard discovery)",
	Sources: cli.EnvVars("KUBECONFIG"),
}

var historyFlag = &cli.StringFlag{
	Name:    "history",
	Value:   defaultHistoryPath,
	Usage:   "History store path (.db/.sqlite selects the SQLite backend)",
	Sources: cli.EnvVars("KAUDIT_HISTORY"),
}

var policyFlag = &cli.StringFlag{
	Name:  "policy",
	Usage: "JSON or YAML file with extra system namespaces and prefixes",
}

var includeSystemFlag = &cli.BoolFlag{
	Name:  "include-system",
	Usage: "Audit system namespaces too",
}

// newHistoryStore picks the store backend from the path extension.
func newHistoryStore(path string) (history.Store, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") {
		return history.NewSQLiteStore(path)
	}
	return history.NewFileStore(path), nil
}

// loadPolicy builds the namespace policy from the optional policy file
// and the include-system override.
func loadPolicy(path string, includeSystem bool) (policy.Policy, error) {
	pol := policy.Default()
	if path != "" {
		loaded, err := policy.Load(path)
		if err != nil {
			return policy.Policy{}, err
		}
		pol = loaded
	}
	if includeSystem {
		pol.IncludeSystem = true
	}
	return pol, nil
}
