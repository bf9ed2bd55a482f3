package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/kaudit/pkg/analyzer"
	"github.com/mchmarny/kaudit/pkg/audit"
	"github.com/mchmarny/kaudit/pkg/k8s"
	"github.com/mchmarny/kaudit/pkg/serializer"
	"github.com/mchmarny/kaudit/pkg/trend"
)

// AuditReport is the full output of one audit run.
type AuditReport struct {
	Snapshot    *audit.Snapshot                      `json:"snapshot"`
	Density     []analyzer.PodDensityRecord          `json:"pod_density"`
	Efficiency  []analyzer.NamespaceEfficiencyRecord `json:"namespace_efficiency"`
	Scheduling  []analyzer.SchedulingIssue           `json:"scheduling_issues"`
	PreviousRun *trend.Delta                         `json:"previous_run,omitempty"`
}

func auditCmd() *cli.Command {
	return &cli.Command{
		Name:                  "audit",
		EnableShellCompletion: true,
		Usage:                 "Run one cluster resource audit",
		Description: `Run a single audit pass over the cluster:
  1. Fetch all nodes and pods
  2. Build an immutable snapshot (running pods, user namespaces only)
  3. Classify per-container resource issues and severities
  4. Compute cluster statistics and the density, efficiency, and
     scheduling rollups
  5. Append the snapshot to the bounded history store
  6. Render the report

The report can be output in JSON, YAML, or table format.

# Examples

Audit with default settings, JSON to stdout:
  kaudit audit

Write YAML report to a file, SQLite history:
  kaudit audit --format yaml --output report.yaml --history reports/history.db

Skip persisting the snapshot:
  kaudit audit --no-save`,
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
			kubeconfigFlag,
			historyFlag,
			policyFlag,
			includeSystemFlag,
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "Do not append the snapshot to the history store",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			pol, err := loadPolicy(cmd.String("policy"), cmd.Bool("include-system"))
			if err != nil {
				return err
			}

			client, err := k8s.BuildClient(cmd.String("kubeconfig"))
			if err != nil {
				return err
			}

			nodes, pods, err := k8s.NewFetcher(client).Fetch(ctx)
			if err != nil {
				return err
			}

			collector := &audit.Collector{Policy: pol}
			snap := collector.Collect(nodes, pods)

			report := &AuditReport{
				Snapshot:   snap,
				Density:    analyzer.PodDensity(snap, pods, pol),
				Efficiency: analyzer.NamespaceEfficiency(snap),
				Scheduling: analyzer.SchedulingIssues(snap, pods, pol),
			}

			if !cmd.Bool("no-save") {
				store, err := newHistoryStore(cmd.String("history"))
				if err != nil {
					return err
				}
				if closer, ok := store.(io.Closer); ok {
					defer closer.Close()
				}
				snapshots, err := store.Save(ctx, snap)
				if err != nil {
					return err
				}
				report.PreviousRun = trend.PreviousRunDelta(snapshots)
				slog.Info("snapshot saved",
					slog.String("id", snap.ID),
					slog.Int("history_size", len(snapshots)))
			}

			writer := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer writer.Close()
			return writer.Serialize(ctx, report)
		},
	}
}
