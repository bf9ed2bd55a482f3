package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/kaudit/pkg/audit"
	"github.com/mchmarny/kaudit/pkg/serializer"
)

// HistoryEntry is one row of the history listing.
type HistoryEntry struct {
	ID                   string    `json:"id"`
	Timestamp            time.Time `json:"timestamp"`
	TotalNodes           int       `json:"total_nodes"`
	TotalPods            int       `json:"total_pods"`
	ContainersWithIssues int       `json:"containers_with_issues"`
	IssueRate            float64   `json:"issue_rate"`
}

// HistoryReport lists the stored snapshots, oldest first.
type HistoryReport struct {
	Snapshots []HistoryEntry `json:"snapshots"`
}

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "history",
		EnableShellCompletion: true,
		Usage:                 "List stored audit snapshots",
		Description: `List the snapshots in the history store, oldest first, with their
headline statistics. The store holds at most 30 entries; older ones
are evicted on save.`,
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
			historyFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			store, err := newHistoryStore(cmd.String("history"))
			if err != nil {
				return err
			}
			if closer, ok := store.(io.Closer); ok {
				defer closer.Close()
			}

			snapshots, err := store.Load(ctx)
			if err != nil {
				return err
			}

			report := &HistoryReport{Snapshots: summarize(snapshots)}

			writer := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer writer.Close()
			return writer.Serialize(ctx, report)
		},
	}
}

func summarize(snapshots []audit.Snapshot) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(snapshots))
	for _, snap := range snapshots {
		entries = append(entries, HistoryEntry{
			ID:                   snap.ID,
			Timestamp:            snap.Timestamp,
			TotalNodes:           snap.ClusterStats.TotalNodes,
			TotalPods:            snap.ClusterStats.TotalPods,
			ContainersWithIssues: snap.ClusterStats.ContainersWithIssues,
			IssueRate:            snap.ClusterStats.IssueRate,
		})
	}
	return entries
}
