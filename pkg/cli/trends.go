package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/kaudit/pkg/serializer"
	"github.com/mchmarny/kaudit/pkg/trend"
)

// TrendReport carries both trend semantics computed from the history.
// Either field may be null when the history is too short.
type TrendReport struct {
	Snapshots   int                `json:"snapshots"`
	PreviousRun *trend.Delta       `json:"previous_run"`
	Window      *trend.WindowDelta `json:"window"`
}

func trendsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "trends",
		EnableShellCompletion: true,
		Usage:                 "Compute trend deltas from stored history",
		Description: `Compute two trend deltas from the snapshot history:

  previous_run - the newest snapshot against the one immediately before
                 it (requires at least 2 snapshots)
  window       - the first against the last entry of the trailing
                 window (requires at least --window entries)

Either delta is null when the history is too short for it.

# Examples

Default 7-entry window:
  kaudit trends

Shorter window against a SQLite history:
  kaudit trends --window 3 --history reports/history.db`,
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
			historyFlag,
			&cli.IntFlag{
				Name:    "window",
				Aliases: []string{"w"},
				Value:   trend.DefaultWindow,
				Usage:   "Trailing window size in history entries",
			},
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

			report := &TrendReport{
				Snapshots:   len(snapshots),
				PreviousRun: trend.PreviousRunDelta(snapshots),
				Window:      trend.WindowedDelta(snapshots, int(cmd.Int("window"))),
			}

			writer := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer writer.Close()
			return writer.Serialize(ctx, report)
		},
	}
}
