package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/kaudit/pkg/logging"
)

const name = "kaudit"

// overridden during build with ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Run parses args and executes the selected command.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:                  name,
		Usage:                 "Kubernetes cluster resource audit and trend engine",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level: debug, info, warn, error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			auditCmd(),
			trendsCmd(),
			historyCmd(),
			publishCmd(),
		},
	}

	return app.Run(ctx, args)
}
