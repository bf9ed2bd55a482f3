package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/kaudit/pkg/oci"
)

func publishCmd() *cli.Command {
	return &cli.Command{
		Name:                  "publish",
		EnableShellCompletion: true,
		Usage:                 "Publish a report directory as an OCI artifact",
		Description: `Package a report directory and push it to an OCI registry so audit
reports can be stored and distributed next to container images.

The target must use the oci:// scheme. When the target carries no tag,
the CLI version is used.

# Examples

Publish to GitHub Container Registry:
  kaudit publish --source ./reports --target oci://ghcr.io/acme/audit-reports:2026-08-23

Local registry over HTTP:
  kaudit publish --source ./reports --target oci://localhost:5000/reports --plain-http`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Value:   "reports",
				Usage:   "Report directory to publish",
			},
			&cli.StringFlag{
				Name:     "target",
				Usage:    "OCI target (oci://registry/repository:tag)",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the registry (local development)",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification for the registry",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref, err := oci.ParseTarget(cmd.String("target"))
			if err != nil {
				return err
			}
			if !ref.IsOCI {
				return fmt.Errorf("publish target must use the %s scheme", oci.URIScheme)
			}
			if ref.Tag == "" {
				ref = ref.WithTag(version)
			}

			result, err := oci.Push(ctx, oci.PushOptions{
				SourceDir:   cmd.String("source"),
				Registry:    ref.Registry,
				Repository:  ref.Repository,
				Tag:         ref.Tag,
				PlainHTTP:   cmd.Bool("plain-http"),
				InsecureTLS: cmd.Bool("insecure-tls"),
				Annotations: map[string]string{
					"org.opencontainers.image.version": version,
					"org.opencontainers.image.title":   "kaudit report",
				},
			})
			if err != nil {
				return err
			}

			slog.Info("report published",
				slog.String("reference", result.Reference),
				slog.String("digest", result.Digest))
			return nil
		},
	}
}
