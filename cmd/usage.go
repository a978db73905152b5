package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/fido-usage-cli/internal/adapters/render/metrics"
	"github.com/bnema/fido-usage-cli/internal/adapters/render/summary"
	"github.com/bnema/fido-usage-cli/internal/application"
	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/spf13/cobra"
)

var errNumberRequired = errors.New("phone number is required: pass --number, set FIDO_NUMBER or register a single line")

type usageOptions struct {
	number   string
	password string
	influx   bool
	format   string
	parallel bool
	timeout  time.Duration
}

func newUsageCmd(app *app) *cobra.Command {
	var opts usageOptions

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Sign in and print usage, balance and Fido dollars of a line",
		Example: `  fido usage -n 5145550199 -p hunter2
  fido usage -n 5145550199 -i
  fido usage --format summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUsage(cmd, app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.number, "number", "n", "", "Phone number of the line")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "Account password (default: FIDO_PASSWORD, then the stored password)")
	cmd.Flags().BoolVarP(&opts.influx, "influxdb", "i", false, "Print InfluxDB line protocol instead of JSON")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format (json|influx|summary), wins over --influxdb (default: output.format, json)")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Fetch balance, Fido dollars and usage concurrently")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (0 keeps the configured value)")

	return cmd
}

func runUsage(cmd *cobra.Command, app *app, opts usageOptions) error {
	ctx := cmd.Context()

	format, err := resolveFormat(app, opts)
	if err != nil {
		return err
	}

	number, err := resolveNumber(ctx, app, opts.number)
	if err != nil {
		return err
	}

	password := opts.password
	if password == "" {
		password = app.cfg.Password
	}

	creds, err := app.service.ResolveCredentials(ctx, number, password)
	if err != nil {
		return err
	}

	service := app.usageService(opts.timeout)
	collectOpts := application.CollectOptions{Parallel: opts.parallel}

	var report application.Report
	collect := func(ctx context.Context) error {
		var err error
		report, err = service.Collect(ctx, creds, collectOpts)
		return err
	}

	if format == metrics.FormatSummary {
		err = runFetchSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Signing in and fetching usage for %s...", number), collect)
	} else {
		err = collect(ctx)
	}
	if err != nil {
		return err
	}

	return writeReport(cmd, app, report, format)
}

func resolveFormat(app *app, opts usageOptions) (metrics.Format, error) {
	switch {
	case opts.format != "":
		return metrics.ParseFormat(opts.format)
	case opts.influx:
		return metrics.FormatInflux, nil
	default:
		return metrics.ParseFormat(app.cfg.Output.Format)
	}
}

func resolveNumber(ctx context.Context, app *app, raw string) (domain.PhoneNumber, error) {
	if raw == "" {
		raw = app.cfg.Number
	}
	if strings.TrimSpace(raw) != "" {
		return domain.NormalizePhoneNumber(raw)
	}

	lines, err := app.service.ListLines(ctx)
	if err != nil {
		return "", err
	}
	if len(lines) != 1 {
		return "", errNumberRequired
	}

	return lines[0].Number, nil
}

// writeReport renders into a buffer first so a rendering error never leaves
// partial output on stdout.
func writeReport(cmd *cobra.Command, app *app, report application.Report, format metrics.Format) error {
	var buf bytes.Buffer

	switch format {
	case metrics.FormatInflux:
		if err := metrics.WriteLines(&buf, report.Metrics); err != nil {
			return err
		}
	case metrics.FormatSummary:
		line, err := app.service.LookupLine(cmd.Context(), report.Number)
		if err != nil {
			return err
		}
		rendered, err := app.summaryRenderer(summary.Input{
			Line:          line,
			AccountNumber: report.AccountNumber,
			Metrics:       report.Metrics,
			FetchedAt:     report.FetchedAt,
		})
		if err != nil {
			return fmt.Errorf("render summary: %w", err)
		}
		buf.WriteString(rendered)
		buf.WriteByte('\n')
	default:
		if err := metrics.WriteJSON(&buf, report.Metrics); err != nil {
			return err
		}
	}

	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
