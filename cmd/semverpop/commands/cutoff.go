package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/semverpop/pkg/corpus"
	"github.com/Sumatoshi-tech/semverpop/pkg/popularity"
	"github.com/Sumatoshi-tech/semverpop/pkg/report"
)

const cutoffPage = "cutoff.html"

func newCutoffCommand(ro *rootOptions) *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Use:   "cutoff",
		Short: "Estimate the popularity cutoff of methods within a package",
		Long: `Rank the methods of every package by a popularity metric, fit the
average binned profile and report the point that splits the area under
the fitted curve in half.

Examples:
  semverpop cutoff
  semverpop cutoff --metric public-dependent-percentage -o plots`,
		Args: cobra.NoArgs,
		RunE: withEnv(ro, func(ctx context.Context, env *runEnv) error {
			if metric != "" {
				env.cfg.Cutoff.Metric = metric
			}

			return runCutoff(ctx, env)
		}),
	}

	cmd.Flags().StringVar(&metric, "metric", "", "popularity metric file to read (default from config)")

	return cmd
}

func curveConfig(env *runEnv) popularity.CurveConfig {
	cc := env.cfg.Cutoff

	return popularity.CurveConfig{
		Bins:       cc.Bins,
		MinSamples: cc.MinSamples,
		Degree:     cc.Degree,
		Points:     cc.Points,
		Span:       cc.Span,
		Epsilon:    cc.Epsilon,
	}
}

func runCutoff(ctx context.Context, env *runEnv) error {
	metric := env.cfg.Cutoff.Metric
	store := corpus.NewStore(env.cfg.Corpus.Path(env.cfg.Corpus.Popularity))

	var groups [][]float64

	err := env.stage(ctx, "load-groups", func(ctx context.Context) error {
		var loadErr error

		groups, loadErr = store.MetricGroups(ctx, metric)
		if loadErr == nil {
			env.metrics.RecordParsed(ctx, metric, len(groups))
		}

		return loadErr
	})
	if err != nil {
		return err
	}

	var (
		curve popularity.Curve
		usage popularity.Usage
	)

	err = env.stage(ctx, "fit", func(context.Context) error {
		var fitErr error

		curve, fitErr = popularity.MethodCurve(groups, curveConfig(env))
		if fitErr != nil {
			return fitErr
		}

		usage, fitErr = popularity.ZeroUsage(groups)

		return fitErr
	})
	if err != nil {
		return err
	}

	if curve.HasCutoff {
		env.logger.InfoContext(ctx, "found cutoff", "metric", metric,
			"x", curve.Cutoff.X, "fraction", curve.Cutoff.Fraction)
	} else {
		env.logger.WarnContext(ctx, "no balance point within tolerance", "metric", metric,
			"epsilon", env.cfg.Cutoff.Epsilon)
	}

	err = env.writeTables(report.CurveSection(metric, curve), report.UsageSection(usage))
	if err != nil {
		return err
	}

	page := report.NewPage("semverpop popularity cutoff")
	if env.cfg.Report.Charts {
		page.Add(report.CurveChart(report.DefaultChartOpts(), metric, curve))
	}

	return env.savePage(ctx, page, cutoffPage)
}
