package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/semverpop/pkg/corpus"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
	"github.com/Sumatoshi-tech/semverpop/pkg/popularity"
	"github.com/Sumatoshi-tech/semverpop/pkg/report"
	"github.com/Sumatoshi-tech/semverpop/pkg/summary"
)

const (
	// aboveFraction is the violations/methods share reported as "above 1%".
	aboveFraction = 0.01

	// ratioCeiling bounds the ratios shown in the distribution chart.
	ratioCeiling = 0.6

	analyzePage = "analyze.html"
)

type analyzeOptions struct {
	snapshot string
	export   exportOptions
}

func newAnalyzeCommand(ro *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize breaking changes and illegal API extensions",
		Long: `Parse both violation files, align and reconcile them, then print the
headline numbers and popularity comparisons and render the charts.

Examples:
  semverpop analyze --corpus resources
  semverpop analyze --snapshot run.json.lz4 --no-charts
  semverpop analyze --export run.yaml --sqlite runs.db`,
		Args: cobra.NoArgs,
		RunE: withEnv(ro, func(ctx context.Context, env *runEnv) error {
			return runAnalyze(ctx, env, opts)
		}),
	}

	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "read a reconciled snapshot instead of the violation files")
	cmd.Flags().StringVar(&opts.export.file, "export", "", "write the reconciled corpus (.json, .yaml, optionally .lz4)")
	cmd.Flags().StringVar(&opts.export.sqlite, "sqlite", "", "write the reconciled corpus into a SQLite database")

	return cmd
}

func runAnalyze(ctx context.Context, env *runEnv, opts *analyzeOptions) error {
	st, err := loadCorpus(ctx, env, opts.snapshot)
	if err != nil {
		return err
	}

	var sections []report.Section

	err = env.stage(ctx, "summary", func(ctx context.Context) error {
		sections, err = summarize(ctx, env, st)

		return err
	})
	if err != nil {
		return err
	}

	page := report.NewPage("semverpop analysis")
	chartOpts := report.DefaultChartOpts()

	err = env.stage(ctx, "charts", func(context.Context) error {
		return distributionCharts(env, st, chartOpts, page)
	})
	if err != nil {
		return err
	}

	err = env.stage(ctx, "popularity", func(ctx context.Context) error {
		popSections, popErr := comparePopularity(ctx, env, st, chartOpts, page)
		sections = append(sections, popSections...)

		return popErr
	})
	if err != nil {
		return err
	}

	err = env.writeTables(sections...)
	if err != nil {
		return err
	}

	err = env.savePage(ctx, page, analyzePage)
	if err != nil {
		return err
	}

	return export(ctx, env, st, opts.export)
}

func summarize(ctx context.Context, env *runEnv, st *corpusState) ([]report.Section, error) {
	headline := report.Section{Title: "Corpus"}
	headline.Add("artifacts", report.Count(len(st.bc)))

	bcShare, err := summary.ShareWithViolations(st.bc)
	if err != nil {
		return nil, err
	}

	aixShare, err := summary.ShareWithViolations(st.aix)
	if err != nil {
		return nil, err
	}

	either, err := summary.ShareWithEither(st.bc, st.aix)
	if err != nil {
		return nil, err
	}

	above, err := summary.ArtifactsAbove(st.bc, aboveFraction)
	if err != nil {
		return nil, err
	}

	overlap := summary.Intersect(st.bc, st.aix)

	headline.Add("with breaking changes", report.ShareValue(bcShare)).
		Add("with illegal API extensions", report.ShareValue(aixShare)).
		Add("with either", report.ShareValue(either)).
		Add("breaking changes above 1% of methods", report.ShareValue(above)).
		Add("violating on both sides", report.Count(overlap.Removals+overlap.Additions-overlap.Union))

	if st.uniqueNames > 0 {
		headline.Add("distinct callable names", report.Count(st.uniqueNames))
	}

	for _, r := range st.removals {
		headline.Add("removed as "+r.Category+" duplicates", report.Count(r.Removed))
	}

	if st.majors != nil {
		avg, avgErr := summary.AverageViolationRatio(st.majors)
		if avgErr == nil {
			headline.Add("average violation ratio", report.Float(avg))
		} else if !errors.Is(avgErr, model.ErrEmptyInput) {
			return nil, avgErr
		}

		headline.Add("artifacts with clean and violating majors", report.Count(len(summary.MixedMajors(st.majors))))
	}

	releases, err := releaseRows(ctx, env, st)
	if err != nil {
		return nil, err
	}

	headline.Rows = append(headline.Rows, releases...)

	sections := []report.Section{headline}

	for _, side := range []struct {
		title string
		arts  []model.Artifact
	}{
		{"Breaking changes per artifact", st.bc},
		{"Illegal API extensions per artifact", st.aix},
	} {
		pcts, pctErr := summary.ViolationPercentages(side.arts)
		if pctErr != nil {
			return nil, pctErr
		}

		bands, bandErr := summary.Band(pcts)
		if errors.Is(bandErr, model.ErrEmptyInput) {
			env.logger.InfoContext(ctx, "no violations", "side", side.title)

			continue
		}

		if bandErr != nil {
			return nil, bandErr
		}

		sections = append(sections, report.BandsSection(side.title, bands))
	}

	return sections, nil
}

// releaseRows reports violating releases against expected releases when the
// expanded coordinate list is present.
func releaseRows(ctx context.Context, env *runEnv, st *corpusState) ([]report.Row, error) {
	path := env.cfg.Corpus.Path(env.cfg.Corpus.ExpandedCoords)

	found, err := exists(path)
	if err != nil {
		return nil, err
	}

	if !found {
		env.logger.InfoContext(ctx, "no expanded coordinates, skipping release shares", "path", path)

		return nil, nil
	}

	releases, err := corpus.LoadReleases(path)
	if err != nil {
		return nil, err
	}

	env.metrics.RecordParsed(ctx, "releases", len(releases))

	var rows []report.Row

	for _, side := range []struct {
		name string
		arts []model.Artifact
		kind summary.Side
	}{
		{"releases with breaking changes", st.bc, summary.BreakingSide},
		{"releases with illegal API extensions", st.aix, summary.ExtensionSide},
	} {
		share, shareErr := summary.ReleaseShare(side.arts, releases, side.kind)
		if errors.Is(shareErr, model.ErrEmptyInput) {
			continue
		}

		if shareErr != nil {
			return nil, shareErr
		}

		rows = append(rows, report.Row{Metric: side.name, Value: report.ShareValue(share)})
	}

	return rows, nil
}

func distributionCharts(env *runEnv, st *corpusState, c *report.ChartOpts, page *report.Page) error {
	if !env.cfg.Report.Charts {
		return nil
	}

	bcPcts, err := summary.ViolationPercentages(st.bc)
	if err != nil {
		return err
	}

	aixPcts, err := summary.ViolationPercentages(st.aix)
	if err != nil {
		return err
	}

	bcRatios, err := summary.Ratios(st.bc, 0, ratioCeiling)
	if err != nil {
		return err
	}

	aixRatios, err := summary.Ratios(st.aix, 0, ratioCeiling)
	if err != nil {
		return err
	}

	rc := env.cfg.Report

	page.Add(
		report.ViolationHistogram(c, bcPcts, aixPcts, rc.HistogramBins, rc.HistogramRange),
		report.TrendChart(c, "breaking changes", summary.TrendPoints(st.bc)),
		report.TrendChart(c, "illegal API extensions", summary.TrendPoints(st.aix)),
		report.RatioBoxPlot(c, "violations per method", []report.NamedValues{
			{Name: "breaking changes", Values: bcRatios},
			{Name: "illegal API extensions", Values: aixRatios},
		}),
	)

	return nil
}

// comparePopularity compares every configured metric between breaking
// callables and the rest. A metric without usable samples is skipped.
func comparePopularity(
	ctx context.Context, env *runEnv, st *corpusState, c *report.ChartOpts, page *report.Page,
) ([]report.Section, error) {
	cc := env.cfg.Corpus
	root := cc.Path(cc.Popularity)

	found, err := exists(root)
	if err != nil {
		return nil, err
	}

	if !found {
		env.logger.InfoContext(ctx, "no popularity store, skipping comparisons", "path", root)

		return nil, nil
	}

	universe, err := loadUniverse(ctx, env)
	if err != nil {
		return nil, err
	}

	store := corpus.NewStore(root)
	coords := coordinates(st.bc)

	var sections []report.Section

	for _, metric := range env.cfg.Popularity.Metrics {
		samples, loadErr := store.LoadMetricFor(ctx, coords, metric)
		if loadErr != nil {
			return nil, loadErr
		}

		env.metrics.RecordParsed(ctx, metric, len(samples))

		cmp, cmpErr := popularity.Compare(st.bc, samples, universe, env.cfg.Popularity.DensityPoints)
		if errors.Is(cmpErr, model.ErrEmptyInput) {
			env.logger.WarnContext(ctx, "skipping metric without samples", "metric", metric, "error", cmpErr)

			continue
		}

		if cmpErr != nil {
			return nil, cmpErr
		}

		sections = append(sections, report.ComparisonSection(metric, cmp))

		if env.cfg.Report.Charts {
			page.Add(report.DensityChart(c, metric, cmp))
		}
	}

	return sections, nil
}

// loadUniverse reads the callable universe; nil means every callable counts.
func loadUniverse(ctx context.Context, env *runEnv) ([]string, error) {
	path := env.cfg.Corpus.Path(env.cfg.Corpus.Callables)

	found, err := exists(path)
	if err != nil || !found {
		return nil, err
	}

	ids, err := corpus.LoadCallableIDs(path)
	if err != nil {
		return nil, err
	}

	env.metrics.RecordParsed(ctx, "callables", len(ids))

	return ids, nil
}
