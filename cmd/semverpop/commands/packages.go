package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/semverpop/pkg/corpus"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
	"github.com/Sumatoshi-tech/semverpop/pkg/popularity"
	"github.com/Sumatoshi-tech/semverpop/pkg/report"
)

const packagesPage = "packages.html"

type packagesOptions struct {
	snapshot string
	windows  int
	degree   int
}

func newPackagesCommand(ro *rootOptions) *cobra.Command {
	opts := &packagesOptions{}

	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Relate package popularity to breaking changes",
		Long: `Compute every package's share of distinct dependents and the ratio of
packages with breaking changes per popularity window.

Examples:
  semverpop packages
  semverpop packages --windows 50 --degree 2`,
		Args: cobra.NoArgs,
		RunE: withEnv(ro, func(ctx context.Context, env *runEnv) error {
			if opts.windows > 0 {
				env.cfg.Packages.Windows = opts.windows
			}

			if opts.degree > 0 {
				env.cfg.Packages.Degree = opts.degree
			}

			return runPackages(ctx, env, opts.snapshot)
		}),
	}

	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "read a reconciled snapshot instead of the violation files")
	cmd.Flags().IntVar(&opts.windows, "windows", 0, "number of popularity windows (default from config)")
	cmd.Flags().IntVar(&opts.degree, "degree", 0, "degree of the fitted polynomial (default from config)")

	return cmd
}

func runPackages(ctx context.Context, env *runEnv, snapshot string) error {
	st, err := loadCorpus(ctx, env, snapshot)
	if err != nil {
		return err
	}

	store := corpus.NewStore(env.cfg.Corpus.Path(env.cfg.Corpus.Dependents))

	var pop map[model.Coordinate]float64

	err = env.stage(ctx, "dependents", func(ctx context.Context) error {
		dependents, loadErr := store.Dependents(ctx, coordinates(st.bc))
		if loadErr != nil {
			return loadErr
		}

		env.metrics.RecordParsed(ctx, "dependents", len(dependents))

		pop, loadErr = popularity.PackagePopularity(dependents)

		return loadErr
	})
	if err != nil {
		return err
	}

	var rep popularity.PackageReport

	err = env.stage(ctx, "windows", func(context.Context) error {
		var winErr error

		rep, winErr = popularity.Packages(st.bc, pop, env.cfg.Packages.Windows, env.cfg.Packages.Degree)

		return winErr
	})
	if err != nil {
		return err
	}

	err = env.writeTables(report.PackagesSection(rep))
	if err != nil {
		return err
	}

	page := report.NewPage("semverpop package popularity")
	if env.cfg.Report.Charts {
		page.Add(report.WindowChart(report.DefaultChartOpts(), rep))
	}

	return env.savePage(ctx, page, packagesPage)
}
