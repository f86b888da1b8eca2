package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/semverpop/pkg/report"
	"github.com/Sumatoshi-tech/semverpop/pkg/summary"
)

func newDedupCommand(ro *rootOptions) *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Remove renamed callables counted as both breaking change and extension",
		Long: `Align both violation files and drop every illegal API extension whose
signature, with one field ignored, matches a breaking change of the same
release. Categories run in the configured order.

Examples:
  semverpop dedup --out reconciled.json.lz4
  semverpop dedup --sqlite runs.db`,
		Args: cobra.NoArgs,
		RunE: withEnv(ro, func(ctx context.Context, env *runEnv) error {
			return runDedup(ctx, env, opts)
		}),
	}

	cmd.Flags().StringVar(&opts.file, "out", "", "write the reconciled corpus (.json, .yaml, optionally .lz4)")
	cmd.Flags().StringVar(&opts.sqlite, "sqlite", "", "write the reconciled corpus into a SQLite database")

	return cmd
}

func runDedup(ctx context.Context, env *runEnv, opts exportOptions) error {
	st, err := loadCorpus(ctx, env, "")
	if err != nil {
		return err
	}

	s := report.Section{Title: "Duplicate removal"}
	s.Add("artifacts", report.Count(len(st.bc))).
		Add("distinct callable names", report.Count(st.uniqueNames))

	total := 0

	for _, r := range st.removals {
		s.Add(r.Category, report.Count(r.Removed))
		total += r.Removed
	}

	s.Add("total removed", report.Count(total))

	share, err := summary.ShareWithViolations(st.aix)
	if err != nil {
		return err
	}

	s.Add("with illegal API extensions after removal", report.ShareValue(share))

	err = env.writeTables(s)
	if err != nil {
		return err
	}

	return export(ctx, env, st, opts)
}
