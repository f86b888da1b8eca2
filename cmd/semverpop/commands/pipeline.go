package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/semverpop/pkg/aggregate"
	"github.com/Sumatoshi-tech/semverpop/pkg/corpus"
	"github.com/Sumatoshi-tech/semverpop/pkg/dedup"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
	"github.com/Sumatoshi-tech/semverpop/pkg/persist"
	"github.com/Sumatoshi-tech/semverpop/pkg/safeconv"
)

// corpusState is the aligned and reconciled pair of sides.
type corpusState struct {
	bc  []model.Artifact
	aix []model.Artifact
	// majors are the raw breaking change observations; nil when loaded from a snapshot.
	majors   []model.Major
	removals []persist.Removal
	// uniqueNames is counted before reconciliation; zero when loaded from a snapshot.
	uniqueNames int
}

// exists reports whether path names an existing file or directory.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("stat %s: %w", path, err)
}

// loadCorpus reads a snapshot when snapshotPath is set, otherwise parses,
// aggregates, aligns and reconciles both violation files.
func loadCorpus(ctx context.Context, env *runEnv, snapshotPath string) (*corpusState, error) {
	if snapshotPath != "" {
		return loadSnapshot(ctx, env, snapshotPath)
	}

	st := &corpusState{}

	err := env.stage(ctx, "parse", func(ctx context.Context) error {
		return parseCorpus(ctx, env, st)
	})
	if err != nil {
		return nil, err
	}

	err = env.stage(ctx, "dedup", func(ctx context.Context) error {
		return reconcile(ctx, env, st)
	})
	if err != nil {
		return nil, err
	}

	return st, nil
}

func loadSnapshot(ctx context.Context, env *runEnv, path string) (*corpusState, error) {
	var snap *persist.Snapshot

	err := env.stage(ctx, "load-snapshot", func(context.Context) error {
		var loadErr error

		snap, loadErr = persist.LoadSnapshot(path)

		return loadErr
	})
	if err != nil {
		return nil, err
	}

	env.logger.InfoContext(ctx, "loaded snapshot", "path", path, "run_id", snap.RunID,
		"artifacts", len(snap.BreakingChanges))

	return &corpusState{bc: snap.BreakingChanges, aix: snap.APIExtensions, removals: snap.Removals}, nil
}

func parseCorpus(ctx context.Context, env *runEnv, st *corpusState) error {
	cc := env.cfg.Corpus

	majors, err := corpus.LoadViolations(cc.Path(cc.BreakingChanges))
	if err != nil {
		return err
	}

	env.metrics.RecordParsed(ctx, persist.SideBreaking, len(majors))

	extMajors, err := corpus.LoadViolations(cc.Path(cc.APIExtensions))
	if err != nil {
		return err
	}

	env.metrics.RecordParsed(ctx, persist.SideExtension, len(extMajors))

	var extra []model.Coordinate

	artifactsPath := cc.Path(cc.Artifacts)

	found, err := exists(artifactsPath)
	if err != nil {
		return err
	}

	if found {
		extra, err = corpus.LoadCoordinates(artifactsPath, false)
		if err != nil {
			return err
		}

		env.metrics.RecordParsed(ctx, "artifacts", len(extra))
	} else {
		env.logger.InfoContext(ctx, "no artifact list, skipping completion", "path", artifactsPath)
	}

	st.majors = majors
	st.bc, st.aix = aggregate.Complete(aggregate.Aggregate(majors), aggregate.Aggregate(extMajors), extra)

	env.logger.InfoContext(ctx, "aggregated corpus",
		"majors", len(majors), "extension_majors", len(extMajors), "artifacts", len(st.bc))

	return nil
}

func reconcile(ctx context.Context, env *runEnv, st *corpusState) error {
	cats, err := categories(env.cfg.Dedup.Categories)
	if err != nil {
		return err
	}

	st.uniqueNames, err = dedup.UniqueNames(st.bc, st.aix)
	if err != nil {
		return err
	}

	aix, passes, err := dedup.Reconcile(st.bc, st.aix, cats...)
	if err != nil {
		return err
	}

	st.aix = aix

	for _, p := range passes {
		name := p.Category.String()
		env.metrics.RecordRemoved(ctx, name, p.Removed)
		env.logger.InfoContext(ctx, "reconciled duplicate names",
			"category", name, "removed", p.Removed, "unique_keys", p.UniqueKeys)
		st.removals = append(st.removals, persist.Removal{Category: name, Removed: p.Removed})
	}

	return nil
}

func categories(names []string) ([]dedup.Category, error) {
	out := make([]dedup.Category, 0, len(names))

	for _, name := range names {
		cat, err := dedup.ParseCategory(name)
		if err != nil {
			return nil, err
		}

		out = append(out, cat)
	}

	return out, nil
}

// exportOptions names the optional outputs of a reconciled corpus.
type exportOptions struct {
	file   string
	sqlite string
}

// export writes the reconciled corpus as a snapshot file and/or into SQLite.
func export(ctx context.Context, env *runEnv, st *corpusState, opts exportOptions) error {
	if opts.file == "" && opts.sqlite == "" {
		return nil
	}

	snap := &persist.Snapshot{
		RunID:           env.runID,
		CreatedAt:       time.Now().UTC(),
		BreakingChanges: st.bc,
		APIExtensions:   st.aix,
		Removals:        st.removals,
	}

	return env.stage(ctx, "export", func(ctx context.Context) error {
		if opts.file != "" {
			err := persist.SaveSnapshot(opts.file, snap)
			if err != nil {
				return err
			}

			info, err := os.Stat(opts.file)
			if err != nil {
				return fmt.Errorf("stat export: %w", err)
			}

			env.logger.InfoContext(ctx, "wrote snapshot", "path", opts.file,
				"size", humanize.Bytes(safeconv.MustInt64ToUint64(info.Size())))
		}

		if opts.sqlite != "" {
			db, err := persist.OpenDB(ctx, opts.sqlite)
			if err != nil {
				return err
			}

			err = db.WriteSnapshot(ctx, snap)
			closeErr := db.Close()

			if err != nil {
				return err
			}

			if closeErr != nil {
				return fmt.Errorf("close database: %w", closeErr)
			}

			env.logger.InfoContext(ctx, "wrote database", "path", opts.sqlite, "run_id", snap.RunID)
		}

		return nil
	})
}

// coordinates lists the coordinates of arts in order.
func coordinates(arts []model.Artifact) []model.Coordinate {
	out := make([]model.Coordinate, len(arts))
	for i, art := range arts {
		out[i] = art.Coordinate
	}

	return out
}
