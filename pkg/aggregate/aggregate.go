// Package aggregate folds per-major observations into per-artifact records
// and completes breaking-change and extension collections so they cover the
// same coordinates.
package aggregate

import (
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// placeholderMethods is the method count given to artifacts that were never
// observed with violations. It keeps ratios over them defined.
const placeholderMethods = 1

// Aggregate folds majors into one artifact per coordinate, in first-seen order.
// Violations are summed, method counts take the maximum and callable lists
// are concatenated with duplicates preserved.
func Aggregate(majors []model.Major) []model.Artifact {
	index := make(map[model.Coordinate]int, len(majors))
	artifacts := make([]model.Artifact, 0, len(majors))

	for _, m := range majors {
		pos, ok := index[m.Coordinate]
		if !ok {
			index[m.Coordinate] = len(artifacts)
			artifacts = append(artifacts, model.NewArtifact(m))

			continue
		}

		art := &artifacts[pos]
		art.NumberMethods = max(art.NumberMethods, m.NumberMethods)
		art.Violations += m.Violations
		art.Callables = append(art.Callables, m.Callables...)
	}

	return artifacts
}

// FromArtifacts views aggregated artifacts as degenerate single-major inputs.
func FromArtifacts(artifacts []model.Artifact) []model.Major {
	majors := make([]model.Major, len(artifacts))

	for i, art := range artifacts {
		majors[i] = art.AsMajor()
	}

	return majors
}

// Placeholder returns an artifact with no violations for a coordinate that
// appears in the study but produced no observation.
func Placeholder(c model.Coordinate) model.Artifact {
	return model.Artifact{Coordinate: c, NumberMethods: placeholderMethods}
}

// Complete returns copies of bc and aix that both hold every coordinate found
// in bc, aix or extra, in the same order. Order follows bc, then coordinates
// only present in aix, then coordinates only present in extra. Missing
// entries are filled with Placeholder.
func Complete(bc, aix []model.Artifact, extra []model.Coordinate) (outBC, outAIX []model.Artifact) {
	bcIndex := indexOf(bc)
	aixIndex := indexOf(aix)

	order := make([]model.Coordinate, 0, len(bc)+len(aix)+len(extra))
	seen := make(map[model.Coordinate]struct{}, cap(order))

	add := func(c model.Coordinate) {
		if _, dup := seen[c]; dup {
			return
		}

		seen[c] = struct{}{}
		order = append(order, c)
	}

	for _, art := range bc {
		add(art.Coordinate)
	}

	for _, art := range aix {
		add(art.Coordinate)
	}

	for _, c := range extra {
		add(c)
	}

	outBC = make([]model.Artifact, len(order))
	outAIX = make([]model.Artifact, len(order))

	for i, c := range order {
		outBC[i] = pick(bc, bcIndex, c)
		outAIX[i] = pick(aix, aixIndex, c)
	}

	return outBC, outAIX
}

func indexOf(artifacts []model.Artifact) map[model.Coordinate]int {
	index := make(map[model.Coordinate]int, len(artifacts))

	for i, art := range artifacts {
		if _, ok := index[art.Coordinate]; !ok {
			index[art.Coordinate] = i
		}
	}

	return index
}

func pick(artifacts []model.Artifact, index map[model.Coordinate]int, c model.Coordinate) model.Artifact {
	if pos, ok := index[c]; ok {
		return artifacts[pos].Clone()
	}

	return Placeholder(c)
}
