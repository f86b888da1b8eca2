package summary

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/semverpop/pkg/alg/stats"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// AverageViolationRatio returns, in percent, the mean over artifacts with
// violations of sum(violations) / mean(methods per major).
func AverageViolationRatio(majors []model.Major) (float64, error) {
	type acc struct {
		violations int
		methods    int
		majors     int
	}

	order := make([]model.Coordinate, 0)
	byCoord := make(map[model.Coordinate]*acc)

	for _, m := range majors {
		a, ok := byCoord[m.Coordinate]
		if !ok {
			a = &acc{}
			byCoord[m.Coordinate] = a
			order = append(order, m.Coordinate)
		}

		a.violations += m.Violations
		a.methods += m.NumberMethods
		a.majors++
	}

	ratios := make([]float64, 0, len(order))

	for _, c := range order {
		a := byCoord[c]
		if a.violations <= 0 {
			continue
		}

		if a.methods == 0 {
			return 0, fmt.Errorf("%w: %s has no methods", model.ErrEmptyInput, c)
		}

		meanMethods := float64(a.methods) / float64(a.majors)
		ratios = append(ratios, float64(a.violations)/meanMethods)
	}

	if len(ratios) == 0 {
		return 0, fmt.Errorf("%w: no artifact has violations", model.ErrEmptyInput)
	}

	return stats.Mean(ratios) * percent, nil
}

// MixedMajors returns, in first-seen order, the coordinates that have both a
// major without violations and a major with violations.
func MixedMajors(majors []model.Major) []model.Coordinate {
	type seen struct{ clean, violating bool }

	var order []model.Coordinate

	flags := make(map[model.Coordinate]*seen)

	for _, m := range majors {
		f, ok := flags[m.Coordinate]
		if !ok {
			f = &seen{}
			flags[m.Coordinate] = f
			order = append(order, m.Coordinate)
		}

		if m.Violations == 0 {
			f.clean = true
		} else {
			f.violating = true
		}
	}

	var out []model.Coordinate

	for _, c := range order {
		if f := flags[c]; f.clean && f.violating {
			out = append(out, c)
		}
	}

	return out
}

// ViolatingReleases counts the distinct "g:a:version" releases named by the
// callables of arts.
func ViolatingReleases(arts []model.Artifact) (int, error) {
	releases := make(map[model.Release]struct{})

	for _, art := range arts {
		for _, desc := range art.Callables {
			c, err := model.ParseCallable(desc)
			if err != nil {
				return 0, fmt.Errorf("%s: %w", art.Coordinate, err)
			}

			releases[model.Release{Coordinate: art.Coordinate, Version: c.Version}] = struct{}{}
		}
	}

	return len(releases), nil
}

// Side selects which releases ReleaseCount treats as the expected carriers
// of a change.
type Side int

// Sides of the analysis.
const (
	// BreakingSide skips X.0.0 releases, where breaking changes are allowed.
	BreakingSide Side = iota
	// ExtensionSide skips X.Y.0 releases, where extensions are allowed.
	ExtensionSide
)

const semverParts = 3

// ReleaseCount counts the releases of the coordinates in arts that are not
// allowed to carry the changes of side.
func ReleaseCount(arts []model.Artifact, releases []model.Release, side Side) int {
	wanted := make(map[model.Coordinate]struct{}, len(arts))
	for _, art := range arts {
		wanted[art.Coordinate] = struct{}{}
	}

	count := 0

	for _, rel := range releases {
		if _, ok := wanted[rel.Coordinate]; !ok {
			continue
		}

		if allowed(rel.Version, side) {
			continue
		}

		count++
	}

	return count
}

func allowed(version string, side Side) bool {
	parts := strings.Split(version, ".")
	if len(parts) < semverParts {
		return false
	}

	switch side {
	case BreakingSide:
		return parts[1] == "0" && parts[2] == "0"
	case ExtensionSide:
		return parts[2] == "0"
	}

	return false
}

// ReleaseShare is violating releases over counted releases.
func ReleaseShare(arts []model.Artifact, releases []model.Release, side Side) (Share, error) {
	violating, err := ViolatingReleases(arts)
	if err != nil {
		return Share{}, err
	}

	return newShare(violating, ReleaseCount(arts, releases, side))
}
