// Package dedup removes from the API-extension side the callables that are
// the replacement half of a rename already counted as a breaking change.
package dedup

import (
	"fmt"

	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// KeySet is a set of duplicate keys.
type KeySet map[Key]struct{}

// Stats are the diagnostics of one deduplication pass.
type Stats struct {
	Category Category
	// Removed counts extension callables dropped by the pass.
	Removed int
	// UniqueKeys sums the size of the per-artifact removal sets.
	UniqueKeys int
}

// Result is the adjusted extension collection with its pass diagnostics.
type Result struct {
	Artifacts []model.Artifact
	Stats     Stats
}

// keyedCallable is one parsed callable with its key under the active category.
type keyedCallable struct {
	version string
	key     Key
}

// Deduplicate returns a copy of aix in which every callable whose key also
// appears among the breaking changes of the same release is removed.
// Violations are reset to the filtered callable count. bc and aix are joined
// by coordinate and must describe the same set of coordinates.
func Deduplicate(bc, aix []model.Artifact, cat Category) (Result, error) {
	keyOf, err := cat.keyFunc()
	if err != nil {
		return Result{}, err
	}

	bcIndex, err := join(bc, aix)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Artifacts: make([]model.Artifact, 0, len(aix)),
		Stats:     Stats{Category: cat},
	}

	for _, ext := range aix {
		bcKeys, parseErr := parseAll(bc[bcIndex[ext.Coordinate]], keyOf)
		if parseErr != nil {
			return Result{}, parseErr
		}

		extKeys, parseErr := parseAll(ext, keyOf)
		if parseErr != nil {
			return Result{}, parseErr
		}

		removal := intersect(byVersion(bcKeys), byVersion(extKeys))
		res.Stats.UniqueKeys += len(removal)

		kept := make([]string, 0, len(ext.Callables))

		for i, kc := range extKeys {
			if _, drop := removal[kc.key]; drop {
				res.Stats.Removed++

				continue
			}

			kept = append(kept, ext.Callables[i])
		}

		out := ext.Clone()
		out.Callables = kept
		out.Violations = len(kept)
		res.Artifacts = append(res.Artifacts, out)
	}

	return res, nil
}

// Intersections returns, per coordinate, the keys that Deduplicate would
// remove from aix under cat. Swapping bc and aix yields the same sets.
func Intersections(bc, aix []model.Artifact, cat Category) (map[model.Coordinate]KeySet, error) {
	keyOf, err := cat.keyFunc()
	if err != nil {
		return nil, err
	}

	bcIndex, err := join(bc, aix)
	if err != nil {
		return nil, err
	}

	sets := make(map[model.Coordinate]KeySet, len(aix))

	for _, ext := range aix {
		bcKeys, parseErr := parseAll(bc[bcIndex[ext.Coordinate]], keyOf)
		if parseErr != nil {
			return nil, parseErr
		}

		extKeys, parseErr := parseAll(ext, keyOf)
		if parseErr != nil {
			return nil, parseErr
		}

		sets[ext.Coordinate] = intersect(byVersion(bcKeys), byVersion(extKeys))
	}

	return sets, nil
}

// UniqueNames counts, summed over artifacts, the distinct callable names that
// appear in either the breaking changes or the extensions of an artifact.
func UniqueNames(bc, aix []model.Artifact) (int, error) {
	bcIndex, err := join(bc, aix)
	if err != nil {
		return 0, err
	}

	total := 0

	for _, ext := range aix {
		names := make(map[string]struct{})

		for _, art := range []model.Artifact{bc[bcIndex[ext.Coordinate]], ext} {
			for _, desc := range art.Callables {
				c, parseErr := model.ParseCallable(desc)
				if parseErr != nil {
					return 0, fmt.Errorf("%s: %w", art.Coordinate, parseErr)
				}

				names[c.Name] = struct{}{}
			}
		}

		total += len(names)
	}

	return total, nil
}

// join indexes bc by coordinate and checks that aix covers the same keys.
func join(bc, aix []model.Artifact) (map[model.Coordinate]int, error) {
	if len(bc) != len(aix) {
		return nil, fmt.Errorf("%w: %d breaking-change artifacts, %d extension artifacts",
			model.ErrMisalignedInput, len(bc), len(aix))
	}

	bcIndex := make(map[model.Coordinate]int, len(bc))

	for i, art := range bc {
		if _, dup := bcIndex[art.Coordinate]; dup {
			return nil, fmt.Errorf("%w: %s repeated among breaking changes", model.ErrMisalignedInput, art.Coordinate)
		}

		bcIndex[art.Coordinate] = i
	}

	seen := make(map[model.Coordinate]struct{}, len(aix))

	for _, art := range aix {
		if _, dup := seen[art.Coordinate]; dup {
			return nil, fmt.Errorf("%w: %s repeated among extensions", model.ErrMisalignedInput, art.Coordinate)
		}

		seen[art.Coordinate] = struct{}{}

		if _, ok := bcIndex[art.Coordinate]; !ok {
			return nil, fmt.Errorf("%w: %s has no breaking-change record", model.ErrMisalignedInput, art.Coordinate)
		}
	}

	return bcIndex, nil
}

func parseAll(art model.Artifact, keyOf keyFunc) ([]keyedCallable, error) {
	out := make([]keyedCallable, len(art.Callables))

	for i, desc := range art.Callables {
		c, err := model.ParseCallable(desc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", art.Coordinate, err)
		}

		sig, err := model.ParseSignature(c.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", art.Coordinate, err)
		}

		out[i] = keyedCallable{version: c.Version, key: keyOf(sig)}
	}

	return out, nil
}

func byVersion(callables []keyedCallable) map[string]KeySet {
	groups := make(map[string]KeySet)

	for _, kc := range callables {
		set, ok := groups[kc.version]
		if !ok {
			set = make(KeySet)
			groups[kc.version] = set
		}

		set[kc.key] = struct{}{}
	}

	return groups
}

// intersect unions, over versions present on both sides, the per-version
// key intersections.
func intersect(left, right map[string]KeySet) KeySet {
	out := make(KeySet)

	for version, ls := range left {
		rs, ok := right[version]
		if !ok {
			continue
		}

		for k := range ls {
			if _, both := rs[k]; both {
				out[k] = struct{}{}
			}
		}
	}

	return out
}
