package dedup

import (
	"fmt"

	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// Reconcile runs Deduplicate once per category, each pass consuming the
// extensions left by the previous one. With no categories every category is
// applied in AllCategories order.
func Reconcile(bc, aix []model.Artifact, cats ...Category) ([]model.Artifact, []Stats, error) {
	if len(cats) == 0 {
		cats = AllCategories()
	}

	current := aix
	stats := make([]Stats, 0, len(cats))

	for _, cat := range cats {
		res, err := Deduplicate(bc, current, cat)
		if err != nil {
			return nil, nil, fmt.Errorf("category %s: %w", cat, err)
		}

		current = res.Artifacts
		stats = append(stats, res.Stats)
	}

	return current, stats, nil
}
