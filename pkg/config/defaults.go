package config

import "github.com/Sumatoshi-tech/semverpop/pkg/dedup"

// Corpus defaults.
const (
	DefaultCorpusDir       = "resources"
	DefaultBreakingChanges = "breaking_changes.txt"
	DefaultAPIExtensions   = "api_extensions.txt"
	DefaultArtifacts       = "artifacts.txt"
	DefaultExpandedCoords  = "mvn.expanded_coords.txt"
	DefaultCallables       = "callables.txt"
	DefaultPopularityDir   = "popularity"
	DefaultDependentsDir   = "dependents"
)

// DefaultCategories names every duplicate category in reconciliation order.
func DefaultCategories() []string {
	cats := dedup.AllCategories()
	names := make([]string, len(cats))

	for i, c := range cats {
		names[i] = c.String()
	}

	return names
}

// DefaultPopularityMetrics are compared for every run.
var DefaultPopularityMetrics = []string{"dependent-percentage", "eigenvector", "degree"}

// Popularity defaults.
const DefaultDensityPoints = 200

// Cutoff defaults.
const (
	DefaultCutoffMetric     = "public-dependent-percentage"
	DefaultCutoffBins       = 1000
	DefaultCutoffMinSamples = 10
	DefaultCutoffDegree     = 3
	DefaultCutoffPoints     = 100
	DefaultCutoffSpan       = 5.0
	DefaultCutoffEpsilon    = 0.01
)

// Package window defaults.
const (
	DefaultPackageWindows = 130
	DefaultPackageDegree  = 2
)

// Report defaults.
const (
	DefaultOutputDir      = "plots"
	DefaultHistogramBins  = 35
	DefaultHistogramRange = 35.0
	DefaultCharts         = true
)

// Logging defaults.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
)
