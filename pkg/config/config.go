// Package config loads the semverpop settings from .semverpop.yaml,
// SEMVERPOP_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Sumatoshi-tech/semverpop/pkg/dedup"
)

// Config is the top-level configuration. Field tags use mapstructure for
// viper unmarshalling and json for schema validation.
type Config struct {
	Corpus     CorpusConfig     `json:"corpus"     mapstructure:"corpus"`
	Dedup      DedupConfig      `json:"dedup"      mapstructure:"dedup"`
	Popularity PopularityConfig `json:"popularity" mapstructure:"popularity"`
	Cutoff     CutoffConfig     `json:"cutoff"     mapstructure:"cutoff"`
	Packages   PackagesConfig   `json:"packages"   mapstructure:"packages"`
	Report     ReportConfig     `json:"report"     mapstructure:"report"`
	Logging    LoggingConfig    `json:"logging"    mapstructure:"logging"`
	Telemetry  TelemetryConfig  `json:"telemetry"  mapstructure:"telemetry"`
}

// CorpusConfig locates the input files. Relative file names resolve
// against Dir.
type CorpusConfig struct {
	Dir             string `json:"dir"              mapstructure:"dir"`
	BreakingChanges string `json:"breaking_changes" mapstructure:"breaking_changes"`
	APIExtensions   string `json:"api_extensions"   mapstructure:"api_extensions"`
	Artifacts       string `json:"artifacts"        mapstructure:"artifacts"`
	ExpandedCoords  string `json:"expanded_coords"  mapstructure:"expanded_coords"`
	Callables       string `json:"callables"        mapstructure:"callables"`
	Popularity      string `json:"popularity"       mapstructure:"popularity"`
	Dependents      string `json:"dependents"       mapstructure:"dependents"`
}

// Path resolves name against Dir unless it is absolute or empty.
func (c CorpusConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(c.Dir, name)
}

// DedupConfig lists the duplicate categories applied in order.
type DedupConfig struct {
	Categories []string `json:"categories" mapstructure:"categories"`
}

// PopularityConfig drives the breaking vs. other callable comparison.
type PopularityConfig struct {
	Metrics       []string `json:"metrics"        mapstructure:"metrics"`
	DensityPoints int      `json:"density_points" mapstructure:"density_points"`
}

// CutoffConfig drives the method popularity curve.
type CutoffConfig struct {
	Metric     string  `json:"metric"      mapstructure:"metric"`
	Bins       int     `json:"bins"        mapstructure:"bins"`
	MinSamples int     `json:"min_samples" mapstructure:"min_samples"`
	Degree     int     `json:"degree"      mapstructure:"degree"`
	Points     int     `json:"points"      mapstructure:"points"`
	Span       float64 `json:"span"        mapstructure:"span"`
	Epsilon    float64 `json:"epsilon"     mapstructure:"epsilon"`
}

// PackagesConfig drives the package popularity windows.
type PackagesConfig struct {
	Windows int `json:"windows" mapstructure:"windows"`
	Degree  int `json:"degree"  mapstructure:"degree"`
}

// ReportConfig controls rendered output.
type ReportConfig struct {
	OutputDir      string  `json:"output_dir"      mapstructure:"output_dir"`
	HistogramBins  int     `json:"histogram_bins"  mapstructure:"histogram_bins"`
	HistogramRange float64 `json:"histogram_range" mapstructure:"histogram_range"`
	Charts         bool    `json:"charts"          mapstructure:"charts"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
	JSON  bool   `json:"json"  mapstructure:"json"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	OTLPEndpoint string  `json:"otlp_endpoint" mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `json:"otlp_insecure" mapstructure:"otlp_insecure"`
	OTLPHeaders  string  `json:"otlp_headers"  mapstructure:"otlp_headers"`
	SampleRatio  float64 `json:"sample_ratio"  mapstructure:"sample_ratio"`
	MetricsFile  string  `json:"metrics_file"  mapstructure:"metrics_file"`
}

// Sentinel validation errors.
var (
	// ErrMissingCorpusFile indicates a required corpus file name is empty.
	ErrMissingCorpusFile = errors.New("corpus.breaking_changes and corpus.api_extensions are required")
	// ErrUnknownCategory indicates a dedup category outside the known set.
	ErrUnknownCategory = errors.New("dedup.categories contains an unknown category")
	// ErrDuplicateCategory indicates a dedup category listed twice.
	ErrDuplicateCategory = errors.New("dedup.categories lists a category twice")
	// ErrInvalidCutoffDegree indicates too few bins for the fitted degree.
	ErrInvalidCutoffDegree = errors.New("cutoff.bins must exceed cutoff.degree")
	// ErrInvalidHistogram indicates a non-positive histogram range.
	ErrInvalidHistogram = errors.New("report.histogram_range must be positive")
)

// Validate checks cross-field constraints the schema cannot express.
func (c *Config) Validate() error {
	if c.Corpus.BreakingChanges == "" || c.Corpus.APIExtensions == "" {
		return ErrMissingCorpusFile
	}

	seen := make(map[dedup.Category]struct{}, len(c.Dedup.Categories))

	for _, name := range c.Dedup.Categories {
		cat, err := dedup.ParseCategory(name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnknownCategory, err)
		}

		if _, dup := seen[cat]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
		}

		seen[cat] = struct{}{}
	}

	if c.Cutoff.Bins <= c.Cutoff.Degree {
		return ErrInvalidCutoffDegree
	}

	if c.Report.HistogramRange <= 0 {
		return ErrInvalidHistogram
	}

	return nil
}
