package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".semverpop"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for semverpop settings.
const envPrefix = "SEMVERPOP"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	readErr := v.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := v.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	schemaErr := ValidateSchema(&cfg)
	if schemaErr != nil {
		return nil, fmt.Errorf("validate config: %w", schemaErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("corpus.dir", DefaultCorpusDir)
	v.SetDefault("corpus.breaking_changes", DefaultBreakingChanges)
	v.SetDefault("corpus.api_extensions", DefaultAPIExtensions)
	v.SetDefault("corpus.artifacts", DefaultArtifacts)
	v.SetDefault("corpus.expanded_coords", DefaultExpandedCoords)
	v.SetDefault("corpus.callables", DefaultCallables)
	v.SetDefault("corpus.popularity", DefaultPopularityDir)
	v.SetDefault("corpus.dependents", DefaultDependentsDir)

	v.SetDefault("dedup.categories", DefaultCategories())

	v.SetDefault("popularity.metrics", DefaultPopularityMetrics)
	v.SetDefault("popularity.density_points", DefaultDensityPoints)

	v.SetDefault("cutoff.metric", DefaultCutoffMetric)
	v.SetDefault("cutoff.bins", DefaultCutoffBins)
	v.SetDefault("cutoff.min_samples", DefaultCutoffMinSamples)
	v.SetDefault("cutoff.degree", DefaultCutoffDegree)
	v.SetDefault("cutoff.points", DefaultCutoffPoints)
	v.SetDefault("cutoff.span", DefaultCutoffSpan)
	v.SetDefault("cutoff.epsilon", DefaultCutoffEpsilon)

	v.SetDefault("packages.windows", DefaultPackageWindows)
	v.SetDefault("packages.degree", DefaultPackageDegree)

	v.SetDefault("report.output_dir", DefaultOutputDir)
	v.SetDefault("report.histogram_bins", DefaultHistogramBins)
	v.SetDefault("report.histogram_range", DefaultHistogramRange)
	v.SetDefault("report.charts", DefaultCharts)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.json", DefaultLogJSON)

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_insecure", false)
	v.SetDefault("telemetry.otlp_headers", "")
	v.SetDefault("telemetry.sample_ratio", 0.0)
	v.SetDefault("telemetry.metrics_file", "")
}
