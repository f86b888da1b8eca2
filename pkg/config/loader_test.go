package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/semverpop/pkg/config"
	"github.com/Sumatoshi-tech/semverpop/pkg/dedup"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".semverpop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.DefaultCorpusDir, cfg.Corpus.Dir)
	assert.Equal(t, config.DefaultBreakingChanges, cfg.Corpus.BreakingChanges)
	assert.Equal(t, config.DefaultAPIExtensions, cfg.Corpus.APIExtensions)
	assert.Equal(t, []string{"module", "class", "method", "params", "return"}, cfg.Dedup.Categories)
	assert.Equal(t, config.DefaultPopularityMetrics, cfg.Popularity.Metrics)
	assert.Equal(t, config.DefaultDensityPoints, cfg.Popularity.DensityPoints)
	assert.Equal(t, config.DefaultCutoffMetric, cfg.Cutoff.Metric)
	assert.Equal(t, config.DefaultCutoffBins, cfg.Cutoff.Bins)
	assert.Equal(t, config.DefaultCutoffDegree, cfg.Cutoff.Degree)
	assert.InDelta(t, config.DefaultCutoffSpan, cfg.Cutoff.Span, 1e-9)
	assert.Equal(t, config.DefaultPackageWindows, cfg.Packages.Windows)
	assert.Equal(t, config.DefaultOutputDir, cfg.Report.OutputDir)
	assert.Equal(t, config.DefaultHistogramBins, cfg.Report.HistogramBins)
	assert.True(t, cfg.Report.Charts)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `corpus:
  dir: /data/corpus
  breaking_changes: bc.txt
dedup:
  categories: [method, return]
cutoff:
  bins: 500
  degree: 4
packages:
  windows: 50
logging:
  level: debug
  json: true
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/corpus", cfg.Corpus.Dir)
	assert.Equal(t, "bc.txt", cfg.Corpus.BreakingChanges)
	assert.Equal(t, config.DefaultAPIExtensions, cfg.Corpus.APIExtensions)
	assert.Equal(t, []string{"method", "return"}, cfg.Dedup.Categories)
	assert.Equal(t, 500, cfg.Cutoff.Bins)
	assert.Equal(t, 4, cfg.Cutoff.Degree)
	assert.Equal(t, 50, cfg.Packages.Windows)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
}

func TestLoadConfig_SchemaViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown log level", content: "logging:\n  level: loud\n"},
		{name: "empty category", content: "dedup:\n  categories: [\"\"]\n"},
		{name: "zero windows", content: "packages:\n  windows: 0\n"},
		{name: "sample ratio above one", content: "telemetry:\n  sample_ratio: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, config.ErrSchema)
		})
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "corpus: [unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SEMVERPOP_CUTOFF_METRIC", "degree")
	t.Setenv("SEMVERPOP_CORPUS_DIR", "/env/corpus")

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "degree", cfg.Cutoff.Metric)
	assert.Equal(t, "/env/corpus", cfg.Corpus.Dir)
}

func TestLoadConfig_CategoryNames(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "dedup:\n  categories: [Method, RETURN]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Method", "RETURN"}, cfg.Dedup.Categories)

	_, err = config.LoadConfig(writeConfig(t, "dedup:\n  categories: [method, Method]\n"))
	require.ErrorIs(t, err, config.ErrDuplicateCategory)

	_, err = config.LoadConfig(writeConfig(t, "dedup:\n  categories: [field]\n"))
	require.ErrorIs(t, err, config.ErrUnknownCategory)
	require.ErrorIs(t, err, dedup.ErrUnknownCategory)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func(t *testing.T) config.Config {
		t.Helper()

		cfg, err := config.LoadConfig(writeConfig(t, ""))
		require.NoError(t, err)

		return *cfg
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{
			name:    "missing breaking changes",
			mutate:  func(c *config.Config) { c.Corpus.BreakingChanges = "" },
			wantErr: config.ErrMissingCorpusFile,
		},
		{
			name:    "unknown category",
			mutate:  func(c *config.Config) { c.Dedup.Categories = []string{"field"} },
			wantErr: config.ErrUnknownCategory,
		},
		{
			name:    "duplicate category",
			mutate:  func(c *config.Config) { c.Dedup.Categories = []string{"class", "class"} },
			wantErr: config.ErrDuplicateCategory,
		},
		{
			name:    "bins not above degree",
			mutate:  func(c *config.Config) { c.Cutoff.Bins, c.Cutoff.Degree = 3, 3 },
			wantErr: config.ErrInvalidCutoffDegree,
		},
		{
			name:    "zero histogram range",
			mutate:  func(c *config.Config) { c.Report.HistogramRange = 0 },
			wantErr: config.ErrInvalidHistogram,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid(t)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCorpusConfig_Path(t *testing.T) {
	t.Parallel()

	c := config.CorpusConfig{Dir: "resources"}

	assert.Equal(t, filepath.Join("resources", "bc.txt"), c.Path("bc.txt"))
	assert.Equal(t, "/abs/bc.txt", c.Path("/abs/bc.txt"))
	assert.Empty(t, c.Path(""))
}
