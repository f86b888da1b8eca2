package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/semverpop/pkg/config"
	"github.com/Sumatoshi-tech/semverpop/pkg/observability"
	"github.com/Sumatoshi-tech/semverpop/pkg/report"
	"github.com/Sumatoshi-tech/semverpop/pkg/version"
)

// runEnv is everything a command needs for one invocation.
type runEnv struct {
	cfg      *config.Config
	runID    string
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *observability.RunMetrics
	out      io.Writer
	noColor  bool
	shutdown func(ctx context.Context) error
}

// newEnv loads configuration, applies flag overrides and starts observability.
func newEnv(cmd *cobra.Command, ro *rootOptions) (*runEnv, error) {
	cfg, err := config.LoadConfig(ro.configPath)
	if err != nil {
		return nil, err
	}

	applyRootFlags(cmd, ro, cfg)

	runID := uuid.NewString()

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.RunID = runID
	obsCfg.LogLevel = observability.ParseLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogOutput = cmd.ErrOrStderr()
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewRunMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return &runEnv{
		cfg:      cfg,
		runID:    runID,
		logger:   providers.Logger,
		tracer:   providers.Tracer,
		metrics:  metrics,
		out:      cmd.OutOrStdout(),
		noColor:  ro.noColor,
		shutdown: providers.Shutdown,
	}, nil
}

func applyRootFlags(cmd *cobra.Command, ro *rootOptions, cfg *config.Config) {
	if changed(cmd, "corpus") {
		cfg.Corpus.Dir = ro.corpusDir
	}

	if changed(cmd, "output") {
		cfg.Report.OutputDir = ro.outputDir
	}

	if changed(cmd, "log-level") {
		cfg.Logging.Level = ro.logLevel
	}

	if changed(cmd, "log-json") {
		cfg.Logging.JSON = ro.logJSON
	}

	if changed(cmd, "no-charts") {
		cfg.Report.Charts = !ro.noCharts
	}

	if changed(cmd, "metrics-file") {
		cfg.Telemetry.MetricsFile = ro.metricsFile
	}

	if changed(cmd, "otlp-endpoint") {
		cfg.Telemetry.OTLPEndpoint = ro.otlp
	}
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)

	return f != nil && f.Changed
}

// stage runs fn inside a traced, timed pipeline stage.
func (e *runEnv) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, end := observability.StartStage(ctx, e.tracer, e.metrics, name)

	err := fn(ctx)
	end(err)

	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}

// close flushes telemetry; the first error wins over the shutdown error.
func (e *runEnv) close(ctx context.Context, runErr error) error {
	shutdownErr := e.shutdown(ctx)
	if runErr != nil {
		return runErr
	}

	if shutdownErr != nil {
		return fmt.Errorf("shutdown observability: %w", shutdownErr)
	}

	return nil
}

// writeTables prints sections to the command output.
func (e *runEnv) writeTables(sections ...report.Section) error {
	return report.NewWriter(e.out, e.noColor).Write(sections...)
}

// savePage writes page under the report output directory unless charts are
// disabled or the page is empty.
func (e *runEnv) savePage(ctx context.Context, page *report.Page, name string) error {
	if !e.cfg.Report.Charts || page.Len() == 0 {
		return nil
	}

	path := filepath.Join(e.cfg.Report.OutputDir, name)

	err := page.Save(path)
	if err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "wrote charts", "path", path, "charts", page.Len())

	return nil
}

// withEnv wraps a command body with environment setup and teardown.
func withEnv(ro *rootOptions, body func(ctx context.Context, env *runEnv) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		env, err := newEnv(cmd, ro)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		env.logger.DebugContext(ctx, "starting", "command", cmd.Name(), "corpus", env.cfg.Corpus.Dir)

		return env.close(ctx, body(ctx, env))
	}
}
