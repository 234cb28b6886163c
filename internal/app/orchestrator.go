// Package app wires configuration, loaders, stores and exporters into the
// build and export pipelines the CLI drives.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/quantmind-br/wploader-go/internal/config"
	"github.com/quantmind-br/wploader-go/internal/domain"
	"github.com/quantmind-br/wploader-go/internal/utils"
)

// Orchestrator coordinates builds and exports for one site
type Orchestrator struct {
	config *config.Config
	deps   *Dependencies
	logger *utils.Logger
	opts   OrchestratorOptions
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	domain.CommonOptions
	Config *config.Config
	// Store replaces the configured store backend when set
	Store domain.Store
	// Progress receives progress bars; nil disables them
	Progress io.Writer
	// LogOutput overrides where logs are written
	LogOutput io.Writer
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := "info"
	logFormat := "pretty"
	if cfg.Logging.Level != "" {
		logLevel = cfg.Logging.Level
	}
	if cfg.Logging.Format != "" {
		logFormat = cfg.Logging.Format
	}
	if opts.Verbose {
		logLevel = "debug"
	}

	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  logFormat,
		Output:  opts.LogOutput,
		Verbose: opts.Verbose,
	})

	deps, err := NewDependencies(DependencyOptions{
		Config: cfg,
		Logger: logger,
		Store:  opts.Store,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dependencies: %w", err)
	}

	return &Orchestrator{
		config: cfg,
		deps:   deps,
		logger: logger,
		opts:   opts,
	}, nil
}

// Build loads the given kinds, or the configured collections when none
// are given, into the store
func (o *Orchestrator) Build(ctx context.Context, kinds ...domain.Kind) (*BuildReport, error) {
	if len(kinds) == 0 {
		kinds = o.config.Kinds()
	}

	o.logger.Info().
		Str("endpoint", o.deps.Loaders.Endpoint().String()).
		Str("store", o.config.Store.Backend).
		Msg("Starting WordPress load")

	builder := NewBuilder(o.deps.Loaders, o.deps.Store, BuilderOptions{
		Workers:  o.config.Build.Workers,
		Progress: o.opts.Progress,
		Logger:   o.logger,
	})
	return builder.Build(ctx, kinds...)
}

// Export writes stored posts and pages to the configured output directory
func (o *Orchestrator) Export(ctx context.Context) (*ExportReport, error) {
	start := time.Now()
	exporter := NewExporter(o.deps.Store, ExporterOptions{
		OutputDir: o.config.Output.Directory,
		Overwrite: o.config.Output.Overwrite || o.opts.Force,
		DryRun:    o.opts.DryRun,
		JSONIndex: o.config.Output.JSONIndex,
		SourceURL: o.config.Endpoint,
		Progress:  o.opts.Progress,
		Logger:    o.logger,
	})

	report, err := exporter.Export(ctx)
	if err != nil {
		if ctx.Err() != nil {
			o.logger.Warn().Msg("Export cancelled")
			return report, ctx.Err()
		}
		return report, err
	}

	o.logger.Debug().Dur("duration", time.Since(start)).Msg("Export finished")
	return report, nil
}

// Store returns the read side of the entry store
func (o *Orchestrator) Store() domain.Reader {
	return o.deps.Store
}

// Logger returns the orchestrator's logger
func (o *Orchestrator) Logger() *utils.Logger {
	return o.logger
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.deps != nil {
		return o.deps.Close()
	}
	return nil
}
