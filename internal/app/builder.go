package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quantmind-br/wploader-go/internal/domain"
	"github.com/quantmind-br/wploader-go/internal/loader"
	"github.com/quantmind-br/wploader-go/internal/utils"
)

// LoaderSet selects the loaders for a build
type LoaderSet interface {
	Select(kinds []domain.Kind) ([]loader.Loader, error)
}

// Builder runs loaders into a sink, concurrently across kinds
type Builder struct {
	loaders  LoaderSet
	sink     domain.Sink
	workers  int
	progress io.Writer
	logger   *utils.Logger
}

// BuilderOptions configures a Builder
type BuilderOptions struct {
	Workers int
	// Progress receives the progress bar; nil disables it
	Progress io.Writer
	Logger   *utils.Logger
}

// BuildReport summarizes a build
type BuildReport struct {
	Results  []loader.Result
	Failed   []domain.Kind
	Duration time.Duration
}

// Stored returns the number of entries written across all kinds
func (r *BuildReport) Stored() int {
	n := 0
	for _, res := range r.Results {
		n += res.Stored
	}
	return n
}

// NewBuilder creates a builder
func NewBuilder(loaders LoaderSet, sink domain.Sink, opts BuilderOptions) *Builder {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Builder{
		loaders:  loaders,
		sink:     sink,
		workers:  opts.Workers,
		progress: opts.Progress,
		logger:   logger.WithComponent("builder"),
	}
}

// Build loads the given kinds, or every kind when none are given. Each
// kind's pages are fetched in order by its own loader. The build fails if
// any loader fails and the error names every failing kind.
func (b *Builder) Build(ctx context.Context, kinds ...domain.Kind) (*BuildReport, error) {
	start := time.Now()

	selected, err := b.loaders.Select(kinds)
	if err != nil {
		return nil, err
	}

	b.logger.Info().
		Int("collections", len(selected)).
		Int("workers", b.workers).
		Msg("Starting build")

	var bar *progressbar.ProgressBar
	if b.progress != nil {
		bar = utils.NewProgressBar(len(selected), utils.DescLoading, b.progress)
	}

	report := &BuildReport{Results: make([]loader.Result, len(selected))}
	indexed := make([]int, len(selected))
	for i := range indexed {
		indexed[i] = i
	}

	errs := utils.ParallelForEach(ctx, indexed, b.workers, func(ctx context.Context, i int) error {
		l := selected[i]
		res, err := l.Load(ctx, b.sink)
		res.Kind = l.Kind()
		report.Results[i] = res
		if bar != nil {
			_ = bar.Add(1)
		}
		if err != nil {
			b.logger.Error().Err(err).Str("loader", l.Name()).Msg("Loader failed")
			return err
		}
		return nil
	})

	for i, err := range errs {
		if err != nil {
			report.Failed = append(report.Failed, selected[i].Kind())
		}
	}
	report.Duration = time.Since(start)

	if err := utils.JoinErrors(errs); err != nil {
		if ctx.Err() != nil {
			b.logger.Warn().Msg("Build cancelled")
			return report, ctx.Err()
		}
		return report, fmt.Errorf("build failed for %v: %w", report.Failed, err)
	}

	b.logger.Info().
		Int("stored", report.Stored()).
		Dur("duration", report.Duration).
		Msg("Build completed")

	return report, nil
}
