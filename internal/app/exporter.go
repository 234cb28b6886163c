package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quantmind-br/wploader-go/internal/content"
	"github.com/quantmind-br/wploader-go/internal/domain"
	"github.com/quantmind-br/wploader-go/internal/export"
	"github.com/quantmind-br/wploader-go/internal/schema"
	"github.com/quantmind-br/wploader-go/internal/utils"
)

// Exporter writes stored posts and pages to Markdown files
type Exporter struct {
	reader    domain.Reader
	outputDir string
	overwrite bool
	dryRun    bool
	jsonIndex bool
	sourceURL string
	progress  io.Writer
	logger    *utils.Logger
}

// ExporterOptions configures an Exporter
type ExporterOptions struct {
	OutputDir string
	Overwrite bool
	DryRun    bool
	JSONIndex bool
	SourceURL string
	Progress  io.Writer
	Logger    *utils.Logger
}

// ExportReport summarizes an export
type ExportReport struct {
	Written  int
	Skipped  int
	Paths    []string
	Duration time.Duration
}

// NewExporter creates an exporter reading from r
func NewExporter(r domain.Reader, opts ExporterOptions) *Exporter {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Exporter{
		reader:    r,
		outputDir: opts.OutputDir,
		overwrite: opts.Overwrite,
		dryRun:    opts.DryRun,
		jsonIndex: opts.JSONIndex,
		sourceURL: opts.SourceURL,
		progress:  opts.Progress,
		logger:    logger.WithComponent("exporter"),
	}
}

// Export writes posts to posts/<slug>.md and pages to
// pages/<ancestor slugs>/<slug>.md
func (e *Exporter) Export(ctx context.Context) (*ExportReport, error) {
	start := time.Now()

	var site string
	settings, err := content.SiteSettings(ctx, e.reader)
	switch {
	case err == nil:
		site = settings.Name
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	collector := export.NewCollector(export.CollectorOptions{
		BaseDir:   e.outputDir,
		Site:      site,
		SourceURL: e.sourceURL,
		Enabled:   e.jsonIndex,
	})
	writer := export.NewWriter(export.WriterOptions{
		BaseDir:   e.outputDir,
		Overwrite: e.overwrite,
		DryRun:    e.dryRun,
		Collector: collector,
	})

	docs, err := e.documents(ctx)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if e.progress != nil {
		bar = utils.NewProgressBar(len(docs), utils.DescExporting, e.progress)
	}

	report := &ExportReport{}
	for _, doc := range docs {
		res, err := writer.Write(ctx, doc)
		if err != nil {
			return report, fmt.Errorf("failed to export %s/%s: %w", doc.Kind, doc.ID, err)
		}
		report.Paths = append(report.Paths, res.Path)
		if res.Written {
			report.Written++
		} else {
			report.Skipped++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if err := writer.Flush(); err != nil {
		return report, fmt.Errorf("failed to write index: %w", err)
	}

	report.Duration = time.Since(start)
	e.logger.Info().
		Str("output", writer.BaseDir()).
		Int("written", report.Written).
		Int("skipped", report.Skipped).
		Bool("dry_run", e.dryRun).
		Dur("duration", report.Duration).
		Msg("Export completed")

	return report, nil
}

func (e *Exporter) documents(ctx context.Context) ([]*export.Document, error) {
	posts, err := content.Posts(ctx, e.reader)
	if err != nil {
		return nil, err
	}
	pages, err := content.Pages(ctx, e.reader)
	if err != nil {
		return nil, err
	}

	docs := make([]*export.Document, 0, len(posts)+len(pages))
	for _, p := range posts {
		doc, err := e.postDocument(ctx, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	for _, p := range pages {
		slug, err := content.ResolvePageSlug(ctx, e.reader, p)
		if err != nil {
			return nil, err
		}
		author, err := e.authorName(ctx, p.Author)
		if err != nil {
			return nil, err
		}
		docs = append(docs, export.PageDocument(p, slug, author))
	}
	return docs, nil
}

func (e *Exporter) postDocument(ctx context.Context, p *schema.Post) (*export.Document, error) {
	author, err := e.authorName(ctx, p.Author)
	if err != nil {
		return nil, err
	}
	categories, err := content.Names(ctx, e.reader, p.Categories...)
	if err != nil {
		return nil, err
	}
	tags, err := content.Names(ctx, e.reader, p.Tags...)
	if err != nil {
		return nil, err
	}
	return export.PostDocument(p, author, categories, tags), nil
}

func (e *Exporter) authorName(ctx context.Context, ref domain.Reference) (string, error) {
	if ref.ID == "" {
		return "", nil
	}
	names, err := content.Names(ctx, e.reader, ref)
	if err != nil {
		return "", err
	}
	return names[0], nil
}
