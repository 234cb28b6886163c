package export

import (
	"context"
	"os"

	"github.com/quantmind-br/wploader-go/internal/utils"
)

// DefaultBaseDir is used when no output directory is configured
const DefaultBaseDir = "./content"

// Writer handles writing documents to the filesystem
type Writer struct {
	baseDir   string
	overwrite bool
	dryRun    bool
	converter *Converter
	collector *Collector
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	BaseDir   string
	Overwrite bool
	DryRun    bool
	Collector *Collector
}

// WriteResult reports what happened to one document
type WriteResult struct {
	Path    string
	Written bool
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.BaseDir == "" {
		opts.BaseDir = DefaultBaseDir
	}

	return &Writer{
		baseDir:   opts.BaseDir,
		overwrite: opts.Overwrite,
		dryRun:    opts.DryRun,
		converter: NewConverter(),
		collector: opts.Collector,
	}
}

// BaseDir returns the output root
func (w *Writer) BaseDir() string {
	return w.baseDir
}

// Path returns the output path for a document: posts/<slug>.md or
// pages/<ancestor>/<slug>.md
func (w *Writer) Path(doc *Document) string {
	return utils.ContentPath(w.baseDir, string(doc.Kind), doc.Slug)
}

// Write converts and saves a document. Existing files are kept unless
// overwrite is set; a dry run reports the path without touching disk.
func (w *Writer) Write(ctx context.Context, doc *Document) (WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return WriteResult{}, err
	}

	path := w.Path(doc)
	res := WriteResult{Path: path}

	if !w.overwrite {
		if _, err := os.Stat(path); err == nil {
			return res, nil
		}
	}

	if w.dryRun {
		return res, nil
	}

	html, err := Sanitize(doc.HTML, doc.Link)
	if err != nil {
		return res, err
	}
	body, err := w.converter.Convert(html)
	if err != nil {
		return res, err
	}

	content, err := AddFrontmatter(body, doc)
	if err != nil {
		return res, err
	}

	if err := utils.EnsureDir(path); err != nil {
		return res, err
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0644); err != nil {
		return res, err
	}

	res.Written = true
	if w.collector != nil {
		w.collector.Add(doc, path)
	}
	return res, nil
}

// Flush writes the index when a collector is attached
func (w *Writer) Flush() error {
	if w.collector == nil || w.dryRun {
		return nil
	}
	return w.collector.Flush()
}

// Exists checks if a document has already been written
func (w *Writer) Exists(doc *Document) bool {
	_, err := os.Stat(w.Path(doc))
	return err == nil
}

