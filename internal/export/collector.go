package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

// IndexEntry describes one written document
type IndexEntry struct {
	Kind     domain.Kind `json:"kind"`
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Slug     string      `json:"slug"`
	Path     string      `json:"path"`
	Link     string      `json:"link,omitempty"`
	Date     time.Time   `json:"date"`
	Modified time.Time   `json:"modified"`
}

// Index is the content of index.json
type Index struct {
	GeneratedAt    time.Time    `json:"generated_at"`
	Site           string       `json:"site,omitempty"`
	SourceURL      string       `json:"source_url,omitempty"`
	TotalDocuments int          `json:"total_documents"`
	Documents      []IndexEntry `json:"documents"`
}

// Collector accumulates written documents into a JSON index
type Collector struct {
	mu        sync.RWMutex
	documents []IndexEntry
	site      string
	sourceURL string
	baseDir   string
	filename  string
	enabled   bool
}

// CollectorOptions configures a Collector
type CollectorOptions struct {
	BaseDir   string
	Filename  string
	Site      string
	SourceURL string
	Enabled   bool
}

// NewCollector creates a new index collector
func NewCollector(opts CollectorOptions) *Collector {
	filename := opts.Filename
	if filename == "" {
		filename = "index.json"
	}
	return &Collector{
		documents: make([]IndexEntry, 0),
		site:      opts.Site,
		sourceURL: opts.SourceURL,
		baseDir:   opts.BaseDir,
		filename:  filename,
		enabled:   opts.Enabled,
	}
}

// Add records a document written to filePath
func (c *Collector) Add(doc *Document, filePath string) {
	if !c.enabled || doc == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	relPath, err := filepath.Rel(c.baseDir, filePath)
	if err != nil {
		relPath = filePath
	}

	c.documents = append(c.documents, IndexEntry{
		Kind:     doc.Kind,
		ID:       doc.ID,
		Title:    doc.Title,
		Slug:     doc.Slug,
		Path:     filepath.ToSlash(relPath),
		Link:     doc.Link,
		Date:     doc.Date,
		Modified: doc.Modified,
	})
}

// Flush writes the index file. Nothing is written when disabled or empty.
func (c *Collector) Flush() error {
	if !c.enabled {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.documents) == 0 {
		return nil
	}

	data, err := json.MarshalIndent(c.buildIndex(), "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.baseDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.baseDir, c.filename), data, 0644)
}

func (c *Collector) buildIndex() *Index {
	docs := make([]IndexEntry, len(c.documents))
	copy(docs, c.documents)

	return &Index{
		GeneratedAt:    time.Now(),
		Site:           c.site,
		SourceURL:      c.sourceURL,
		TotalDocuments: len(docs),
		Documents:      docs,
	}
}

// Count returns the number of collected documents
func (c *Collector) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.documents)
}

// Index returns a snapshot of the index
func (c *Collector) Index() *Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buildIndex()
}

// IsEnabled reports whether the collector records documents
func (c *Collector) IsEnabled() bool {
	return c.enabled
}
