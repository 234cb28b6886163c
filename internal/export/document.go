package export

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/wploader-go/internal/domain"
	"github.com/quantmind-br/wploader-go/internal/schema"
)

// Document is one exportable post or page
type Document struct {
	Kind       domain.Kind
	ID         string
	Slug       string
	Title      string
	Excerpt    string
	Date       time.Time
	Modified   time.Time
	Author     string
	Categories []string
	Tags       []string
	Link       string
	HTML       string
}

// Frontmatter is the YAML header written above each Markdown body
type Frontmatter struct {
	Title      string    `yaml:"title"`
	ID         string    `yaml:"id"`
	Slug       string    `yaml:"slug"`
	Date       time.Time `yaml:"date"`
	Modified   time.Time `yaml:"modified"`
	Author     string    `yaml:"author,omitempty"`
	Categories []string  `yaml:"categories,omitempty"`
	Tags       []string  `yaml:"tags,omitempty"`
	Link       string    `yaml:"link,omitempty"`
	Excerpt    string    `yaml:"excerpt,omitempty"`
}

// PostDocument builds a document from a post. Author and term names are
// resolved by the caller.
func PostDocument(p *schema.Post, author string, categories, tags []string) *Document {
	return &Document{
		Kind:       domain.KindPost,
		ID:         p.RecordID(),
		Slug:       p.Slug,
		Title:      PlainText(p.Title.Rendered),
		Excerpt:    PlainText(p.Excerpt.Rendered),
		Date:       p.Date,
		Modified:   p.Modified,
		Author:     author,
		Categories: categories,
		Tags:       tags,
		Link:       p.Link,
		HTML:       p.Content.Rendered,
	}
}

// PageDocument builds a document from a page whose slug path has already
// been resolved against its ancestors
func PageDocument(p *schema.Page, slugPath, author string) *Document {
	return &Document{
		Kind:     domain.KindPage,
		ID:       p.RecordID(),
		Slug:     slugPath,
		Title:    PlainText(p.Title.Rendered),
		Excerpt:  PlainText(p.Excerpt.Rendered),
		Date:     p.Date,
		Modified: p.Modified,
		Author:   author,
		Link:     p.Link,
		HTML:     p.Content.Rendered,
	}
}

// Frontmatter returns the document's YAML header fields
func (d *Document) Frontmatter() *Frontmatter {
	return &Frontmatter{
		Title:      d.Title,
		ID:         d.ID,
		Slug:       d.Slug,
		Date:       d.Date,
		Modified:   d.Modified,
		Author:     d.Author,
		Categories: d.Categories,
		Tags:       d.Tags,
		Link:       d.Link,
		Excerpt:    d.Excerpt,
	}
}

// GenerateFrontmatter renders the YAML header for a document
func GenerateFrontmatter(doc *Document) (string, error) {
	data, err := yaml.Marshal(doc.Frontmatter())
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("---\n%s---\n\n", string(data)), nil
}

// AddFrontmatter prepends the YAML header to a Markdown body
func AddFrontmatter(markdown string, doc *Document) (string, error) {
	frontmatter, err := GenerateFrontmatter(doc)
	if err != nil {
		return "", err
	}

	return frontmatter + markdown, nil
}
