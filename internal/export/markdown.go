// Package export writes stored WordPress content to disk as Markdown.
package export

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// Converter converts rendered post HTML to Markdown
type Converter struct{}

// NewConverter creates a new Markdown converter
func NewConverter() *Converter {
	return &Converter{}
}

// Convert converts HTML to Markdown
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	markdown, err := md.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	return cleanMarkdown(markdown), nil
}

// cleanMarkdown collapses runs of blank lines and trims the result
func cleanMarkdown(markdown string) string {
	for strings.Contains(markdown, "\n\n\n\n") {
		markdown = strings.ReplaceAll(markdown, "\n\n\n\n", "\n\n\n")
	}
	return strings.TrimSpace(markdown)
}

// PlainText returns the text content of an HTML fragment with entities
// decoded and whitespace collapsed. Titles and excerpts arrive as markup.
func PlainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.Join(strings.Fields(html), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script, style").Remove()

	return strings.Join(strings.Fields(doc.Text()), " ")
}
