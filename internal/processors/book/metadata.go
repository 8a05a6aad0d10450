package book

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

const (
	authorSeparator = " - "
	searchURL       = "https://www.amazon.com/s?k="
	untitled        = "Untitled"
)

// ExtractMetadata parses title and author from the filename.
// The whole content is the body; books carry no metadata block.
func (p *Processor) ExtractMetadata(content, path string) (domain.DocumentMetadata, string) {
	title, author := parseFilename(path)
	return domain.DocumentMetadata{
		Title:  title,
		Author: author,
		URL:    SearchURL(title, author),
		Tags:   []string{Tag},
	}, content
}

// parseFilename splits "<Title> - <Author>" on the last separator.
func parseFilename(path string) (title, author string) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	title = stem
	if i := strings.LastIndex(stem, authorSeparator); i >= 0 {
		title = stem[:i]
		author = strings.TrimSpace(stem[i+len(authorSeparator):])
	}
	title = strings.TrimSpace(strings.ReplaceAll(title, "_", " "))
	if title == "" {
		title = untitled
	}
	return title, author
}

// SearchURL returns a store search link for a book.
func SearchURL(title, author string) string {
	query := title
	if author != "" {
		query += " " + author
	}
	return searchURL + url.QueryEscape(query)
}
