package blog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

var frontMatter = regexp.MustCompile(`(?s)^---[ \t]*\r?\n(.*?)\r?\n---[ \t]*(?:\r?\n|$)`)

// ExtractMetadata reads YAML front matter and falls back to the filename.
// Malformed front matter is treated as absent but still removed from the body.
func (p *Processor) ExtractMetadata(content, path string) (domain.DocumentMetadata, string) {
	fields, body := parseFrontMatter(content)

	meta := domain.DocumentMetadata{
		Title:  firstString(fields, "title"),
		Author: joinedString(fields, "author", "authors"),
		URL:    firstString(fields, "url", "link"),
		Tags:   withTag(stringList(fields, "tags", "categories")),
	}
	if meta.Title == "" {
		meta.Title = titleFromFilename(path)
	}
	return meta, body
}

// parseFrontMatter splits a leading "---" block from the content.
// Without a block the content is returned unchanged.
func parseFrontMatter(content string) (map[string]any, string) {
	m := frontMatter.FindStringSubmatchIndex(content)
	if m == nil {
		return nil, content
	}

	body := strings.TrimSpace(content[m[1]:])
	var fields map[string]any
	if err := yaml.Unmarshal([]byte(content[m[2]:m[3]]), &fields); err != nil {
		return nil, body
	}
	return fields, body
}

func titleFromFilename(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(stem))
	if stem == "" {
		return "Untitled"
	}
	// Casers are stateful and must not be shared.
	return cases.Title(language.English).String(stem)
}

// firstString returns the first key with a non-empty scalar value.
func firstString(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := scalar(fields[key]); s != "" {
			return s
		}
	}
	return ""
}

// joinedString is firstString that also accepts lists, joined with ", ".
func joinedString(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case []any:
			if s := strings.Join(scalars(v), ", "); s != "" {
				return s
			}
		default:
			if s := scalar(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringList reads a list or a comma-separated string from the first non-empty key.
func stringList(fields map[string]any, keys ...string) []string {
	for _, key := range keys {
		var list []string
		switch v := fields[key].(type) {
		case []any:
			list = scalars(v)
		case string:
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					list = append(list, s)
				}
			}
		}
		if len(list) > 0 {
			return list
		}
	}
	return nil
}

// withTag ensures Tag appears exactly once, appending it when absent.
func withTag(tags []string) []string {
	out := make([]string, 0, len(tags)+1)
	seen := false
	for _, t := range tags {
		if t == Tag {
			if seen {
				continue
			}
			seen = true
		}
		out = append(out, t)
	}
	if !seen {
		out = append(out, Tag)
	}
	return out
}

func scalars(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := scalar(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func scalar(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any, map[string]any:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
