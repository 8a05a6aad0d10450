package ama

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

var (
	speakerLine = fieldLine("speaker")
	roleLine    = fieldLine("role")
	topicLine   = fieldLine("topic")
	datePrefix  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)
)

// fieldLine matches "Name: value" on its own line, case-insensitively,
// with optional bold markers around the name or value.
func fieldLine(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*\**` + name + `\**[ \t]*:[ \t]*(.+?)[ \t]*\r?$`)
}

// ExtractMetadata reads speaker, role and topic lines from the transcript.
// Without a speaker line the speaker is taken from the filename.
// The whole content is the body.
func (p *Processor) ExtractMetadata(content, path string) (domain.DocumentMetadata, string) {
	speaker := field(speakerLine, content)
	if speaker == "" {
		speaker = speakerFromFilename(path)
	}
	role := field(roleLine, content)
	topic := field(topicLine, content)

	tags := make([]string, len(Tags))
	copy(tags, Tags)

	return domain.DocumentMetadata{
		Title:       Title(speaker, role, topic),
		Author:      speaker,
		SpeakerRole: role,
		Topic:       topic,
		Tags:        tags,
	}, content
}

// Title returns "AMA on <topic> with <speaker>[, <role>]", dropping the
// topic clause when topic is empty.
func Title(speaker, role, topic string) string {
	var b strings.Builder
	b.WriteString("AMA ")
	if topic != "" {
		b.WriteString("on ")
		b.WriteString(topic)
		b.WriteString(" ")
	}
	b.WriteString("with ")
	b.WriteString(speaker)
	if role != "" {
		b.WriteString(", ")
		b.WriteString(role)
	}
	return b.String()
}

func field(re *regexp.Regexp, content string) string {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.Trim(m[1], "*"))
}

func speakerFromFilename(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = datePrefix.ReplaceAllString(stem, "")
	speaker := strings.TrimSpace(strings.ReplaceAll(stem, "_", " "))
	if speaker == "" {
		return "Unknown Speaker"
	}
	return speaker
}
