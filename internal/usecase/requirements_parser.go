package usecase

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/steamexplorer/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	lineBreakTagRegex = regexp.MustCompile(`(?i)<br\s*/?>`)
	boldTagRegex      = regexp.MustCompile(`(?i)</?(?:strong|b)>`)

	// Each pattern captures from its label up to the next expected label, a line break or the end
	processorPattern = regexp.MustCompile(`(?is)Processor:?(.*?)(?:[\n\r]|Memory|RAM|$)`)
	memoryPattern    = regexp.MustCompile(`(?is)Memory:?(.*?)(?:[\n\r]|Graphics|$)`)
	graphicsPattern  = regexp.MustCompile(`(?is)Graphics:?(.*?)(?:[\n\r]|DirectX|Storage|$)`)
	storagePattern   = regexp.MustCompile(`(?is)Storage:?(.*?)(?:[\n\r]|Additional|$)`)
	osPattern        = regexp.MustCompile(`(?is)OS:?(.*?)(?:[\n\r]|Processor|$)`)
)

// ParseRequirements extracts processor, memory, graphics, os and storage from a
// Steam requirement HTML block. Fields that cannot be found stay "unspecified".
// This is a text heuristic, not an HTML parser.
func ParseRequirements(html string) (fields domain.RequirementFields) {
	fields = domain.UnspecifiedRequirements()
	if html == "" {
		return fields
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("requirements parsing failed", "panic", r)
			fields = domain.UnspecifiedRequirements()
		}
	}()

	text := normalizeRequirementsHTML(html)

	extract(&fields.Processor, processorPattern, text)
	extract(&fields.Memory, memoryPattern, text)
	extract(&fields.Graphics, graphicsPattern, text)
	extract(&fields.Storage, storagePattern, text)
	extract(&fields.OS, osPattern, text)

	return fields
}

// normalizeRequirementsHTML turns line-break tags into newlines and drops bold tags
func normalizeRequirementsHTML(html string) string {
	text := lineBreakTagRegex.ReplaceAllString(html, "\n")
	return boldTagRegex.ReplaceAllString(text, "")
}

func extract(dst *string, pattern *regexp.Regexp, text string) {
	if m := pattern.FindStringSubmatch(text); m != nil {
		*dst = strings.TrimSpace(m[1])
	}
}
