package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// CleanMarkdown strips surrounding whitespace and an outer code fence if present
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.HasPrefix(cleaned, "```markdown") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}

// ValidateMarkdown reports whether goldmark produced a document
func ValidateMarkdown(input string) bool {
	doc := markdownRenderer.Parser().Parse(text.NewReader([]byte(input)))
	return doc != nil
}

// RenderMarkdownHTML converts a markdown report (GFM tables enabled) to an HTML fragment
func RenderMarkdownHTML(input string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(CleanMarkdown(input)), &buf); err != nil {
		return "", fmt.Errorf("markdown render failed: %w", err)
	}
	return buf.String(), nil
}
