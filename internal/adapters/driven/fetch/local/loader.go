// Package local loads documents from the filesystem for indexing.
// Markdown files have their formatting stripped so only prose reaches
// the segmenter; everything else is treated as plain text.
package local

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// Load reads the file at path and converts it to a document.
func Load(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	content := string(data)
	title := titleFromFilename(path)
	format := "text"

	if isMarkdown(path) {
		if heading := firstHeading(content); heading != "" {
			title = heading
		}
		content = StripMarkdown(content)
		format = "markdown"
	}

	now := time.Now()
	return domain.Document{
		ID:        domain.DocumentID(abs),
		SourceURL: abs,
		Title:     title,
		Content:   content,
		Metadata:  map[string]any{"format": format},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Indexable reports whether the file extension is one the loader handles.
func Indexable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// firstHeading returns the first H1 heading, or "" when there is none.
func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

func titleFromFilename(path string) string {
	filename := filepath.Base(path)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

var (
	codeBlockRe  = regexp.MustCompile("(?s)```[^`]*```")
	inlineCodeRe = regexp.MustCompile("`[^`]+`")
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquoteRe = regexp.MustCompile(`(?m)^>\s*`)
	hrRe         = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	multiBlankRe = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown removes common markdown formatting, keeping link text
// and dropping code blocks entirely. This is a simplified conversion
// that handles the common cases.
func StripMarkdown(content string) string {
	content = codeBlockRe.ReplaceAllString(content, "")
	content = inlineCodeRe.ReplaceAllString(content, "")
	content = imageRe.ReplaceAllString(content, "")
	content = linkRe.ReplaceAllString(content, "$1")
	content = headingRe.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")
	content = strings.ReplaceAll(content, "_", " ")

	content = blockquoteRe.ReplaceAllString(content, "")
	content = hrRe.ReplaceAllString(content, "")
	content = multiBlankRe.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
