package local

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_PlainText(t *testing.T) {
	path := writeFile(t, "field_notes.txt", "Observations from the field.")

	doc, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Observations from the field.", doc.Content)
	assert.Equal(t, "field notes", doc.Title)
	assert.Equal(t, "text", doc.Metadata["format"])
	assert.NotEmpty(t, doc.ID)
	assert.True(t, filepath.IsAbs(doc.SourceURL))
}

func TestLoad_MarkdownStripped(t *testing.T) {
	path := writeFile(t, "report.md", `# Quarterly Report

Revenue **grew** by [12%](https://example.com/data).

`+"```go\nfmt.Println(\"skip me\")\n```"+`

> Quoted remark.
`)

	doc, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", doc.Title)
	assert.Equal(t, "markdown", doc.Metadata["format"])
	assert.Contains(t, doc.Content, "Revenue grew by 12%.")
	assert.Contains(t, doc.Content, "Quoted remark.")
	assert.NotContains(t, doc.Content, "skip me")
	assert.NotContains(t, doc.Content, "#")
	assert.NotContains(t, doc.Content, "](")
}

func TestLoad_MarkdownTitleFallsBackToFilename(t *testing.T) {
	path := writeFile(t, "meeting-notes.md", "No heading here, just text.")

	doc, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "meeting notes", doc.Title)
}

func TestLoad_StableID(t *testing.T) {
	path := writeFile(t, "stable.txt", "Same file, same identity.")

	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-loading a file must not mint a new document ID")

	other, err := Load(writeFile(t, "other.txt", "Different file."))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))

	assert.Error(t, err)
}

func TestIndexable(t *testing.T) {
	assert.True(t, Indexable("a.txt"))
	assert.True(t, Indexable("a.md"))
	assert.True(t, Indexable("A.MARKDOWN"))
	assert.False(t, Indexable("a.pdf"))
	assert.False(t, Indexable("noext"))
}

func TestStripMarkdown(t *testing.T) {
	got := StripMarkdown("## Heading\n\n*emphasis* and `code` and ---\n\n---\n")

	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "`")
	assert.Contains(t, got, "emphasis and  and")
}
