package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func loadByID(t *testing.T, docs []Doc, id string) Doc {
	t.Helper()
	for _, d := range docs {
		if d.DocID == id {
			return d
		}
	}
	t.Fatalf("doc %q not loaded", id)
	return Doc{}
}

func TestLoadDocsTitleFromHeading(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "faq.md", "# Account FAQ\n\nHow do I reset my password?\nOpen settings.")

	docs, err := LoadDocs(dir, 4000)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "faq", doc.DocID)
	assert.Equal(t, "Account FAQ", doc.Title)
	assert.Equal(t, "MD", doc.DocType)
	assert.Equal(t, "How do I reset my password?\nOpen settings.", doc.Body)
}

func TestLoadDocsTitleFallsBackToStem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shipping-notes.txt", "Orders ship within two business days.")

	docs, err := LoadDocs(dir, 4000)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "shipping-notes", docs[0].Title)
	assert.Equal(t, "TXT", docs[0].DocType)
	assert.Equal(t, "Orders ship within two business days.", docs[0].Body)
}

func TestLoadDocsSkipsUnsupportedExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "# Readme\nbody")
	writeFile(t, dir, "image.png", "not a doc")
	writeFile(t, dir, "data.json", "{}")

	docs, err := LoadDocs(dir, 4000)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "readme", docs[0].DocID)
}

func TestLoadDocsTruncatesBody(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "long.md", "# Long\n\n"+strings.Repeat("x", 500))

	docs, err := LoadDocs(dir, 100)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Len(t, docs[0].Body, 100)
}

func TestLoadDocsMissingDirIsNotAnError(t *testing.T) {
	docs, err := LoadDocs(filepath.Join(t.TempDir(), "nope"), 4000)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadDocsWalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "policies")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeFile(t, dir, "faq.md", "# FAQ\nbody")
	writeFile(t, sub, "returns.md", "# Returns\nbody")

	docs, err := LoadDocs(dir, 4000)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	loadByID(t, docs, "faq")
	loadByID(t, docs, "returns")
}
