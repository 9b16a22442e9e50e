package ingest

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
	"github.com/intersystems-ib/customer-support-agent-demo/pkg/irisdb"
)

func newJob(t *testing.T, cfg Config) (*Job, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	client := irisdb.Wrap(db, irisdb.Config{Driver: "iris"})
	return NewJob(client, cfg, model.SearchConfig{EmbeddingConfig: "my-openai-config"}), mock
}

func writeDoc(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, "guide.md", "# Guide\n\nShort body.")
}

func TestRunUpsertsDocChunks(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir)

	job, mock := newJob(t, Config{
		DocsDir:         dir,
		ChunkSize:       1200,
		ChunkOverlap:    200,
		DocBodyMaxChars: 4000,
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT OR UPDATE Agent_Data.DocChunks")).
		WithArgs("guide#0000", "guide", 0, "Guide", "MD", "Short body.", 0, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stats, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Docs)
	assert.Equal(t, 1, stats.Chunks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunIsIdempotentByNaturalKey(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir)

	job, mock := newJob(t, Config{DocsDir: dir, ChunkSize: 1200, ChunkOverlap: 200, DocBodyMaxChars: 4000})

	// Two runs issue the same upsert for the same (DocID, ChunkIndex).
	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta("INSERT OR UPDATE Agent_Data.DocChunks")).
			WithArgs("guide#0000", "guide", 0, "Guide", "MD", "Short body.", 0, 11).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	for i := 0; i < 2; i++ {
		stats, err := job.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Chunks)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSeedsProducts(t *testing.T) {
	job, mock := newJob(t, Config{
		DocsDir:         t.TempDir(), // empty, no doc upserts
		ChunkSize:       1200,
		ChunkOverlap:    200,
		DocBodyMaxChars: 4000,
		ProductsFile:    filepath.Join("testdata", "products.json"),
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT OR UPDATE Agent_Data.Products")).
		WithArgs(int64(1), "Trail Boots", "footwear", 89.9, "Waterproof hiking boots with reinforced toe cap and deep-lug outsole.").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT OR UPDATE Agent_Data.Products")).
		WithArgs(int64(2), "Camp Stove", "gear", 45.5, "Compact single-burner stove for backpacking, piezo ignition.").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT OR UPDATE Agent_Data.Products")).
		WithArgs(int64(3), "Rain Jacket", "apparel", 59.0, "Lightweight packable rain shell with taped seams.").
		WillReturnResult(sqlmock.NewResult(0, 1))

	stats, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRefreshesEmbeddingsInsideStore(t *testing.T) {
	job, mock := newJob(t, Config{
		DocsDir:                  t.TempDir(),
		ChunkSize:                1200,
		ChunkOverlap:             200,
		DocBodyMaxChars:          4000,
		RefreshDocEmbeddings:     true,
		RefreshProductEmbeddings: true,
	})

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Agent_Data.DocChunks")).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE Agent_Data.Products")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	_, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSkipsEmbeddingsWhenDisabled(t *testing.T) {
	job, mock := newJob(t, Config{
		DocsDir:         t.TempDir(),
		ChunkSize:       1200,
		ChunkOverlap:    200,
		DocBodyMaxChars: 4000,
	})

	// No expectations: any UPDATE would fail the mock.
	_, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRejectsBadConfigNameBeforeSQL(t *testing.T) {
	job, mock := newJob(t, Config{
		DocsDir:              t.TempDir(),
		ChunkSize:            1200,
		ChunkOverlap:         200,
		DocBodyMaxChars:      4000,
		RefreshDocEmbeddings: true,
	})
	job.search = model.SearchConfig{EmbeddingConfig: "bad;name"}

	_, err := job.Run(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
