package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
	"github.com/intersystems-ib/customer-support-agent-demo/pkg/irisdb"
	logx "github.com/intersystems-ib/customer-support-agent-demo/pkg/logger"
)

// Config holds the ingestion settings, sourced from the environment.
type Config struct {
	DocsDir                  string `envconfig:"DOCS_DIR" default:"iris/docs"`
	ChunkSize                int    `envconfig:"CHUNK_SIZE" default:"1200"`
	ChunkOverlap             int    `envconfig:"CHUNK_OVERLAP" default:"200"`
	DocBodyMaxChars          int    `envconfig:"DOC_BODY_MAX_CHARS" default:"4000"`
	ProductsFile             string `envconfig:"PRODUCTS_FILE"`
	RefreshDocEmbeddings     bool   `envconfig:"REFRESH_DOC_EMBEDDINGS" default:"true"`
	RefreshProductEmbeddings bool   `envconfig:"REFRESH_PRODUCT_EMBEDDINGS" default:"true"`
}

// Product is one row of the product seed file.
type Product struct {
	ProductID   int64   `json:"ProductID"`
	Name        string  `json:"Name"`
	Category    string  `json:"Category"`
	Price       float64 `json:"Price"`
	Description string  `json:"Description"`
}

// Stats summarizes one ingestion run.
type Stats struct {
	Docs     int
	Chunks   int
	Products int
}

// Job runs the batch ingestion: load docs, chunk, upsert, seed products,
// then rebuild embeddings inside the store. Steps run sequentially.
type Job struct {
	db     *irisdb.Client
	cfg    Config
	search model.SearchConfig
}

func NewJob(db *irisdb.Client, cfg Config, search model.SearchConfig) *Job {
	return &Job{db: db, cfg: cfg, search: search}
}

func (j *Job) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	if err := j.db.EnsureConnected(ctx); err != nil {
		return stats, err
	}

	docs, err := LoadDocs(j.cfg.DocsDir, j.cfg.DocBodyMaxChars)
	if err != nil {
		return stats, fmt.Errorf("load docs: %w", err)
	}
	for _, doc := range docs {
		n, err := j.upsertDocChunks(ctx, doc)
		if err != nil {
			return stats, fmt.Errorf("upsert doc %s: %w", doc.DocID, err)
		}
		stats.Docs++
		stats.Chunks += n
	}
	logx.Info().Int("docs", stats.Docs).Int("chunks", stats.Chunks).Msg("documents ingested")

	if j.cfg.ProductsFile != "" {
		n, err := j.seedProducts(ctx, j.cfg.ProductsFile)
		if err != nil {
			return stats, fmt.Errorf("seed products: %w", err)
		}
		stats.Products = n
		logx.Info().Int("products", n).Msg("products seeded")
	}

	if j.cfg.RefreshDocEmbeddings {
		if err := j.refreshDocEmbeddings(ctx); err != nil {
			return stats, fmt.Errorf("refresh doc embeddings: %w", err)
		}
		logx.Info().Msg("doc chunk embeddings rebuilt")
	}
	if j.cfg.RefreshProductEmbeddings {
		if err := j.refreshProductEmbeddings(ctx); err != nil {
			return stats, fmt.Errorf("refresh product embeddings: %w", err)
		}
		logx.Info().Msg("product embeddings rebuilt")
	}

	return stats, nil
}

// upsertDocChunks writes every chunk of doc keyed by (DocID, ChunkIndex),
// so re-running the job replaces rows instead of duplicating them.
func (j *Job) upsertDocChunks(ctx context.Context, doc Doc) (int, error) {
	chunks := SplitChunks(doc.DocID, doc.Body, j.cfg.ChunkSize, j.cfg.ChunkOverlap)
	for _, c := range chunks {
		_, err := j.db.Exec(ctx, `
INSERT OR UPDATE Agent_Data.DocChunks
    (ChunkID, DocID, ChunkIndex, Title, DocType, ChunkText, StartOffset, EndOffset)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ChunkID, c.DocID, c.Index, doc.Title, doc.DocType, c.Text, c.Start, c.End)
		if err != nil {
			return 0, err
		}
	}
	return len(chunks), nil
}

func (j *Job) seedProducts(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, p := range products {
		_, err := j.db.Exec(ctx, `
INSERT OR UPDATE Agent_Data.Products (ProductID, Name, Category, Price, Description)
VALUES (?, ?, ?, ?, ?)`,
			p.ProductID, p.Name, p.Category, p.Price, p.Description)
		if err != nil {
			return 0, err
		}
	}
	return len(products), nil
}

// refreshDocEmbeddings rebuilds chunk vectors inside the store. The config
// name is validated and inlined; everything else stays bound.
func (j *Job) refreshDocEmbeddings(ctx context.Context) error {
	cfg, err := irisdb.ValidateConfigName(j.search.EmbeddingConfig)
	if err != nil {
		return err
	}
	_, err = j.db.Exec(ctx, `
UPDATE Agent_Data.DocChunks
SET Embedding = EMBEDDING(COALESCE(Title,'') || CHAR(10) || CHAR(10) || COALESCE(ChunkText,''), '`+cfg+`')`)
	return err
}

func (j *Job) refreshProductEmbeddings(ctx context.Context) error {
	cfg, err := irisdb.ValidateConfigName(j.search.EmbeddingConfig)
	if err != nil {
		return err
	}
	_, err = j.db.Exec(ctx, `
UPDATE Agent_Data.Products
SET Embedding = EMBEDDING(Name || ' ' || COALESCE(Description,''), '`+cfg+`')`)
	return err
}
