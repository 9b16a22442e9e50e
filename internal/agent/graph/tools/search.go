package tools

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
	"github.com/intersystems-ib/customer-support-agent-demo/pkg/irisdb"
)

// Semantic search delegates both the query embedding and the similarity
// scoring to the store: VECTOR_DOT_PRODUCT(column, EMBEDDING(?, '<config>')).
// The config name is the only inlined identifier and is validated first.

const (
	defaultDocK = 3
	maxDocK     = 10

	defaultProductK = 5
	maxProductK     = 20

	snippetLen = 400
)

// ===================================
// Doc Search Tool
// ===================================

type DocSearchInput struct {
	Query string `json:"query"`
	K     int    `json:"k,omitempty"`
}

type DocSearchOutput struct {
	Snippets []model.DocSnippet `json:"snippets"`
	Note     string             `json:"note,omitempty"`
}

func newDocSearchTool(d Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolDocSearch,
			Desc: "Semantic search over knowledge base documents (FAQ, manuals, policies, warranty). Returns the top-k matching snippets with similarity scores.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Natural-language query (required).",
					Required: true,
				},
				"k": {
					Type: "number",
					Desc: "How many snippets to return (default 3, max 10).",
				},
			}),
		},
		func(ctx context.Context, in *DocSearchInput) (*DocSearchOutput, error) {
			q := strings.TrimSpace(in.Query)
			if q == "" {
				// Short-circuit: no similarity query is issued.
				return &DocSearchOutput{Snippets: []model.DocSnippet{}, Note: noteEmptyQuery}, nil
			}

			cfg, err := irisdb.ValidateConfigName(d.Search.EmbeddingConfig)
			if err != nil {
				return nil, err
			}

			if err := d.DB.EnsureConnected(ctx); err != nil {
				return nil, err
			}

			topK := clampInt(in.K, defaultDocK, 1, maxDocK)
			rows, err := d.DB.Query(ctx, `
SELECT TOP ?
    c.ChunkID            AS chunk_id,
    c.DocID              AS doc_id,
    c.Title              AS title,
    SUBSTRING(c.ChunkText, 1, 400) AS snippet,
    VECTOR_DOT_PRODUCT(c.Embedding, EMBEDDING(?, '`+cfg+`')) AS score
FROM Agent_Data.DocChunks c
ORDER BY score DESC`, topK, q)
			if err != nil {
				return nil, err
			}

			snippets := make([]model.DocSnippet, 0, len(rows))
			for _, row := range rows {
				snippets = append(snippets, model.DocSnippet{
					ChunkID: asString(row["chunk_id"]),
					DocID:   asString(row["doc_id"]),
					Title:   asString(row["title"]),
					Snippet: strings.TrimSpace(asString(row["snippet"])),
					Score:   asFloatPtr(row["score"]),
				})
			}
			return &DocSearchOutput{Snippets: snippets}, nil
		},
	)
}

// ===================================
// Product Search Tool
// ===================================

type ProductSearchInput struct {
	Query    string   `json:"query"`
	K        int      `json:"k,omitempty"`
	PriceMax *float64 `json:"price_max,omitempty"`
}

type ProductSearchOutput struct {
	Products []model.ProductHit `json:"products"`
	Note     string             `json:"note,omitempty"`
}

func newProductSearchTool(d Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolProductSearch,
			Desc: "Semantic search over product names and descriptions. Optionally restrict results to a maximum price.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Natural-language query (required).",
					Required: true,
				},
				"k": {
					Type: "number",
					Desc: "How many products to return (default 5, max 20).",
				},
				"price_max": {
					Type: "number",
					Desc: "Optional maximum price.",
				},
			}),
		},
		func(ctx context.Context, in *ProductSearchInput) (*ProductSearchOutput, error) {
			q := strings.TrimSpace(in.Query)
			if q == "" {
				return &ProductSearchOutput{Products: []model.ProductHit{}, Note: noteEmptyQuery}, nil
			}

			cfg, err := irisdb.ValidateConfigName(d.Search.EmbeddingConfig)
			if err != nil {
				return nil, err
			}

			if err := d.DB.EnsureConnected(ctx); err != nil {
				return nil, err
			}

			topK := clampInt(in.K, defaultProductK, 1, maxProductK)

			// Optional filters are appended as bound-parameter predicates.
			where := ""
			args := []any{topK, q}
			if in.PriceMax != nil && *in.PriceMax >= 0 {
				where = "\nWHERE p.Price <= ?"
				args = append(args, *in.PriceMax)
			}

			rows, err := d.DB.Query(ctx, `
SELECT TOP ?
    p.ProductID,
    p.Name,
    p.Category,
    p.Price,
    VECTOR_DOT_PRODUCT(p.Embedding, EMBEDDING(?, '`+cfg+`')) AS score
FROM Agent_Data.Products p`+where+`
ORDER BY score DESC`, args...)
			if err != nil {
				return nil, err
			}

			products := make([]model.ProductHit, 0, len(rows))
			for _, row := range rows {
				products = append(products, model.ProductHit{
					ProductID: asInt64(row["ProductID"]),
					Name:      asString(row["Name"]),
					Category:  asString(row["Category"]),
					Price:     asFloat64(row["Price"]),
					Score:     asFloatPtr(row["score"]),
				})
			}
			return &ProductSearchOutput{Products: products}, nil
		},
	)
}
