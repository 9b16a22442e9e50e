package model

// Row shapes returned by the data tools. Nullable columns are pointers so
// JSON output distinguishes "absent" from zero values.

// OrderRow is one order joined with its product and optional shipment.
type OrderRow struct {
	OrderID      int64   `json:"OrderID"`
	OrderDate    string  `json:"OrderDate"`
	Status       string  `json:"Status"`
	ProductID    int64   `json:"ProductID"`
	ProductName  string  `json:"ProductName"`
	Category     string  `json:"Category"`
	Price        float64 `json:"Price"`
	TrackingCode *string `json:"TrackingCode"`
}

// DocSnippet is one scored knowledge-base chunk.
type DocSnippet struct {
	ChunkID string   `json:"chunk_id"`
	DocID   string   `json:"doc_id"`
	Title   string   `json:"title"`
	Snippet string   `json:"snippet"`
	Score   *float64 `json:"score"`
}

// ProductHit is one scored product.
type ProductHit struct {
	ProductID int64    `json:"ProductID"`
	Name      string   `json:"Name"`
	Category  string   `json:"Category"`
	Price     float64  `json:"Price"`
	Score     *float64 `json:"score"`
}
