package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load docs and products into the store and rebuild embeddings",
	Long: `ingest reads the knowledge-base documents from DOCS_DIR, chunks
them, upserts the chunks, optionally seeds products from PRODUCTS_FILE
and rebuilds the embeddings inside the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := cfg.IRIS.Open(cmd.Context())
		if err != nil {
			return fmt.Errorf("connect to IRIS: %w", err)
		}
		defer db.Close()

		stats, err := ingest.NewJob(db, cfg.Ingest, cfg.Search).Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"ingested %d docs (%d chunks), seeded %d products\n",
			stats.Docs, stats.Chunks, stats.Products)
		return nil
	},
}
