package commands

import (
	"github.com/spf13/cobra"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web chat server",
	Long: `serve starts an HTTP server with the JSON chat API at /api/chat
and an embedded chat widget at /.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		orch, cleanup, err := buildOrchestrator(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		return server.New(orch).ListenAndServe(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}
