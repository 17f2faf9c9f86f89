package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hmans/bookgraph/internal/graph"
	"github.com/hmans/bookgraph/internal/server"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the GraphQL server",
	Long: `Start an HTTP server that serves the GraphQL API.

The server exposes:
  - GraphQL endpoint at /graphql (POST, or GET with ?query=)
  - GraphQL Playground at /graphql (GET without a query)
  - Liveness and readiness checks at /health and /ready

Examples:
  # Start server on the configured port (default 5000)
  bookgraph serve

  # Start server on a custom port
  bookgraph serve --port 3000

  # Run without MongoDB, persisting to a YAML snapshot
  BOOKGRAPH_SNAPSHOT=library.yml bookgraph serve --store memory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		return runServer()
	},
}

func runServer() error {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	schema, err := graph.NewSchema(graph.NewResolver(dataStore, searchIndex), graph.Options{
		MaxDepth: cfg.Server.MaxDepth,
	})
	if err != nil {
		return err
	}

	srv := server.New(schema, dataStore, server.Options{
		Playground: cfg.Server.Playground,
		Version:    version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("GraphQL endpoint: http://localhost:%d/graphql\n", cfg.Server.Port)
	return srv.Run(ctx, fmt.Sprintf(":%d", cfg.Server.Port))
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 5000, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
