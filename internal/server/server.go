// Package server exposes the GraphQL schema over HTTP using gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/hmans/bookgraph/internal/store"
)

// Options configures the HTTP server.
type Options struct {
	// Playground serves GraphQL Playground on GET /graphql without a query.
	Playground bool
	// Version is reported by the health endpoints.
	Version string
}

// Server wires the GraphQL schema, health checks and middleware into a gin engine.
type Server struct {
	engine    *gin.Engine
	schema    *graphql.Schema
	store     store.Store
	opts      Options
	startTime time.Time
}

// New builds a server for schema. The store is only used for readiness checks.
func New(schema *graphql.Schema, s store.Store, opts Options) *Server {
	srv := &Server{
		engine:    gin.New(),
		schema:    schema,
		store:     s,
		opts:      opts,
		startTime: time.Now(),
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	e := s.engine
	e.Use(RequestID(), gin.LoggerWithFormatter(logFormatter), gin.Recovery(), CORS())

	gql := &relay.Handler{Schema: s.schema}
	e.POST("/graphql", gin.WrapH(gql))
	e.GET("/graphql", s.graphqlGet)
	e.OPTIONS("/graphql", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	e.GET("/health", s.health)
	e.GET("/ready", s.ready)
}

// Handler returns the HTTP handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Printf("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Printf("server stopped")
	}

	return nil
}

func logFormatter(p gin.LogFormatterParams) string {
	return fmt.Sprintf("[bookgraph] %s | %3d | %13v | %15s | %-7s %s | %s\n%s",
		p.TimeStamp.Format(time.RFC3339),
		p.StatusCode,
		p.Latency,
		p.ClientIP,
		p.Method,
		p.Path,
		p.Request.Header.Get(RequestIDHeader),
		p.ErrorMessage,
	)
}
