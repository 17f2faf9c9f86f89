package graph

import (
	_ "embed"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/hmans/bookgraph/internal/search"
	"github.com/hmans/bookgraph/internal/store"
)

//go:embed schema.graphql
var Schema string

// Resolver is the root resolver for the GraphQL schema.
// It holds the store explicitly so tests can substitute an in-memory one.
type Resolver struct {
	Store store.Store
	// Search is optional; searchBooks fails when it is nil.
	Search *search.Index
}

// NewResolver creates a root resolver.
func NewResolver(s store.Store, idx *search.Index) *Resolver {
	return &Resolver{Store: s, Search: idx}
}

// Options tunes query execution limits. Zero values mean no limit.
type Options struct {
	MaxDepth       int
	MaxParallelism int
}

// NewSchema parses the embedded schema and binds it to r.
func NewSchema(r *Resolver, opts Options) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{
		graphql.UseStringDescriptions(),
	}
	if opts.MaxDepth > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxDepth(opts.MaxDepth))
	}
	if opts.MaxParallelism > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxParallelism(opts.MaxParallelism))
	}

	schema, err := graphql.ParseSchema(Schema, r, schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return schema, nil
}
