package graph

import (
	"bytes"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// FormatSchema validates the embedded schema with gqlparser and returns it
// in canonical SDL form.
func FormatSchema() (string, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: Schema})
	if err != nil {
		return "", fmt.Errorf("loading schema: %w", err)
	}

	var buf bytes.Buffer
	f := formatter.NewFormatter(&buf, formatter.WithIndent("  "))
	f.FormatSchema(schema)

	return buf.String(), nil
}
