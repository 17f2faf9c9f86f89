package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"golang.org/x/term"

	"github.com/hmans/bookgraph/internal/graph"
)

var (
	queryJSON       bool
	queryVariables  string
	queryOperation  string
	querySchemaOnly bool
)

var graphqlCmd = &cobra.Command{
	Use:     "graphql <query>",
	Aliases: []string{"query"},
	Short:   "Execute a GraphQL query or mutation",
	Long: `Execute a GraphQL query or mutation against the configured store,
without starting the HTTP server.

Examples:
  # List the first page of authors
  bookgraph graphql '{ authors { id name age } }'

  # Get an author with their books
  bookgraph graphql '{ author(id: "...") { name books { name genre } } }'

  # Add a book
  bookgraph graphql 'mutation { addBook(name: "The river", genre: FANTASY, authorId: "...") { id } }'

  # Use variables
  bookgraph graphql -v '{"id": "..."}' 'query GetBook($id: ID!) { book(id: $id) { name } }'

  # Read from stdin
  cat query.graphql | bookgraph graphql

  # Print the schema
  bookgraph graphql --schema`,
	Args: func(cmd *cobra.Command, args []string) error {
		if querySchemaOnly {
			return nil
		}
		// Allow 0 args if stdin has data, or exactly 1 arg
		if len(args) > 1 {
			return fmt.Errorf("accepts at most 1 argument (the GraphQL query)")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if querySchemaOnly {
			return printSchema()
		}

		var query string
		if len(args) == 1 {
			query = args[0]
		} else {
			stdinQuery, err := readFromStdin()
			if err != nil {
				return err
			}
			if stdinQuery == "" {
				return fmt.Errorf("no query provided (pass as argument or pipe to stdin)")
			}
			query = stdinQuery
		}

		var variables map[string]any
		if queryVariables != "" {
			if err := json.Unmarshal([]byte(queryVariables), &variables); err != nil {
				return fmt.Errorf("invalid variables JSON: %w", err)
			}
		}

		result, err := executeQuery(query, variables, queryOperation)
		if err != nil {
			return err
		}

		if queryJSON {
			fmt.Println(string(result))
		} else {
			prettyPrint(result)
		}

		return nil
	},
}

// readFromStdin reads the query from stdin if data is available.
func readFromStdin() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("checking stdin: %w", err)
	}

	// If stdin is a terminal (no pipe), return empty
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// executeQuery runs a GraphQL query against the global store.
// On success, it returns just the data portion of the response.
func executeQuery(query string, variables map[string]any, operationName string) ([]byte, error) {
	opts := graph.Options{}
	if cfg != nil {
		opts.MaxDepth = cfg.Server.MaxDepth
	}

	schema, err := graph.NewSchema(graph.NewResolver(dataStore, searchIndex), opts)
	if err != nil {
		return nil, err
	}

	resp := schema.Exec(context.Background(), query, operationName, variables)
	if len(resp.Errors) > 0 {
		return nil, formatGraphQLErrors(toGQLErrors(resp.Errors))
	}

	return resp.Data, nil
}

// toGQLErrors converts executor errors into a gqlerror.List.
func toGQLErrors(errs []*gqlerrors.QueryError) gqlerror.List {
	list := make(gqlerror.List, len(errs))
	for i, e := range errs {
		list[i] = &gqlerror.Error{
			Message:    e.Message,
			Extensions: e.Extensions,
		}
	}
	return list
}

// formatGraphQLErrors formats GraphQL errors into a single error,
// prefixing each message with its error code when there is one.
func formatGraphQLErrors(errs gqlerror.List) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
		if code, ok := e.Extensions["code"].(string); ok {
			msgs[i] = fmt.Sprintf("[%s] %s", code, e.Message)
		}
	}
	if len(msgs) == 1 {
		return fmt.Errorf("graphql: %s", msgs[0])
	}
	return fmt.Errorf("graphql errors:\n  %s", strings.Join(msgs, "\n  "))
}

// prettyPrint outputs the JSON indented, with colors when stdout is a terminal.
func prettyPrint(data []byte) {
	out := pretty.Pretty(data)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		out = pretty.Color(out, nil)
	}
	fmt.Println(strings.TrimRight(string(out), "\n"))
}

// printSchema outputs the GraphQL schema.
func printSchema() error {
	schema, err := GetGraphQLSchema()
	if err != nil {
		return err
	}
	fmt.Print(schema)
	return nil
}

// GetGraphQLSchema returns the GraphQL schema as a string.
func GetGraphQLSchema() (string, error) {
	return graph.FormatSchema()
}

func init() {
	graphqlCmd.Flags().BoolVar(&queryJSON, "json", false, "Output raw JSON (no formatting)")
	graphqlCmd.Flags().StringVarP(&queryVariables, "variables", "v", "", "Query variables as JSON string")
	graphqlCmd.Flags().StringVarP(&queryOperation, "operation", "o", "", "Operation name (for multi-operation documents)")
	graphqlCmd.Flags().BoolVar(&querySchemaOnly, "schema", false, "Print the GraphQL schema and exit")
	rootCmd.AddCommand(graphqlCmd)
}
