package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/hmans/bookgraph/internal/store"
	"github.com/hmans/bookgraph/internal/ui"
)

var (
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List authors and their books",
	Long: `Lists every author with the books that reference them.

Books whose author no longer exists are shown under "(unknown author)".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(context.Background(), os.Stdout, dataStore, listJSON)
	},
}

func runList(ctx context.Context, w io.Writer, s store.Store, asJSON bool) error {
	authors, err := s.Authors(ctx, store.ListOptions{})
	if err != nil {
		return fmt.Errorf("failed to list authors: %w", err)
	}
	books, err := s.Books(ctx, store.ListOptions{})
	if err != nil {
		return fmt.Errorf("failed to list books: %w", err)
	}

	nodes := ui.BuildTree(authors, books)

	if asJSON {
		out := make([]*ui.TreeNodeJSON, len(nodes))
		for i, n := range nodes {
			out[i] = n.ToJSON()
		}
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, err = w.Write(pretty.Pretty(data))
		return err
	}

	if len(nodes) == 0 {
		fmt.Fprintln(w, ui.Muted.Render("No authors found. Load sample data with: bookgraph seed"))
		return nil
	}

	fmt.Fprint(w, ui.RenderTree(nodes))
	return nil
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}
