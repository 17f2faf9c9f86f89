package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/hmans/bookgraph/internal/library"
	"github.com/hmans/bookgraph/internal/store"
	"github.com/hmans/bookgraph/internal/ui"
)

var (
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a book or an author",
	Long: `Displays a book with its author, or an author with their books.
The ID is looked up as a book first, then as an author.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(context.Background(), os.Stdout, dataStore, args[0], showJSON)
	},
}

func runShow(ctx context.Context, w io.Writer, s store.Store, id string, asJSON bool) error {
	b, err := s.Book(ctx, id)
	switch {
	case err == nil:
		return showBook(ctx, w, s, b, asJSON)
	case !errors.Is(err, library.ErrNotFound):
		return fmt.Errorf("failed to find book: %w", err)
	}

	a, err := s.Author(ctx, id)
	if errors.Is(err, library.ErrNotFound) {
		return fmt.Errorf("no book or author with id %s", id)
	}
	if err != nil {
		return fmt.Errorf("failed to find author: %w", err)
	}
	return showAuthor(ctx, w, s, a, asJSON)
}

func showBook(ctx context.Context, w io.Writer, s store.Store, b *library.Book, asJSON bool) error {
	// A malformed or dangling reference just leaves the author blank.
	var author *library.Author
	if b.HasValidAuthorID() {
		if a, err := s.Author(ctx, b.AuthorID); err == nil {
			author = a
		}
	}

	if asJSON {
		return writeJSON(w, struct {
			*library.Book
			Author *library.Author `json:"author"`
		}{b, author})
	}

	var header strings.Builder
	header.WriteString(ui.ID.Render(b.ID))
	header.WriteString(" ")
	header.WriteString(ui.RenderGenre(b.Genre))
	header.WriteString("\n")
	header.WriteString(ui.Bold.Render(b.Name))
	header.WriteString("\n")
	header.WriteString(ui.Muted.Render(strings.Repeat("─", 50)))
	header.WriteString("\n")
	if author != nil {
		header.WriteString("by " + author.Name + " " + ui.Muted.Render("("+author.ID+")"))
	} else {
		header.WriteString(ui.Warning.Render("unknown author") + " " + ui.Muted.Render(b.AuthorID))
	}

	fmt.Fprintln(w, lipgloss.NewStyle().MarginBottom(1).Render(header.String()))
	return nil
}

func showAuthor(ctx context.Context, w io.Writer, s store.Store, a *library.Author, asJSON bool) error {
	books, err := s.BooksByAuthor(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("failed to list books: %w", err)
	}

	if asJSON {
		if books == nil {
			books = []*library.Book{}
		}
		return writeJSON(w, struct {
			*library.Author
			Books []*library.Book `json:"books"`
		}{a, books})
	}

	var header strings.Builder
	header.WriteString(ui.ID.Render(a.ID))
	if a.Age != nil {
		header.WriteString("  ")
		header.WriteString(ui.Muted.Render("age " + strconv.Itoa(*a.Age)))
	}
	header.WriteString("\n")
	header.WriteString(ui.Bold.Render(a.Name))
	header.WriteString("\n")
	header.WriteString(ui.Muted.Render(strings.Repeat("─", 50)))

	for _, b := range books {
		header.WriteString("\n")
		header.WriteString(ui.ID.Render(b.ID) + "  " + b.Name + "  " + ui.RenderGenre(b.Genre))
	}
	if len(books) == 0 {
		header.WriteString("\n")
		header.WriteString(ui.Muted.Render("no books"))
	}

	fmt.Fprintln(w, lipgloss.NewStyle().MarginBottom(1).Render(header.String()))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}
