package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmans/bookgraph/internal/library"
	"github.com/hmans/bookgraph/internal/store"
	"github.com/hmans/bookgraph/internal/ui"
)

type seedAuthor struct {
	Name string
	Age  int
}

type seedBook struct {
	Name   string
	Genre  library.Genre
	Author string
}

var seedAuthors = []seedAuthor{
	{"Mg Mg", 26},
	{"Su Su", 27},
	{"Hla Hla", 30},
	{"Mg Ba", 50},
}

var seedBooks = []seedBook{
	{"The river", library.GenreFantasy, "Mg Mg"},
	{"Monkey", library.GenreSciFi, "Mg Mg"},
	{"Apple Inc", library.GenreBiography, "Su Su"},
	{"Steve Jobs", library.GenreBiography, "Hla Hla"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample authors and books",
	Long: `Loads a small sample library of authors and books.

Records whose name already exists are skipped, so running seed twice
does not create duplicates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := seed(context.Background(), dataStore)
		if err != nil {
			return err
		}

		if created == 0 {
			fmt.Println(ui.Muted.Render("Sample data already present, nothing to do"))
			return nil
		}
		fmt.Println(ui.Success.Render("Created ") + ui.Bold.Render(fmt.Sprintf("%d", created)) + ui.Success.Render(" records"))
		return nil
	},
}

// seed inserts the sample data that is not there yet and reports how many
// records it created.
func seed(ctx context.Context, s store.Store) (int, error) {
	authors, err := s.Authors(ctx, store.ListOptions{})
	if err != nil {
		return 0, fmt.Errorf("listing authors: %w", err)
	}
	authorIDs := make(map[string]string, len(authors))
	for _, a := range authors {
		if _, seen := authorIDs[a.Name]; !seen {
			authorIDs[a.Name] = a.ID
		}
	}

	books, err := s.Books(ctx, store.ListOptions{})
	if err != nil {
		return 0, fmt.Errorf("listing books: %w", err)
	}
	bookNames := make(map[string]bool, len(books))
	for _, b := range books {
		bookNames[b.Name] = true
	}

	created := 0
	for _, sa := range seedAuthors {
		if _, ok := authorIDs[sa.Name]; ok {
			continue
		}
		age := sa.Age
		a := &library.Author{Name: sa.Name, Age: &age}
		if err := s.CreateAuthor(ctx, a); err != nil {
			return created, fmt.Errorf("creating author %q: %w", sa.Name, err)
		}
		authorIDs[a.Name] = a.ID
		created++
	}

	for _, sb := range seedBooks {
		if bookNames[sb.Name] {
			continue
		}
		b := &library.Book{Name: sb.Name, Genre: string(sb.Genre), AuthorID: authorIDs[sb.Author]}
		if err := s.CreateBook(ctx, b); err != nil {
			return created, fmt.Errorf("creating book %q: %w", sb.Name, err)
		}
		if searchIndex != nil {
			if err := searchIndex.IndexBook(b); err != nil {
				return created, fmt.Errorf("indexing book %q: %w", sb.Name, err)
			}
		}
		created++
	}

	return created, nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
