package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hmans/bookgraph/internal/library"
)

func TestRunList(t *testing.T) {
	testStore, cleanup := setupQueryTestStore(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runList(ctx, &buf, testStore, false); err != nil {
			t.Fatalf("runList() error = %v", err)
		}
		if !strings.Contains(buf.String(), "No authors found") {
			t.Errorf("output = %q, want empty notice", buf.String())
		}
	})

	a := createQueryTestAuthor(t, testStore, "Mg Mg", 26)
	if err := testStore.CreateBook(ctx, &library.Book{Name: "The river", Genre: "FANTASY", AuthorID: a.ID}); err != nil {
		t.Fatalf("CreateBook() error = %v", err)
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runList(ctx, &buf, testStore, false); err != nil {
			t.Fatalf("runList() error = %v", err)
		}
		for _, want := range []string{"Mg Mg", "The river"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("output missing %q:\n%s", want, buf.String())
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runList(ctx, &buf, testStore, true); err != nil {
			t.Fatalf("runList() error = %v", err)
		}

		var nodes []struct {
			Name  string `json:"name"`
			Books []struct {
				Name string `json:"name"`
			} `json:"books"`
		}
		if err := json.Unmarshal(buf.Bytes(), &nodes); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(nodes) != 1 || nodes[0].Name != "Mg Mg" || len(nodes[0].Books) != 1 {
			t.Errorf("nodes = %+v, want Mg Mg with one book", nodes)
		}
	})
}
