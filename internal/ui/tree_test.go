package ui

import (
	"strings"
	"testing"

	"github.com/hmans/bookgraph/internal/library"
)

func TestBuildTree(t *testing.T) {
	age := 26
	mgmg := &library.Author{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "Mg Mg", Age: &age}
	susu := &library.Author{ID: "bbbbbbbbbbbbbbbbbbbbbbbb", Name: "Su Su"}

	books := []*library.Book{
		{ID: "1", Name: "The river", Genre: "ACTION", AuthorID: mgmg.ID},
		{ID: "2", Name: "Monkey", Genre: "COMEDY", AuthorID: "gone"},
		{ID: "3", Name: "Apple Inc", Genre: "HISTORY", AuthorID: mgmg.ID},
	}

	nodes := BuildTree([]*library.Author{mgmg, susu}, books)

	if len(nodes) != 3 {
		t.Fatalf("BuildTree() returned %d nodes, want 3", len(nodes))
	}
	if len(nodes[0].Books) != 2 || nodes[0].Books[1].Name != "Apple Inc" {
		t.Errorf("Mg Mg books = %d, want [The river, Apple Inc]", len(nodes[0].Books))
	}
	if len(nodes[1].Books) != 0 {
		t.Errorf("Su Su books = %d, want 0", len(nodes[1].Books))
	}
	if nodes[2].Author != nil || len(nodes[2].Books) != 1 {
		t.Errorf("orphan node = %+v, want one book without author", nodes[2])
	}
}

func TestBuildTreeWithoutOrphans(t *testing.T) {
	a := &library.Author{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "Hla Hla"}
	nodes := BuildTree([]*library.Author{a}, []*library.Book{{ID: "1", Name: "X", AuthorID: a.ID}})

	if len(nodes) != 1 {
		t.Errorf("BuildTree() returned %d nodes, want 1", len(nodes))
	}
}

func TestTreeNodeToJSON(t *testing.T) {
	a := &library.Author{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "Mg Ba"}

	got := (&TreeNode{Author: a}).ToJSON()
	if got.ID != a.ID || got.Name != "Mg Ba" {
		t.Errorf("ToJSON() = %+v", got)
	}
	if got.Books == nil {
		t.Error("ToJSON().Books = nil, want empty slice")
	}

	orphans := (&TreeNode{}).ToJSON()
	if orphans.Name != orphanLabel {
		t.Errorf("orphan ToJSON().Name = %q, want %q", orphans.Name, orphanLabel)
	}
}

func TestRenderTree(t *testing.T) {
	a := &library.Author{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "Mg Mg"}
	nodes := BuildTree([]*library.Author{a}, []*library.Book{
		{ID: "cccccccccccccccccccccccc", Name: "The river", Genre: "ACTION", AuthorID: a.ID},
		{ID: "dddddddddddddddddddddddd", Name: "Monkey", Genre: "COMEDY", AuthorID: a.ID},
	})

	out := RenderTree(nodes)
	for _, want := range []string{"Mg Mg", "The river", "Monkey", treeBranch, treeLastBranch} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTree() missing %q:\n%s", want, out)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is too long", 10, "this is..."},
		{"Mg Mg ဦး", 8, "Mg Mg ဦး"},
	}

	for _, tt := range tests {
		if got := truncateString(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}
