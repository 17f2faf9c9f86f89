package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hmans/bookgraph/internal/library"
)

// TreeNode is an author with the books that reference it. Orphaned books
// are collected under a node with a nil Author.
type TreeNode struct {
	Author *library.Author
	Books  []*library.Book
}

// TreeNodeJSON is the JSON-serializable version of TreeNode.
type TreeNodeJSON struct {
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name"`
	Age   *int            `json:"age,omitempty"`
	Books []*library.Book `json:"books"`
}

// ToJSON converts a TreeNode to its JSON-serializable form.
func (n *TreeNode) ToJSON() *TreeNodeJSON {
	books := n.Books
	if books == nil {
		books = []*library.Book{}
	}
	if n.Author == nil {
		return &TreeNodeJSON{Name: orphanLabel, Books: books}
	}
	return &TreeNodeJSON{ID: n.Author.ID, Name: n.Author.Name, Age: n.Author.Age, Books: books}
}

const orphanLabel = "(unknown author)"

// BuildTree groups books under their authors, keeping the order of both
// inputs. Books whose author is missing end up in a trailing orphan node.
func BuildTree(authors []*library.Author, books []*library.Book) []*TreeNode {
	nodes := make([]*TreeNode, len(authors))
	byID := make(map[string]*TreeNode, len(authors))
	for i, a := range authors {
		nodes[i] = &TreeNode{Author: a}
		byID[a.ID] = nodes[i]
	}

	var orphans *TreeNode
	for _, b := range books {
		if n, ok := byID[b.AuthorID]; ok {
			n.Books = append(n.Books, b)
			continue
		}
		if orphans == nil {
			orphans = &TreeNode{}
		}
		orphans.Books = append(orphans.Books, b)
	}

	if orphans != nil {
		nodes = append(nodes, orphans)
	}
	return nodes
}

// Tree drawing characters
const (
	treeBranch     = "├─ "
	treeLastBranch = "└─ "
	idWidth        = 24 // ObjectID hex length
	treeIndent     = 3  // width of connector (├─  or └─ )
)

// RenderTree renders authors and their books as a table with tree connectors.
func RenderTree(nodes []*TreeNode) string {
	var sb strings.Builder

	idColWidth := idWidth + treeIndent + 2
	idStyle := lipgloss.NewStyle().Width(idColWidth)
	nameStyle := lipgloss.NewStyle().Width(40)
	headerCol := lipgloss.NewStyle().Foreground(ColorMuted)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		idStyle.Render(headerCol.Render("ID")),
		nameStyle.Render(headerCol.Render("NAME")),
		headerCol.Render("GENRE / AGE"),
	)
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(Muted.Render(strings.Repeat("─", idColWidth+40+12)))
	sb.WriteString("\n")

	for _, node := range nodes {
		renderAuthor(&sb, node, idStyle, nameStyle)
		for i, b := range node.Books {
			renderBook(&sb, b, i == len(node.Books)-1, idColWidth, nameStyle)
		}
	}

	return sb.String()
}

func renderAuthor(sb *strings.Builder, node *TreeNode, idStyle, nameStyle lipgloss.Style) {
	if node.Author == nil {
		sb.WriteString(idStyle.Render(""))
		sb.WriteString(Muted.Render(orphanLabel))
		sb.WriteString("\n")
		return
	}

	age := ""
	if node.Author.Age != nil {
		age = strconv.Itoa(*node.Author.Age)
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		idStyle.Render(ID.Render(node.Author.ID)),
		nameStyle.Render(Bold.Render(truncateString(node.Author.Name, 38))),
		Secondary.Render(age),
	))
	sb.WriteString("\n")
}

// renderBook draws one book row. The ID cell is padded by hand because the
// connector is styled separately from the ID.
func renderBook(sb *strings.Builder, b *library.Book, isLast bool, idColWidth int, nameStyle lipgloss.Style) {
	connector := treeBranch
	if isLast {
		connector = treeLastBranch
	}

	visualWidth := runeWidth(connector) + len(b.ID)
	padding := ""
	if idColWidth > visualWidth {
		padding = strings.Repeat(" ", idColWidth-visualWidth)
	}
	idCell := TreeLine.Render(connector) + ID.Render(b.ID) + padding

	sb.WriteString(idCell)
	sb.WriteString(nameStyle.Render(truncateString(b.Name, 38)))
	sb.WriteString(RenderGenre(b.Genre))
	sb.WriteString("\n")
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// runeWidth returns the display width of a string (counts runes, not bytes).
func runeWidth(s string) int {
	return len([]rune(s))
}
