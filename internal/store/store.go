// Package store defines the persistence contract the GraphQL resolvers depend on.
// Implementations live in the memstore and mongostore subpackages.
package store

import (
	"context"

	"github.com/hmans/bookgraph/internal/library"
)

// ListOptions controls paging for list operations.
// A zero Limit means no limit.
type ListOptions struct {
	Offset int
	Limit  int
}

// Page returns the ListOptions for a zero-based page of library.PageSize items.
func Page(page int) ListOptions {
	return ListOptions{Offset: library.Offset(page), Limit: library.PageSize}
}

// BookStore persists books.
//
// Lookups by an ID that is not structurally valid behave like lookups of a
// missing document: they return library.ErrNotFound, never a driver error.
type BookStore interface {
	// Book returns the book with the given ID or library.ErrNotFound.
	Book(ctx context.Context, id string) (*library.Book, error)
	// Books returns books in storage order.
	Books(ctx context.Context, opts ListOptions) ([]*library.Book, error)
	// BooksByAuthor returns every book whose AuthorID equals authorID.
	BooksByAuthor(ctx context.Context, authorID string) ([]*library.Book, error)
	// CreateBook assigns a new ID and stores the book.
	// Returns library.ErrDuplicateName if the name is taken.
	CreateBook(ctx context.Context, b *library.Book) error
	// UpdateBook replaces the stored book with the same ID.
	// Returns library.ErrNotFound or library.ErrDuplicateName.
	UpdateBook(ctx context.Context, b *library.Book) error
	// DeleteBook removes a book and returns it, or library.ErrNotFound.
	DeleteBook(ctx context.Context, id string) (*library.Book, error)
}

// AuthorStore persists authors.
type AuthorStore interface {
	Author(ctx context.Context, id string) (*library.Author, error)
	Authors(ctx context.Context, opts ListOptions) ([]*library.Author, error)
	CreateAuthor(ctx context.Context, a *library.Author) error
	UpdateAuthor(ctx context.Context, a *library.Author) error
	// DeleteAuthor removes an author. Books referencing it are left alone.
	DeleteAuthor(ctx context.Context, id string) (*library.Author, error)
}

// Store is the full persistence surface.
type Store interface {
	BookStore
	AuthorStore

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend's resources.
	Close() error
}

// window applies opts to a slice length and returns the [start, end) bounds.
func window(n int, opts ListOptions) (int, int) {
	start := opts.Offset
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := n
	if opts.Limit > 0 && start+opts.Limit < n {
		end = start + opts.Limit
	}
	return start, end
}

// Slice returns the part of items selected by opts.
func Slice[T any](items []T, opts ListOptions) []T {
	start, end := window(len(items), opts)
	return items[start:end]
}
