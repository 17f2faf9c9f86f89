package graph

import (
	"context"
	"errors"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/hmans/bookgraph/internal/library"
	"github.com/hmans/bookgraph/internal/store"
)

// pageArg resolves an optional page argument; null and negative mean page 0.
func pageArg(page *int32) int {
	if page == nil || *page < 0 {
		return 0
	}
	return int(*page)
}

// Book resolves the book query. Missing books yield null.
func (r *Resolver) Book(ctx context.Context, args struct{ ID graphql.ID }) (*bookResolver, error) {
	b, err := r.Store.Book(ctx, string(args.ID))
	if errors.Is(err, library.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, toError("book", err)
	}
	return r.book(b), nil
}

// Author resolves the author query. Missing authors yield null.
func (r *Resolver) Author(ctx context.Context, args struct{ ID graphql.ID }) (*authorResolver, error) {
	a, err := r.Store.Author(ctx, string(args.ID))
	if errors.Is(err, library.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, toError("author", err)
	}
	return r.author(a), nil
}

// GetBooksByAuthor returns all books referencing the given author ID.
func (r *Resolver) GetBooksByAuthor(ctx context.Context, args struct{ AuthorID graphql.ID }) ([]*bookResolver, error) {
	books, err := r.Store.BooksByAuthor(ctx, string(args.AuthorID))
	if err != nil {
		return nil, toError("getBooksByAuthor", err)
	}
	return r.bookList(books), nil
}

// Books returns one page of books.
func (r *Resolver) Books(ctx context.Context, args struct{ Page *int32 }) ([]*bookResolver, error) {
	books, err := r.Store.Books(ctx, store.Page(pageArg(args.Page)))
	if err != nil {
		return nil, toError("books", err)
	}
	return r.bookList(books), nil
}

// Authors returns one page of authors.
func (r *Resolver) Authors(ctx context.Context, args struct{ Page *int32 }) ([]*authorResolver, error) {
	authors, err := r.Store.Authors(ctx, store.Page(pageArg(args.Page)))
	if err != nil {
		return nil, toError("authors", err)
	}
	return r.authorList(authors), nil
}

// AuthorsPage returns one page of authors and whether another page follows.
// It asks the store for one extra author to decide hasMore.
func (r *Resolver) AuthorsPage(ctx context.Context, args struct{ Page *int32 }) (*authorPageResolver, error) {
	page := pageArg(args.Page)
	opts := store.Page(page)
	opts.Limit++

	authors, err := r.Store.Authors(ctx, opts)
	if err != nil {
		return nil, toError("authorsPage", err)
	}

	hasMore := len(authors) > library.PageSize
	if hasMore {
		authors = authors[:library.PageSize]
	}

	return &authorPageResolver{
		items:   r.authorList(authors),
		page:    page,
		hasMore: hasMore,
	}, nil
}

type searchBooksArgs struct {
	Query string
	Limit *int32
}

// SearchBooks runs a full-text search and loads the matching books in rank order.
// Hits whose book has since disappeared from the store are skipped.
func (r *Resolver) SearchBooks(ctx context.Context, args searchBooksArgs) ([]*bookResolver, error) {
	if r.Search == nil {
		return nil, toError("searchBooks", fmt.Errorf("search index is not configured"))
	}

	limit := 0
	if args.Limit != nil {
		limit = int(*args.Limit)
	}

	ids, err := r.Search.Search(args.Query, limit)
	if err != nil {
		return nil, &Error{Code: CodeBadUserInput, Message: fmt.Sprintf("invalid search query: %v", err), err: err}
	}

	result := make([]*bookResolver, 0, len(ids))
	for _, id := range ids {
		b, err := r.Store.Book(ctx, id)
		if errors.Is(err, library.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, toError("searchBooks", err)
		}
		result = append(result, r.book(b))
	}
	return result, nil
}

func (r *Resolver) authorList(authors []*library.Author) []*authorResolver {
	result := make([]*authorResolver, len(authors))
	for i, a := range authors {
		result[i] = r.author(a)
	}
	return result
}
