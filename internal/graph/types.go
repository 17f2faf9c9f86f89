package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/hmans/bookgraph/internal/library"
)

type bookResolver struct {
	r *Resolver
	b *library.Book
}

func (r *Resolver) book(b *library.Book) *bookResolver {
	return &bookResolver{r: r, b: b}
}

func (r *Resolver) bookList(books []*library.Book) []*bookResolver {
	result := make([]*bookResolver, len(books))
	for i, b := range books {
		result[i] = r.book(b)
	}
	return result
}

func (br *bookResolver) ID() graphql.ID {
	return graphql.ID(br.b.ID)
}

func (br *bookResolver) Name() string {
	return br.b.Name
}

func (br *bookResolver) Genre() *string {
	if br.b.Genre == "" {
		return nil
	}
	return &br.b.Genre
}

func (br *bookResolver) AuthorID() *graphql.ID {
	if br.b.AuthorID == "" {
		return nil
	}
	id := graphql.ID(br.b.AuthorID)
	return &id
}

// Author looks up the referenced author. Malformed and dangling references
// resolve to null without an error.
func (br *bookResolver) Author(ctx context.Context) (*authorResolver, error) {
	if !br.b.HasValidAuthorID() {
		return nil, nil
	}

	a, err := br.r.Store.Author(ctx, br.b.AuthorID)
	if errors.Is(err, library.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, toError("Book.author", err)
	}
	return br.r.author(a), nil
}

type authorResolver struct {
	r *Resolver
	a *library.Author
}

func (r *Resolver) author(a *library.Author) *authorResolver {
	return &authorResolver{r: r, a: a}
}

func (ar *authorResolver) ID() graphql.ID {
	return graphql.ID(ar.a.ID)
}

func (ar *authorResolver) Name() string {
	return ar.a.Name
}

func (ar *authorResolver) Age() *int32 {
	if ar.a.Age == nil {
		return nil
	}
	age := int32(*ar.a.Age)
	return &age
}

// Books returns every book whose authorId equals this author's ID.
func (ar *authorResolver) Books(ctx context.Context) ([]*bookResolver, error) {
	books, err := ar.r.Store.BooksByAuthor(ctx, ar.a.ID)
	if err != nil {
		return nil, toError("Author.books", err)
	}
	return ar.r.bookList(books), nil
}

type authorPageResolver struct {
	items   []*authorResolver
	page    int
	hasMore bool
}

func (pr *authorPageResolver) Items() []*authorResolver {
	return pr.items
}

func (pr *authorPageResolver) Page() int32 {
	return int32(pr.page)
}

func (pr *authorPageResolver) PageSize() int32 {
	return library.PageSize
}

func (pr *authorPageResolver) HasMore() bool {
	return pr.hasMore
}
