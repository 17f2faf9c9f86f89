package graph

import (
	"context"
	"errors"
	"log"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/hmans/bookgraph/internal/library"
)

type addBookArgs struct {
	Name     string
	Genre    string
	AuthorID graphql.ID
}

// AddBook creates a book. The referenced author must exist.
func (r *Resolver) AddBook(ctx context.Context, args addBookArgs) (*bookResolver, error) {
	input := library.BookInput{
		Name:     args.Name,
		Genre:    args.Genre,
		AuthorID: string(args.AuthorID),
	}
	if err := library.Validate(input); err != nil {
		return nil, toError("addBook", err)
	}
	if err := library.ValidateID("authorId", input.AuthorID); err != nil {
		return nil, toError("addBook", err)
	}

	if _, err := r.Store.Author(ctx, input.AuthorID); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			err = library.ErrAuthorNotFound
		}
		return nil, toError("addBook", err)
	}

	b := &library.Book{
		Name:     input.Name,
		Genre:    input.Genre,
		AuthorID: input.AuthorID,
	}
	if err := r.Store.CreateBook(ctx, b); err != nil {
		return nil, toError("addBook", err)
	}

	r.indexBook(b)
	return r.book(b), nil
}

type updateBookArgs struct {
	ID    graphql.ID
	Name  string
	Genre string
}

// UpdateBook replaces a book's name and genre. Its author reference is kept.
func (r *Resolver) UpdateBook(ctx context.Context, args updateBookArgs) (*bookResolver, error) {
	input := library.BookInput{Name: args.Name, Genre: args.Genre}
	if err := library.Validate(input); err != nil {
		return nil, toError("updateBook", err)
	}

	id := string(args.ID)
	existing, err := r.Store.Book(ctx, id)
	if errors.Is(err, library.ErrNotFound) {
		return nil, notFound("book", id)
	}
	if err != nil {
		return nil, toError("updateBook", err)
	}

	existing.Name = input.Name
	existing.Genre = input.Genre
	if err := r.Store.UpdateBook(ctx, existing); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return nil, notFound("book", id)
		}
		return nil, toError("updateBook", err)
	}

	r.indexBook(existing)
	return r.book(existing), nil
}

// DeleteBook removes a book and returns it.
func (r *Resolver) DeleteBook(ctx context.Context, args struct{ ID graphql.ID }) (*bookResolver, error) {
	id := string(args.ID)
	b, err := r.Store.DeleteBook(ctx, id)
	if errors.Is(err, library.ErrNotFound) {
		return nil, notFound("book", id)
	}
	if err != nil {
		return nil, toError("deleteBook", err)
	}

	if r.Search != nil {
		if err := r.Search.DeleteBook(id); err != nil {
			log.Printf("graph: removing book %s from search index: %v", id, err)
		}
	}
	return r.book(b), nil
}

type addAuthorArgs struct {
	Name string
	Age  *int32
}

// AddAuthor creates an author. Age is optional.
func (r *Resolver) AddAuthor(ctx context.Context, args addAuthorArgs) (*authorResolver, error) {
	input := library.AuthorInput{Name: args.Name, Age: intPtr(args.Age)}
	if err := library.Validate(input); err != nil {
		return nil, toError("addAuthor", err)
	}

	a := &library.Author{Name: input.Name, Age: input.Age}
	if err := r.Store.CreateAuthor(ctx, a); err != nil {
		return nil, toError("addAuthor", err)
	}
	return r.author(a), nil
}

type updateAuthorArgs struct {
	ID   graphql.ID
	Name string
	Age  int32
}

// UpdateAuthor replaces every field of an author.
func (r *Resolver) UpdateAuthor(ctx context.Context, args updateAuthorArgs) (*authorResolver, error) {
	id := string(args.ID)
	age := int(args.Age)
	input := library.AuthorInput{Name: args.Name, Age: &age}
	if err := library.Validate(input); err != nil {
		return nil, toError("updateAuthor", err)
	}

	a := &library.Author{ID: id, Name: input.Name, Age: input.Age}
	if err := r.Store.UpdateAuthor(ctx, a); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return nil, notFound("author", id)
		}
		return nil, toError("updateAuthor", err)
	}
	return r.author(a), nil
}

// RemoveAuthor deletes an author and returns it. Books keep their now
// dangling reference.
func (r *Resolver) RemoveAuthor(ctx context.Context, args struct{ ID graphql.ID }) (*authorResolver, error) {
	id := string(args.ID)
	a, err := r.Store.DeleteAuthor(ctx, id)
	if errors.Is(err, library.ErrNotFound) {
		return nil, notFound("author", id)
	}
	if err != nil {
		return nil, toError("removeAuthor", err)
	}
	return r.author(a), nil
}

// indexBook keeps the search index in step with the store. Index failures
// are logged; the write itself already succeeded.
func (r *Resolver) indexBook(b *library.Book) {
	if r.Search == nil {
		return
	}
	if err := r.Search.IndexBook(b); err != nil {
		log.Printf("graph: indexing book %s: %v", b.ID, err)
	}
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
