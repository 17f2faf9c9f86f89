package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmans/bookgraph/internal/library"
	"github.com/hmans/bookgraph/internal/store"
)

func (s *Store) Book(ctx context.Context, id string) (*library.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, library.ErrNotFound
	}

	var doc bookDocument
	if err := s.books.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toBook(), nil
}

func (s *Store) Books(ctx context.Context, opts store.ListOptions) ([]*library.Book, error) {
	return s.findBooks(ctx, bson.M{}, opts)
}

func (s *Store) BooksByAuthor(ctx context.Context, authorID string) ([]*library.Book, error) {
	return s.findBooks(ctx, bson.M{"authorId": authorID}, store.ListOptions{})
}

func (s *Store) findBooks(ctx context.Context, filter bson.M, opts store.ListOptions) ([]*library.Book, error) {
	cur, err := s.books.Find(ctx, filter, findOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("finding books: %w", err)
	}
	defer cur.Close(ctx)

	var docs []bookDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding books: %w", err)
	}

	result := make([]*library.Book, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toBook())
	}
	return result, nil
}

func (s *Store) CreateBook(ctx context.Context, b *library.Book) error {
	doc := fromBook(b)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := s.books.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	b.ID = doc.ID.Hex()
	return nil
}

// UpdateBook sets every writable field; fields other tools added are kept.
func (s *Store) UpdateBook(ctx context.Context, b *library.Book) error {
	oid, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return library.ErrNotFound
	}

	res, err := s.books.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"name":     b.Name,
			"genre":    b.Genre,
			"authorId": b.AuthorID,
		},
	})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return library.ErrNotFound
	}
	return nil
}

// DeleteBook removes the book and returns the document the server deleted.
func (s *Store) DeleteBook(ctx context.Context, id string) (*library.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, library.ErrNotFound
	}

	var doc bookDocument
	if err := s.books.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toBook(), nil
}
