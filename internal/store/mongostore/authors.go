package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmans/bookgraph/internal/library"
	"github.com/hmans/bookgraph/internal/store"
)

func (s *Store) Author(ctx context.Context, id string) (*library.Author, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, library.ErrNotFound
	}

	var doc authorDocument
	if err := s.authors.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toAuthor(), nil
}

func (s *Store) Authors(ctx context.Context, opts store.ListOptions) ([]*library.Author, error) {
	cur, err := s.authors.Find(ctx, bson.M{}, findOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("finding authors: %w", err)
	}
	defer cur.Close(ctx)

	var docs []authorDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding authors: %w", err)
	}

	result := make([]*library.Author, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toAuthor())
	}
	return result, nil
}

func (s *Store) CreateAuthor(ctx context.Context, a *library.Author) error {
	doc := fromAuthor(a)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := s.authors.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	a.ID = doc.ID.Hex()
	return nil
}

// UpdateAuthor replaces name and age. A nil age removes the stored value.
func (s *Store) UpdateAuthor(ctx context.Context, a *library.Author) error {
	oid, err := primitive.ObjectIDFromHex(a.ID)
	if err != nil {
		return library.ErrNotFound
	}

	update := bson.M{"$set": bson.M{"name": a.Name}}
	if a.Age != nil {
		update["$set"] = bson.M{"name": a.Name, "age": *a.Age}
	} else {
		update["$unset"] = bson.M{"age": ""}
	}

	res, err := s.authors.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return library.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAuthor(ctx context.Context, id string) (*library.Author, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, library.ErrNotFound
	}

	var doc authorDocument
	if err := s.authors.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toAuthor(), nil
}
