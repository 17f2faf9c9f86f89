package mongostore

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmans/bookgraph/internal/library"
)

// bookDocument is the stored shape of a book.
type bookDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Genre    string             `bson:"genre,omitempty"`
	AuthorID string             `bson:"authorId,omitempty"`
}

// authorDocument is the stored shape of an author.
type authorDocument struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
	Age  *int               `bson:"age,omitempty"`
}

func (d *bookDocument) toBook() *library.Book {
	return &library.Book{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Genre:    d.Genre,
		AuthorID: d.AuthorID,
	}
}

func (d *authorDocument) toAuthor() *library.Author {
	return &library.Author{
		ID:   d.ID.Hex(),
		Name: d.Name,
		Age:  d.Age,
	}
}

// fromBook builds a document. An empty or malformed ID leaves _id unset.
func fromBook(b *library.Book) bookDocument {
	doc := bookDocument{Name: b.Name, Genre: b.Genre, AuthorID: b.AuthorID}
	if oid, err := primitive.ObjectIDFromHex(b.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func fromAuthor(a *library.Author) authorDocument {
	doc := authorDocument{Name: a.Name, Age: a.Age}
	if oid, err := primitive.ObjectIDFromHex(a.ID); err == nil {
		doc.ID = oid
	}
	return doc
}
