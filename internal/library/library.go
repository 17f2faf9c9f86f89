// Package library defines the book and author documents served by the GraphQL API.
package library

import (
	"strings"
)

// PageSize is the fixed number of items returned by paged list queries.
const PageSize = 10

// Genre is the closed set of genres accepted when writing a book.
type Genre string

const (
	GenreAction    Genre = "ACTION"
	GenreAdventure Genre = "ADVENTURE"
	GenreBiography Genre = "BIOGRAPHY"
	GenreComedy    Genre = "COMEDY"
	GenreDrama     Genre = "DRAMA"
	GenreFantasy   Genre = "FANTASY"
	GenreHistory   Genre = "HISTORY"
	GenreHorror    Genre = "HORROR"
	GenreMystery   Genre = "MYSTERY"
	GenreRomance   Genre = "ROMANCE"
	GenreSciFi     Genre = "SCIFI"
	GenreThriller  Genre = "THRILLER"
)

// Genres lists every accepted genre in schema order.
var Genres = []Genre{
	GenreAction,
	GenreAdventure,
	GenreBiography,
	GenreComedy,
	GenreDrama,
	GenreFantasy,
	GenreHistory,
	GenreHorror,
	GenreMystery,
	GenreRomance,
	GenreSciFi,
	GenreThriller,
}

// IsValidGenre returns true if g is one of Genres (case sensitive).
func IsValidGenre(g string) bool {
	for _, known := range Genres {
		if string(known) == g {
			return true
		}
	}
	return false
}

// GenreList returns a comma-separated list of valid genres.
func GenreList() string {
	names := make([]string, len(Genres))
	for i, g := range Genres {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

// Book is a stored book document.
type Book struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	// Genre is stored as a plain string. Writes are restricted to Genres, but
	// documents written by other tools may hold anything.
	Genre string `yaml:"genre,omitempty" json:"genre,omitempty"`
	// AuthorID references an Author by ID. Nothing at the storage layer
	// guarantees the author exists.
	AuthorID string `yaml:"author_id,omitempty" json:"authorId,omitempty"`
}

// HasValidAuthorID returns true if AuthorID is structurally a document ID.
func (b *Book) HasValidAuthorID() bool {
	return IsValidID(b.AuthorID)
}

// Clone returns a copy of the book.
func (b *Book) Clone() *Book {
	c := *b
	return &c
}

// Author is a stored author document.
type Author struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Age  *int   `yaml:"age,omitempty" json:"age,omitempty"`
}

// Clone returns a deep copy of the author.
func (a *Author) Clone() *Author {
	c := *a
	if a.Age != nil {
		age := *a.Age
		c.Age = &age
	}
	return &c
}

// Offset converts a zero-based page number to a list offset.
// Negative pages are treated as page 0.
func Offset(page int) int {
	if page < 0 {
		page = 0
	}
	return page * PageSize
}
