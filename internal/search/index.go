// Package search provides full-text search over books using Bleve.
package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/hmans/bookgraph/internal/library"
)

// DefaultSearchLimit is the maximum number of results when no limit is given.
const DefaultSearchLimit = 10

// Index wraps a Bleve in-memory index of books.
type Index struct {
	index bleve.Index
}

// bookDocument is the structure stored in the Bleve index.
type bookDocument struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Genre    string `json:"genre"`
	AuthorID string `json:"author_id,omitempty"`
}

// NewIndex creates a new in-memory Bleve index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}

	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "standard"

	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	bookMapping := bleve.NewDocumentMapping()
	bookMapping.AddFieldMappingsAt("id", keywordFieldMapping)
	bookMapping.AddFieldMappingsAt("name", textFieldMapping)
	// Genres are single tokens; the standard analyzer lowercases them so
	// "genre:fantasy" and "FANTASY" both match.
	bookMapping.AddFieldMappingsAt("genre", textFieldMapping)
	bookMapping.AddFieldMappingsAt("author_id", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = bookMapping
	indexMapping.DefaultAnalyzer = "standard"
	indexMapping.IndexDynamic = false
	indexMapping.StoreDynamic = false
	indexMapping.ScoringModel = "bm25"

	return indexMapping
}

// Close closes the index.
func (idx *Index) Close() error {
	return idx.index.Close()
}

func toDocument(b *library.Book) bookDocument {
	return bookDocument{
		ID:       b.ID,
		Name:     b.Name,
		Genre:    b.Genre,
		AuthorID: b.AuthorID,
	}
}

// IndexBook adds or updates a book in the index.
func (idx *Index) IndexBook(b *library.Book) error {
	return idx.index.Index(b.ID, toDocument(b))
}

// DeleteBook removes a book from the index.
func (idx *Index) DeleteBook(id string) error {
	return idx.index.Delete(id)
}

// IndexBooks indexes multiple books in one batch.
func (idx *Index) IndexBooks(books []*library.Book) error {
	batch := idx.index.NewBatch()
	for _, b := range books {
		if err := batch.Index(b.ID, toDocument(b)); err != nil {
			return err
		}
	}
	return idx.index.Batch(batch)
}

// Rebuild replaces the index contents with books.
func (idx *Index) Rebuild(books []*library.Book) error {
	count, err := idx.index.DocCount()
	if err != nil {
		return err
	}

	batch := idx.index.NewBatch()
	if count > 0 {
		req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
		req.Size = int(count)
		res, err := idx.index.Search(req)
		if err != nil {
			return err
		}
		for _, hit := range res.Hits {
			batch.Delete(hit.ID)
		}
	}
	for _, b := range books {
		if err := batch.Index(b.ID, toDocument(b)); err != nil {
			return err
		}
	}
	return idx.index.Batch(batch)
}

// Search executes a query string search and returns matching book IDs,
// best match first. A limit of 0 uses DefaultSearchLimit.
func (idx *Index) Search(queryStr string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	// Query string syntax supports terms, phrases, wildcards ("riv*")
	// and field prefixes ("genre:fantasy").
	query := bleve.NewQueryStringQuery(queryStr)

	searchRequest := bleve.NewSearchRequest(query)
	searchRequest.Size = limit

	result, err := idx.index.Search(searchRequest)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
