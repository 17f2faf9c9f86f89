// Package memstore provides a thread-safe in-memory store for books and authors
// with optional YAML snapshot persistence and file watching for long-running processes.
package memstore

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hmans/bookgraph/internal/library"
	"github.com/hmans/bookgraph/internal/store"
)

// Store keeps books and authors in memory, in insertion order.
// If a snapshot path is set, every mutation rewrites the snapshot file.
type Store struct {
	path string // snapshot file, empty for a purely in-memory store

	mu          sync.RWMutex
	books       map[string]*library.Book
	bookOrder   []string
	bookNames   map[string]string // name -> ID
	authors     map[string]*library.Author
	authorOrder []string

	// checksum of the snapshot content last written or read by this store
	sum [sha256.Size]byte

	// File watching (optional)
	watching bool
	done     chan struct{}
	onChange func()
}

var _ store.Store = (*Store)(nil)

// snapshot is the on-disk YAML layout.
type snapshot struct {
	Authors []*library.Author `yaml:"authors"`
	Books   []*library.Book   `yaml:"books"`
}

// New creates a store backed by the snapshot file at path.
// Pass an empty path for a store that never touches the filesystem.
func New(path string) *Store {
	s := &Store{path: path}
	s.reset()
	return s
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) reset() {
	s.books = make(map[string]*library.Book)
	s.bookOrder = nil
	s.bookNames = make(map[string]string)
	s.authors = make(map[string]*library.Author)
	s.authorOrder = nil
}

// Load reads the snapshot file into memory. A missing file yields an empty store.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadFromDisk()
}

// loadFromDisk replaces the in-memory state (must be called with lock held).
func (s *Store) loadFromDisk() error {
	_, err := s.syncFromDisk()
	return err
}

// syncFromDisk reloads the snapshot unless its content matches what this
// store last wrote or read. It reports whether the state was replaced
// (must be called with lock held).
func (s *Store) syncFromDisk() (bool, error) {
	if s.path == "" {
		s.reset()
		return true, nil
	}

	var snap snapshot
	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		data = nil
	case err != nil:
		return false, err
	default:
		if sum := sha256.Sum256(data); sum == s.sum && s.sum != ([sha256.Size]byte{}) {
			return false, nil
		}
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return false, fmt.Errorf("parsing snapshot %s: %w", s.path, err)
		}
	}

	s.reset()
	s.sum = [sha256.Size]byte{}
	if data != nil {
		s.sum = sha256.Sum256(data)
	}
	for _, a := range snap.Authors {
		if a == nil || a.ID == "" {
			continue
		}
		s.authors[a.ID] = a
		s.authorOrder = append(s.authorOrder, a.ID)
	}
	for _, b := range snap.Books {
		if b == nil || b.ID == "" {
			continue
		}
		s.books[b.ID] = b
		s.bookOrder = append(s.bookOrder, b.ID)
		s.bookNames[b.Name] = b.ID
	}

	return true, nil
}

// saveToDisk writes the snapshot file (must be called with lock held).
func (s *Store) saveToDisk() error {
	if s.path == "" {
		return nil
	}

	snap := snapshot{
		Authors: make([]*library.Author, 0, len(s.authorOrder)),
		Books:   make([]*library.Book, 0, len(s.bookOrder)),
	}
	for _, id := range s.authorOrder {
		snap.Authors = append(snap.Authors, s.authors[id])
	}
	for _, id := range s.bookOrder {
		snap.Books = append(snap.Books, s.books[id])
	}

	content, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	// Write to a temp file and rename so readers never see a partial snapshot.
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	s.sum = sha256.Sum256(content)

	return nil
}

// Book returns a copy of the book with the given ID.
func (s *Store) Book(ctx context.Context, id string) (*library.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return nil, library.ErrNotFound
	}
	return b.Clone(), nil
}

// Books returns copies of the books selected by opts, in insertion order.
func (s *Store) Books(ctx context.Context, opts store.ListOptions) ([]*library.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := store.Slice(s.bookOrder, opts)
	result := make([]*library.Book, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.books[id].Clone())
	}
	return result, nil
}

// BooksByAuthor returns copies of all books referencing authorID.
func (s *Store) BooksByAuthor(ctx context.Context, authorID string) ([]*library.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*library.Book{}
	for _, id := range s.bookOrder {
		if b := s.books[id]; b.AuthorID == authorID {
			result = append(result, b.Clone())
		}
	}
	return result, nil
}

// CreateBook stores a new book, generating its ID if none is set.
func (s *Store) CreateBook(ctx context.Context, b *library.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.bookNames[b.Name]; taken {
		return library.ErrDuplicateName
	}
	if b.ID == "" {
		b.ID = library.NewID()
	}
	if _, exists := s.books[b.ID]; exists {
		return fmt.Errorf("book %s already exists", b.ID)
	}

	s.books[b.ID] = b.Clone()
	s.bookOrder = append(s.bookOrder, b.ID)
	s.bookNames[b.Name] = b.ID

	if err := s.saveToDisk(); err != nil {
		s.dropBook(b.ID)
		return err
	}
	return nil
}

// UpdateBook replaces an existing book.
func (s *Store) UpdateBook(ctx context.Context, b *library.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.books[b.ID]
	if !ok {
		return library.ErrNotFound
	}
	if owner, taken := s.bookNames[b.Name]; taken && owner != b.ID {
		return library.ErrDuplicateName
	}

	delete(s.bookNames, old.Name)
	s.books[b.ID] = b.Clone()
	s.bookNames[b.Name] = b.ID

	if err := s.saveToDisk(); err != nil {
		delete(s.bookNames, b.Name)
		s.books[b.ID] = old
		s.bookNames[old.Name] = old.ID
		return err
	}
	return nil
}

// DeleteBook removes a book and returns what was removed.
func (s *Store) DeleteBook(ctx context.Context, id string) (*library.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		return nil, library.ErrNotFound
	}

	order := s.bookOrder
	s.dropBook(id)
	if err := s.saveToDisk(); err != nil {
		s.books[id] = b
		s.bookOrder = order
		s.bookNames[b.Name] = id
		return nil, err
	}
	return b.Clone(), nil
}

// dropBook removes a book from memory (must be called with lock held).
func (s *Store) dropBook(id string) {
	b, ok := s.books[id]
	if !ok {
		return
	}
	delete(s.books, id)
	delete(s.bookNames, b.Name)
	s.bookOrder = without(s.bookOrder, id)
}

// Author returns a copy of the author with the given ID.
func (s *Store) Author(ctx context.Context, id string) (*library.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.authors[id]
	if !ok {
		return nil, library.ErrNotFound
	}
	return a.Clone(), nil
}

// Authors returns copies of the authors selected by opts, in insertion order.
func (s *Store) Authors(ctx context.Context, opts store.ListOptions) ([]*library.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := store.Slice(s.authorOrder, opts)
	result := make([]*library.Author, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.authors[id].Clone())
	}
	return result, nil
}

// CreateAuthor stores a new author, generating its ID if none is set.
func (s *Store) CreateAuthor(ctx context.Context, a *library.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = library.NewID()
	}
	if _, exists := s.authors[a.ID]; exists {
		return fmt.Errorf("author %s already exists", a.ID)
	}

	s.authors[a.ID] = a.Clone()
	s.authorOrder = append(s.authorOrder, a.ID)

	if err := s.saveToDisk(); err != nil {
		delete(s.authors, a.ID)
		s.authorOrder = without(s.authorOrder, a.ID)
		return err
	}
	return nil
}

// UpdateAuthor replaces an existing author.
func (s *Store) UpdateAuthor(ctx context.Context, a *library.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.authors[a.ID]
	if !ok {
		return library.ErrNotFound
	}

	s.authors[a.ID] = a.Clone()
	if err := s.saveToDisk(); err != nil {
		s.authors[a.ID] = old
		return err
	}
	return nil
}

// DeleteAuthor removes an author and returns what was removed.
func (s *Store) DeleteAuthor(ctx context.Context, id string) (*library.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.authors[id]
	if !ok {
		return nil, library.ErrNotFound
	}

	order := s.authorOrder
	delete(s.authors, id)
	s.authorOrder = without(s.authorOrder, id)
	if err := s.saveToDisk(); err != nil {
		s.authors[id] = a
		s.authorOrder = order
		return nil, err
	}
	return a.Clone(), nil
}

// Ping always succeeds for an in-memory store.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close stops any active file watcher.
func (s *Store) Close() error {
	return s.Unwatch()
}

// ErrNoSnapshot is returned when watching a store that has no snapshot file.
var ErrNoSnapshot = errors.New("store has no snapshot file")

// without returns a new slice with every occurrence of id removed.
func without(ids []string, id string) []string {
	result := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			result = append(result, v)
		}
	}
	return result
}
