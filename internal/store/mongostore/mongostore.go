// Package mongostore persists books and authors in MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hmans/bookgraph/internal/library"
	"github.com/hmans/bookgraph/internal/store"
)

const (
	BooksCollection   = "books"
	AuthorsCollection = "authors"

	defaultMaxAttempts     = 10
	defaultDelayBetweenTry = 2 * time.Second
	disconnectTimeout      = 5 * time.Second
)

// Options configures the connection.
type Options struct {
	URI      string
	Database string

	// MaxAttempts and RetryDelay bound the initial connect loop.
	// Zero values use the defaults (10 attempts, 2s apart).
	MaxAttempts int
	RetryDelay  time.Duration
}

// Store is a store.Store backed by two MongoDB collections.
type Store struct {
	client  *mongo.Client
	books   *mongo.Collection
	authors *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Open connects to MongoDB, retrying until the server answers a ping,
// and makes sure the collection indexes exist.
func Open(ctx context.Context, opts Options) (*Store, error) {
	client, err := ConnectWithRetry(ctx, opts)
	if err != nil {
		return nil, err
	}

	s := New(client.Database(opts.Database))
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	return s, nil
}

// New wraps an existing database handle.
func New(db *mongo.Database) *Store {
	return &Store{
		client:  db.Client(),
		books:   db.Collection(BooksCollection),
		authors: db.Collection(AuthorsCollection),
	}
}

// ConnectWithRetry opens a client and waits for the server to respond.
func ConnectWithRetry(ctx context.Context, opts Options) (*mongo.Client, error) {
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = defaultDelayBetweenTry
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", opts.URI, err)
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		err = client.Ping(ctx, readpref.Primary())
		if err == nil {
			return client, nil
		}

		log.Printf("db not ready (attempt %d/%d): %v", attempt, attempts, err)
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("could not connect to db after %d attempts: %w", attempts, err)
}

// EnsureIndexes creates the unique index on book names.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.books.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
	if err != nil {
		return fmt.Errorf("creating books.name index: %w", err)
	}

	_, err = s.books.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "authorId", Value: 1}},
		Options: options.Index().SetName("author_id"),
	})
	if err != nil {
		return fmt.Errorf("creating books.authorId index: %w", err)
	}

	return nil
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// findOptions converts list options into a driver query, sorted by _id
// so pages follow insertion order.
func findOptions(opts store.ListOptions) *options.FindOptions {
	fo := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if opts.Offset > 0 {
		fo.SetSkip(int64(opts.Offset))
	}
	if opts.Limit > 0 {
		fo.SetLimit(int64(opts.Limit))
	}
	return fo
}

// translate maps driver errors to library errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return library.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return library.ErrDuplicateName
	}
	return err
}
