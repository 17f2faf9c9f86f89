package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmans/bookgraph/internal/config"
	"github.com/hmans/bookgraph/internal/search"
	"github.com/hmans/bookgraph/internal/store"
	"github.com/hmans/bookgraph/internal/store/memstore"
	"github.com/hmans/bookgraph/internal/store/mongostore"
)

var (
	dataStore   store.Store
	searchIndex *search.Index
	cfg         *config.Config

	configPath   string
	storeBackend string
)

var rootCmd = &cobra.Command{
	Use:   "bookgraph",
	Short: "A GraphQL API for books and authors",
	Long: `Bookgraph serves a GraphQL API for books and the authors who wrote them,
backed by MongoDB or by an in-memory store with an optional YAML snapshot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsStore(cmd) {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if storeBackend != "" {
			cfg.Store.Backend = storeBackend
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		ctx := context.Background()
		dataStore, err = openStore(ctx, cfg)
		if err != nil {
			return err
		}
		log.Printf("database is connected")

		searchIndex, err = buildIndex(ctx, dataStore)
		if err != nil {
			return fmt.Errorf("building search index: %w", err)
		}

		if ms, ok := dataStore.(*memstore.Store); ok && cfg.Store.Watch && ms.Path() != "" {
			if err := ms.Watch(reindex); err != nil {
				return fmt.Errorf("watching snapshot: %w", err)
			}
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

// needsStore reports whether cmd talks to the data store.
func needsStore(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "completion", "__complete":
		return false
	case "graphql":
		return !querySchemaOnly
	}
	return true
}

// openStore opens the backend selected by c.
func openStore(ctx context.Context, c *config.Config) (store.Store, error) {
	switch c.Store.Backend {
	case config.BackendMemory:
		s := memstore.New(c.Store.Snapshot)
		if err := s.Load(); err != nil {
			return nil, fmt.Errorf("loading snapshot: %w", err)
		}
		return s, nil
	case config.BackendMongo:
		s, err := mongostore.Open(ctx, mongostore.Options{
			URI:      c.Store.MongoURI,
			Database: c.DatabaseName(),
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
}

// buildIndex indexes every stored book.
func buildIndex(ctx context.Context, s store.Store) (*search.Index, error) {
	idx, err := search.NewIndex()
	if err != nil {
		return nil, err
	}

	books, err := s.Books(ctx, store.ListOptions{})
	if err != nil {
		idx.Close()
		return nil, err
	}
	if err := idx.IndexBooks(books); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

// reindex rebuilds the search index after the snapshot changed on disk.
func reindex() {
	books, err := dataStore.Books(context.Background(), store.ListOptions{})
	if err != nil {
		log.Printf("reindex: %v", err)
		return
	}
	if err := searchIndex.Rebuild(books); err != nil {
		log.Printf("reindex: %v", err)
	}
}

// closeStore closes the store before the index so a pending watcher reload
// never sees a closed index.
func closeStore() error {
	var err error
	if dataStore != nil {
		err = dataStore.Close()
		dataStore = nil
	}
	if searchIndex != nil {
		searchIndex.Close()
		searchIndex = nil
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ./"+config.ConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Store backend: mongo or memory (overrides config)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
