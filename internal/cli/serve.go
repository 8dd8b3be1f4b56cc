package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notate/internal/server"
	"github.com/matzehuels/notate/pkg/cache"
	"github.com/matzehuels/notate/pkg/pipeline"
	"github.com/matzehuels/notate/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address
	storeKind string // document store backend: memory, file, mongo
	storeDir  string // base directory for the file store
	mongoURI  string // connection string for the mongo store
	redisAddr string // shared render cache; empty means local file cache
	noCache   bool   // disable the render cache entirely
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      server.DefaultAddr,
		storeKind: "memory",
		mongoURI:  store.DefaultMongoURI,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP rendering and document API",
		Long: `Serve the HTTP rendering and document API.

The server exposes POST /render for one-shot rendering and a /documents
CRUD API backed by the configured store. Stored documents can be rendered
directly via GET /documents/{id}/render.

Stores:
  memory   in-process, lost on restart (default)
  file     JSON files under --store-dir
  mongo    MongoDB at --mongo-uri

With --redis-addr the render cache is shared across instances; otherwise
each instance keeps a local file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.storeKind, "store", opts.storeKind, "document store: memory, file, mongo")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", "directory for the file store (default: ~/.config/notate/documents)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", opts.mongoURI, "MongoDB connection string for the mongo store")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis host:port for a shared render cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// runServe builds the store and runner from flags and blocks serving HTTP
// until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	st, err := newStore(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close(context.Background())

	runner, err := c.newServeRunner(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(server.Options{
		Addr:   opts.addr,
		Store:  st,
		Runner: runner,
		Logger: c.Logger,
	})

	printInfo("Serving on %s", StyleLink.Render(listenURL(opts.addr)))
	prog := newProgress(c.Logger)
	err = srv.ListenAndServe(ctx)
	prog.done("Server stopped")
	return err
}

// listenURL turns a listen address into something clickable: a bare port
// like ":8080" becomes "http://localhost:8080".
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// newStore builds the document store selected by --store.
func newStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	switch opts.storeKind {
	case "memory":
		return store.NewMemoryStore(), nil
	case "file":
		return store.NewFileStore(opts.storeDir)
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoOptions{URI: opts.mongoURI})
	default:
		return nil, fmt.Errorf("invalid store: %s (must be 'memory', 'file', or 'mongo')", opts.storeKind)
	}
}

// newServeRunner builds the pipeline runner for the server. A Redis address
// switches the render cache from the local file cache to the shared one.
func (c *CLI) newServeRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	if opts.redisAddr == "" {
		return c.newRunner(opts.noCache)
	}
	if opts.noCache {
		return c.newRunner(true)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: opts.redisAddr})
	if err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", opts.redisAddr, err)
	}
	return pipeline.NewRunner(rc, nil, c.Logger), nil
}
