package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkfold/imposer/internal/server"
	"github.com/inkfold/imposer/pkg/cache"
	"github.com/inkfold/imposer/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command, which exposes the pipeline
// over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		mongoURI  string
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the imposition HTTP server",
		Long: `Serve accepts imposition jobs over HTTP and runs them in the
background. Jobs are tracked in memory by default; pass --mongo for a
persistent store shared across instances, and --redis for a shared
tile cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := newJobStore(ctx, mongoURI)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			tileCache, err := newServerCache(ctx, redisAddr)
			if err != nil {
				return err
			}
			defer tileCache.Close()

			srv := server.New(store, pipeline.NewRunner(tileCache), c.Logger)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: srv.Router(),
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("listening", "addr", addr)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			c.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the job store")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the tile cache")

	return cmd
}

func newJobStore(ctx context.Context, mongoURI string) (server.JobStore, error) {
	if mongoURI == "" {
		return server.NewMemoryStore(), nil
	}
	store, err := server.NewMongoStore(ctx, mongoURI)
	if err != nil {
		return nil, fmt.Errorf("connecting job store: %w", err)
	}
	return store, nil
}

func newServerCache(ctx context.Context, redisAddr string) (cache.Cache, error) {
	if redisAddr == "" {
		return newCache(false), nil
	}
	rc, err := cache.NewRedisCache(ctx, redisAddr)
	if err != nil {
		return nil, fmt.Errorf("connecting tile cache: %w", err)
	}
	return rc, nil
}
