package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-training/token-exchange/pkg/callback"
	"github.com/go-training/token-exchange/pkg/store"

	"github.com/appleboy/graceful"
	"github.com/spf13/cobra"
)

func newCallbackCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "callback",
		Short: "Serve /authorize and /callback and exchange the returned code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			states, err := store.NewStore(a.cfg.StoreConfig())
			if err != nil {
				return err
			}

			srv := callback.New(a.exchanger(), states, cmd.OutOrStdout(),
				callback.WithStateTTL(a.cfg.Callback.StateTTL),
			)
			httpSrv := &http.Server{
				Addr:         a.cfg.Callback.Addr,
				Handler:      srv.Handler(),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			slog.Info("Callback server listening",
				"addr", a.cfg.Callback.Addr,
				"store", a.cfg.Store.Type,
			)
			return serveGracefully(httpSrv, states.Close)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8085", "address to listen on")
	flags.Duration("state-ttl", callback.DefaultStateTTL, "how long a pending authorization stays valid")
	flags.String("store", string(store.StoreTypeMemory), "state store type: memory or redis")
	flags.String("redis-addr", "localhost:6379", "redis address")
	flags.String("redis-password", "", "redis password")
	flags.Int("redis-db", 0, "redis database")

	a.bind(flags, "callback.addr", "addr")
	a.bind(flags, "callback.state_ttl", "state-ttl")
	a.bind(flags, "store.type", "store")
	a.bind(flags, "store.redis.addr", "redis-addr")
	a.bind(flags, "store.redis.password", "redis-password")
	a.bind(flags, "store.redis.db", "redis-db")
	return cmd
}

// serveGracefully runs srv until SIGINT or SIGTERM, then drains it and runs cleanup.
func serveGracefully(srv *http.Server, cleanup ...func() error) error {
	m := graceful.NewManager()

	m.AddRunningJob(func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return nil
		}
	})

	m.AddShutdownJob(func() error {
		slog.Info("Shutdown signal received, shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Server forced to shutdown", "err", err)
			return err
		}
		slog.Info("Server shutdown gracefully")
		return nil
	})

	for _, fn := range cleanup {
		m.AddShutdownJob(fn)
	}

	<-m.Done()
	return nil
}
