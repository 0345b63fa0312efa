package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Long: `Run the HTTP gateway. The article collection is loaded at startup and,
when content.watch is enabled, refreshed on file changes. Expired codes and
sessions are purged on storage.purge_schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override server.addr")
	return cmd
}

func (c *cli) serve(ctx context.Context, addr string) error {
	container, err := c.container(ctx)
	if err != nil {
		return err
	}
	defer container.Close()

	cfg := container.Config
	if addr == "" {
		addr = cfg.Server.Addr
	}
	logger := container.Logger("blog.server")

	handler, err := container.API().Handler()
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server.listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if watcher := container.Watcher(); watcher != nil {
		group.Go(func() error {
			return watcher.Run(gctx)
		})
	}
	group.Go(func() error {
		return container.Scheduler().Run(gctx)
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("server.shutdown")
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
