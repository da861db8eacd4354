package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dodai/navigator/internal/api"
	"github.com/dodai/navigator/internal/services"
)

func (c *cli) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("ping store %s: %w", c.cfg.Store.Path, err)
	}

	idx, err := c.openIndex()
	if err != nil {
		return err
	}
	apiCfg := api.Config{AllowedOrigins: c.cfg.Server.AllowedOrigins, Logger: c.log}
	if idx != nil {
		defer idx.Close()
		apiCfg.Search = idx
	}

	analyzer, err := c.analyzer(ctx)
	if err != nil {
		return err
	}
	apiCfg.Surveys = c.surveyService(store, idx)
	apiCfg.Analyzer = analyzer
	apiCfg.Shares = services.NewShareService(store, c.cfg.Share.Secret, c.cfg.Share.TTL)
	if !apiCfg.Shares.Enabled() {
		c.log.Info("share.secret not set; share links disabled")
	}

	srv := &http.Server{
		Addr:              c.cfg.Server.Addr,
		Handler:           api.NewRouter(apiCfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.log.Info("listening", zap.String("addr", srv.Addr), zap.String("db", c.cfg.Store.Path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.Server.ShutdownGrace)
		defer cancel()
		c.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
