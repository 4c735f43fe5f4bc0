package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/mcdata"
	"github.com/aretw0/mcdata/internal/cli"
	httpAdapter "github.com/aretw0/mcdata/pkg/adapters/http"
	"github.com/aretw0/mcdata/pkg/adapters/redis"
	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/observability"
	"github.com/spf13/cobra"
)

// reloadEvent is broadcast to /events subscribers after a root reloads.
type reloadEvent struct {
	Root        int    `json:"root"`
	Path        string `json:"path"`
	Changed     string `json:"changed"`
	Diagnostics int    `json:"diagnostics"`
}

var serveCmd = &cobra.Command{
	Use:   "serve [root...]",
	Short: "Start the read-only HTTP query server",
	Long: `Loads the configured roots and exposes tag queries, diagnostics and
Prometheus metrics over HTTP. With --watch, roots reload on change and
subscribers of /events are notified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		cfg, logger, err := loadConfig(args)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		var wsOpts []mcdata.Option
		var httpOpts []httpAdapter.Option
		if cfg.Metrics.Enabled {
			metrics := observability.NewMetrics()
			wsOpts = append(wsOpts, mcdata.WithGraphHooks(metrics.Hooks))
			httpOpts = append(httpOpts, httpAdapter.WithMetrics(metrics.Handler()))
		}
		if cfg.Redis.Addr != "" {
			store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
				redis.WithPrefix(cfg.Redis.Prefix),
				redis.WithLogger(logger),
			)
			defer store.Close()
			if err := store.Ping(sigCtx); err != nil {
				return fmt.Errorf("redis unavailable: %w", err)
			}
			if err := store.Reset(sigCtx); err != nil {
				return err
			}
			wsOpts = append(wsOpts, mcdata.WithReporter(store))
			httpOpts = append(httpOpts, httpAdapter.WithStore(store))
		}

		ws, err := cli.OpenWorkspace(sigCtx, cfg, logger, wsOpts...)
		if err != nil {
			return err
		}

		streams := httpAdapter.NewStreamManager()
		httpOpts = append(httpOpts, httpAdapter.WithStreams(streams), httpAdapter.WithLogger(logger))

		srv := &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: httpAdapter.NewHandler(ws, httpOpts...),
		}

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			g := watchRoots(sigCtx, ws, logger, func(root datapack.Root, changed string) {
				msg, err := json.Marshal(reloadEvent{
					Root:        int(root.ID),
					Path:        root.Path,
					Changed:     changed,
					Diagnostics: len(ws.Diagnostics()),
				})
				if err != nil {
					return
				}
				streams.Broadcast(string(msg))
			})
			go func() {
				if err := g.Wait(); err != nil {
					logger.Error("Watcher stopped", "err", err)
				}
			}()
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting mcdata server", "addr", srv.Addr, "roots", len(ws.Roots()))
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			logger.Info("Start shutdown", "signal", fmt.Sprint(sigCtx.Signal()))

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("mcdata server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from http.addr)")
	serveCmd.Flags().Bool("watch", false, "Reload roots when their files change")
}
