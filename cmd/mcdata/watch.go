package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/mcdata"
	"github.com/aretw0/mcdata/internal/cli"
	"github.com/aretw0/mcdata/pkg/adapters/loam"
	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// watchRoots starts one watcher per loaded root. The returned group's Wait
// ends when ctx is cancelled or a watcher fails to start.
func watchRoots(ctx context.Context, ws *mcdata.Workspace, logger *slog.Logger, onReload func(datapack.Root, string)) *errgroup.Group {
	g, ctx := errgroup.WithContext(ctx)
	for _, root := range ws.Roots() {
		g.Go(func() error {
			src, err := loam.Open(root.Path)
			if err != nil {
				return err
			}
			if docs, err := src.ListTags(ctx); err == nil {
				logger.Debug("Tag documents found", "root", root.Path, "count", len(docs))
			}
			loop := &cli.WatchLoop{
				Workspace: ws,
				Logger:    logger,
				OnReload:  onReload,
			}
			if err := loop.Run(ctx, root, src); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	return g
}

var watchCmd = &cobra.Command{
	Use:   "watch [root...]",
	Short: "Re-check roots whenever their files change",
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		ws, _, logger, err := openWorkspace(sigCtx, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		runner := mcdata.NewRunner()
		runner.Output = out
		runner.Headless = true
		if _, err := runner.Run(ws); err != nil {
			return err
		}

		var mu sync.Mutex
		g := watchRoots(sigCtx, ws, logger, func(root datapack.Root, changed string) {
			mu.Lock()
			defer mu.Unlock()
			cli.PrintSystemMessage(out, "Change detected in '%s'.", changed)
			if _, err := runner.Run(ws); err != nil {
				logger.Error("Failed to write report", "err", err)
			}
		})
		cli.PrintSystemMessage(out, "Waiting for changes...")
		err = g.Wait()
		if sig := sigCtx.Signal(); sig != nil {
			logger.Info("Stopping watcher (signal received)", "signal", sig.String())
		}
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
