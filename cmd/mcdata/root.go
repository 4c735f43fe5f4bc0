package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/mcdata"
	"github.com/aretw0/mcdata/internal/cli"
	"github.com/aretw0/mcdata/internal/config"
	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errProblems makes the process exit with status 1 without printing anything more.
var errProblems = errors.New("problems found")

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "mcdata",
	Short: "mcdata resolves and checks Minecraft datapack tags",
	Long: `mcdata loads worlds, datapacks and function folders on top of the vanilla
data and resolves their tags, reporting unknown entries, loops and broken files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Init(v, cfgFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errProblems) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default .mcdata.yaml in . or $HOME)")
	flags.String("vanilla", "", "Directory with generated vanilla reports/ and data/")
	flags.String("mc-version", "", "Minecraft version of the vanilla data")
	flags.StringSlice("root", nil, "World, datapack or functions directory to load (repeatable)")
	flags.StringP("format", "f", "text", "Output format: text, json or yaml")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")

	_ = v.BindPFlag("vanilla_dir", flags.Lookup("vanilla"))
	_ = v.BindPFlag("version", flags.Lookup("mc-version"))
	_ = v.BindPFlag("roots", flags.Lookup("root"))
	_ = v.BindPFlag("format", flags.Lookup("format"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log_format", flags.Lookup("log-format"))
}

// loadConfig reads the configuration and appends extra roots from arguments.
func loadConfig(extraRoots []string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, err
	}
	cfg.Roots = append(cfg.Roots, extraRoots...)
	logger, err := cli.CreateLogger(os.Stderr, cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func openWorkspace(ctx context.Context, extraRoots []string, opts ...mcdata.Option) (*mcdata.Workspace, config.Config, *slog.Logger, error) {
	cfg, logger, err := loadConfig(extraRoots)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	ws, err := cli.OpenWorkspace(ctx, cfg, logger, opts...)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	return ws, cfg, logger, nil
}

// scopeOf maps --in to a root ID. An empty path is the global layer.
func scopeOf(ws *mcdata.Workspace, path string) (datapack.RootID, string, error) {
	if path == "" {
		return 0, "global", nil
	}
	root, ok := ws.RootByPath(path)
	if !ok {
		return 0, "", fmt.Errorf("%w: %s", mcdata.ErrUnknownRoot, path)
	}
	return root.ID, fmt.Sprintf("scope:%d", root.ID), nil
}
