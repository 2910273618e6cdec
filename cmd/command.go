// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeeDigitalWorks/objfiledb/pkg/debug"
	"github.com/LeeDigitalWorks/objfiledb/pkg/logger"
	"github.com/LeeDigitalWorks/objfiledb/pkg/objdb"
	"github.com/LeeDigitalWorks/objfiledb/pkg/types"
	"github.com/LeeDigitalWorks/objfiledb/pkg/utils"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configFileName is looked up as objfiledb.{yaml,json,toml} in the config
// directories.
const configFileName = "objfiledb"

var rootCmd = &cobra.Command{
	Use:   "objfiledb",
	Short: "objfiledb - object file database for DGO containers",
	Long: `objfiledb unpacks DGO containers, deduplicates the object files inside
them and runs analysis passes over every distinct object file once.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initialize,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&utils.ConfigurationFileDirectory, "config_dir", ".", "Directory for configuration files")
	f.Bool("console", false, "Human readable log output")

	// Ingestion, shared by every command that reads containers
	f.StringSlice("dgo_names", nil, "Container files to load, in order (positional arguments are appended)")
	f.Int("game_version", int(types.GameJak1), "Game version profile (1 or 2)")
	f.String("blob_index", string(types.BlobIndexMemory), "Where object bytes are kept: memory or leveldb")
	f.String("blob_index_path", "", "LevelDB directory when blob_index is leveldb (scratch directory if empty)")
	f.Int("debug_port", 0, "Debug/metrics HTTP port (0 disables)")

	viper.BindPFlags(f)
}

func initialize(cmd *cobra.Command, args []string) error {
	if console, _ := cmd.Flags().GetBool("console"); console {
		logger.Console()
	}
	_, err := utils.LoadConfiguration(configFileName, false)
	return err
}

// loadConfig merges defaults, the config file, env and the shared flags.
// Positional arguments are appended to dgo_names.
func loadConfig(cmd *cobra.Command, args []string) (types.Config, error) {
	fl := NewFlagLoader(cmd)
	cfg := types.DefaultConfig()

	cfg.GameVersion = types.GameVersion(fl.Int("game_version"))
	cfg.DgoNames = append(fl.StringSlice("dgo_names"), args...)
	cfg.BlobIndex = types.BlobIndexKind(fl.String("blob_index"))
	cfg.BlobIndexPath = utils.ResolvePath(fl.String("blob_index_path"))

	return cfg, cfg.Validate().Err()
}

// openDB loads every configured container. It also starts the debug server
// when debug_port is set; the server stops when ctx is done.
func openDB(ctx context.Context, cmd *cobra.Command, cfg types.Config) (*objdb.DB, error) {
	if len(cfg.DgoNames) == 0 {
		return nil, errNoContainers
	}

	if port := NewFlagLoader(cmd).Int("debug_port"); port != 0 {
		go func() {
			if err := debug.Serve(ctx, port); err != nil {
				logger.Warn().Err(err).Msg("debug server stopped")
			}
		}()
	}

	paths := make([]string, len(cfg.DgoNames))
	for i, name := range cfg.DgoNames {
		paths[i] = utils.ResolvePath(name)
	}
	return objdb.Open(ctx, objdb.Options{
		BlobIndex:     cfg.BlobIndex,
		BlobIndexPath: cfg.BlobIndexPath,
	}, paths)
}

// commandContext is canceled on SIGINT or SIGTERM. Its logger tags every
// event with a run id so interleaved runs can be told apart.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	runLogger := logger.Ctx(cmd.Context()).With().
		Str("run_id", uuid.NewString()).
		Str("command", cmd.Name()).
		Logger()
	ctx := logger.WithLogger(cmd.Context(), &runLogger)
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
