// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/LeeDigitalWorks/objfiledb/pkg/linker/raw"
	"github.com/LeeDigitalWorks/objfiledb/pkg/logger"
	"github.com/LeeDigitalWorks/objfiledb/pkg/pipeline"
	"github.com/LeeDigitalWorks/objfiledb/pkg/types"
	"github.com/LeeDigitalWorks/objfiledb/pkg/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ListingFileName is the container listing written by decompile.
const ListingFileName = "dgo.txt"

var decompileCmd = &cobra.Command{
	Use:   "decompile [container...]",
	Short: "Load containers and run every analysis stage",
	Long: `Load containers into the object file database, then link every distinct
object file, name labels, find code and functions and write the configured
dumps and the container listing to the output directory.`,
	RunE: runDecompile,
}

func init() {
	rootCmd.AddCommand(decompileCmd)

	f := decompileCmd.Flags()
	f.String("output_dir", "decompiler_out", "Directory for dumps and the container listing")
	f.Bool("find_basic_blocks", true, "Partition functions into basic blocks and analyze prologues")
	f.Bool("write_hexdump", false, "Write a word listing for each object (<unique_name>.txt)")
	f.Bool("write_hexdump_on_v3_only", false, "Only write word listings for three-segment objects")
	f.Bool("write_disassembly", false, "Write disassembly for each object (<unique_name>.func)")
	f.Bool("disassemble_objects_without_functions", false, "Also disassemble objects with no functions")
	f.Bool("write_scripts", false, "Write all scripts to "+pipeline.ScriptsFileName)
	f.Int("workers", 1, "Objects processed in parallel within a stage")
	f.String("dump_compression", "", "Compress dumps with lz4, zstd or s2")

	viper.BindPFlags(f)
}

func loadDecompileConfig(cmd *cobra.Command, args []string) (types.Config, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return cfg, err
	}

	fl := NewFlagLoader(cmd)
	cfg.FindBasicBlocks = fl.Bool("find_basic_blocks")
	cfg.WriteHexdump = fl.Bool("write_hexdump")
	cfg.WriteHexdumpOnV3Only = fl.Bool("write_hexdump_on_v3_only")
	cfg.WriteDisassembly = fl.Bool("write_disassembly")
	cfg.DisassembleObjectsWithoutFunctions = fl.Bool("disassemble_objects_without_functions")
	cfg.WriteScripts = fl.Bool("write_scripts")
	cfg.Workers = fl.Int("workers")
	cfg.DumpCompression = fl.String("dump_compression")

	return cfg, cfg.Validate().Err()
}

func runDecompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadDecompileConfig(cmd, args)
	if err != nil {
		return err
	}
	outputDir := utils.ResolvePath(NewFlagLoader(cmd).String("output_dir"))

	ctx, cancel := commandContext(cmd)
	defer cancel()

	logger.Ctx(ctx).Info().
		Str("game", cfg.GameVersion.String()).
		Int("containers", len(cfg.DgoNames)).
		Int("workers", cfg.Workers).
		Bool("find_basic_blocks", cfg.FindBasicBlocks).
		Str("output_dir", outputDir).
		Msg("decompile configuration")

	db, err := openDB(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := utils.EnsureDir(outputDir); err != nil {
		return err
	}
	listing := filepath.Join(outputDir, ListingFileName)
	if err := os.WriteFile(listing, []byte(db.GenerateListing()), 0o644); err != nil {
		return fmt.Errorf("write listing: %w", err)
	}

	if cfg.FindBasicBlocks {
		logger.Ctx(ctx).Warn().Msg("raw linker finds no functions, skipping basic block analysis")
		cfg.FindBasicBlocks = false
	}
	p, err := pipeline.New(db, cfg, pipeline.WithLinker(raw.Linker))
	if err != nil {
		return err
	}
	if err := p.Run(ctx, outputDir); err != nil {
		return err
	}

	logger.Ctx(ctx).Info().Str("output_dir", outputDir).Msg("decompile finished")
	return nil
}
