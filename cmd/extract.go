// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LeeDigitalWorks/objfiledb/pkg/logger"
	"github.com/LeeDigitalWorks/objfiledb/pkg/utils"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const (
	// objectFileExt is appended to the unique name of extracted object files.
	objectFileExt = ".go"
	// checksumFileName lists extracted files in sha256sum format.
	checksumFileName = "SHA256SUMS"
)

var extractCmd = &cobra.Command{
	Use:   "extract [container...]",
	Short: "Write every distinct object file to a directory",
	Long: `Load containers and write the bytes of each distinct object file to
<unique_name>.go in the output directory, plus a SHA256SUMS file. Duplicates
are written once.`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "objs", "Output directory")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	output = utils.ResolvePath(output)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	db, err := openDB(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := utils.EnsureDir(output); err != nil {
		return err
	}

	var (
		total uint64
		sums  strings.Builder
	)
	objs := db.Objects()
	for _, obj := range objs {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := db.Bytes(obj)
		if err != nil {
			return err
		}
		name := obj.Record.UniqueName() + objectFileExt
		path := filepath.Join(output, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(&sums, "%s  %s\n", utils.Sha256Hex(data), name)
		total += uint64(len(data))
	}
	if err := os.WriteFile(filepath.Join(output, checksumFileName), []byte(sums.String()), 0o644); err != nil {
		return fmt.Errorf("write checksums: %w", err)
	}

	logger.Ctx(ctx).Info().
		Int("files", len(objs)).
		Str("bytes", humanize.IBytes(total)).
		Str("output", output).
		Msg("extracted object files")
	return nil
}
