// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LeeDigitalWorks/objfiledb/pkg/dgo"
	"github.com/LeeDigitalWorks/objfiledb/pkg/logger"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack -o CONTAINER file...",
	Short: "Build a container from object files",
	Long: `Build a container holding the given files in order. Each entry is named
after its file with the extension removed. The container's header name is the
base name of the output path.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)

	f := packCmd.Flags()
	f.StringP("output", "o", "", "Container file to write")
	f.Bool("compress", false, "Write the chunked LZO compressed framing")
	packCmd.MarkFlagRequired("output")
}

// entryName strips the directory and extension from path.
func entryName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runPack(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	compress, _ := cmd.Flags().GetBool("compress")

	entries := make([]dgo.Entry, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, dgo.Entry{Name: entryName(path), Data: data})
	}

	body, err := dgo.Encode(filepath.Base(output), entries)
	if err != nil {
		return err
	}
	out := body
	if compress {
		if out, err = dgo.CompressStream(body); err != nil {
			return err
		}
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write container: %w", err)
	}

	logger.Ctx(cmd.Context()).Info().
		Str("container", output).
		Int("entries", len(entries)).
		Bool("compressed", compress).
		Str("size", humanize.IBytes(uint64(len(out)))).
		Msg("container written")
	return nil
}
