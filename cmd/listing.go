// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listingCmd = &cobra.Command{
	Use:   "listing [container...]",
	Short: "Print which object file versions each container holds",
	RunE:  runListing,
}

func init() {
	rootCmd.AddCommand(listingCmd)

	listingCmd.Flags().StringP("output", "o", "", "Write the listing to a file instead of stdout")
}

func runListing(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	db, err := openDB(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	listing := db.GenerateListing()
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), listing)
		return err
	}
	if err := os.WriteFile(output, []byte(listing), 0o644); err != nil {
		return fmt.Errorf("write listing: %w", err)
	}
	return nil
}
