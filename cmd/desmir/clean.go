package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"desmir/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the compile cache",
	Long:  "Remove every cached compile result from the on-disk cache.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	cache, err := driver.OpenDiskCache("desmir")
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("drop cache: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
	return nil
}
