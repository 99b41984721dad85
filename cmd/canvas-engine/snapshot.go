// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save or restore the canvas state snapshot",
	Long: `Snapshot manages the versioned canvas state snapshot. Save captures
the current block set; restore replaces the block set from the stored
snapshot. A snapshot with an incompatible schema version is treated as
absent, never as an error.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Capture the current block set into the snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.SaveSnapshot(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("snapshot saved (%d blocks)\n", n)
		return nil
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the block set from the stored snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, ok, err := s.RestoreSnapshot(context.Background())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("no usable snapshot found")
			return nil
		}
		fmt.Printf("snapshot restored (%d blocks)\n", n)
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)

	rootCmd.AddCommand(snapshotCmd)
}
