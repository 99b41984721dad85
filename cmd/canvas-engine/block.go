// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/canvas-engine/internal/extract"
	"github.com/pdiddy/canvas-engine/internal/store"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Manage canvas blocks (add, list, remove, export)",
	Long: `Block manages the canvas block store. Blocks are text notes, images
with captions, links, or dropped summaries; each carries a stable ID
that the summarizer uses as its unit of evidence.`,
}

// --- add subcommand ---

var blockAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add or update a block",
	Long: `Add creates or replaces a block. The variant is selected with --type;
content flags apply per variant: --text for text blocks, --src and
--caption for images, --label and --url for links.`,
	Args: cobra.ExactArgs(1),
	RunE: runBlockAdd,
}

func runBlockAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	blockType, _ := cmd.Flags().GetString("type")
	text, _ := cmd.Flags().GetString("text")
	src, _ := cmd.Flags().GetString("src")
	caption, _ := cmd.Flags().GetString("caption")
	label, _ := cmd.Flags().GetString("label")
	u, _ := cmd.Flags().GetString("url")
	x, _ := cmd.Flags().GetFloat64("x")
	y, _ := cmd.Flags().GetFloat64("y")
	width, _ := cmd.Flags().GetFloat64("width")
	height, _ := cmd.Flags().GetFloat64("height")

	b := types.Block{
		ID:      args[0],
		Type:    types.BlockType(blockType),
		X:       x,
		Y:       y,
		Width:   width,
		Height:  height,
		Text:    text,
		Src:     src,
		Caption: caption,
		Label:   label,
		URL:     u,
	}

	if err := s.Put(context.Background(), b); err != nil {
		return err
	}
	fmt.Printf("stored block %s (%s)\n", b.ID, b.Type)
	return nil
}

// --- list subcommand ---

var blockListCmd = &cobra.Command{
	Use:   "list",
	Short: "List blocks in the store",
	RunE:  runBlockList,
}

func runBlockList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	blockType, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	blocks, err := s.List(context.Background(), store.ListOptions{
		Type:       types.BlockType(blockType),
		MaxResults: limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(blocks)
	}

	if len(blocks) == 0 {
		fmt.Println("No blocks found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-8s  %s\n", "ID", "Type", "Content")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, b := range blocks {
		content := strings.ReplaceAll(extract.Content(b), "\n", " ")
		content = truncateCell(content, 54)
		id := truncateCell(b.ID, 16)
		fmt.Fprintf(os.Stdout, "%-16s  %-8s  %s\n", id, b.Type, content)
	}
	fmt.Fprintf(os.Stdout, "\n%d blocks\n", len(blocks))
	return nil
}

// --- remove subcommand ---

var blockRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a block from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("removed block %s\n", args[0])
		return nil
	},
}

// --- export subcommand ---

var blockExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export blocks to YAML or JSON",
	RunE:  runBlockExport,
}

func runBlockExport(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	format, _ := cmd.Flags().GetString("format")
	blockType, _ := cmd.Flags().GetString("type")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	opts := store.ListOptions{Type: types.BlockType(blockType)}

	switch format {
	case "yaml", "":
		if err := s.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.yaml\n", dataDir)
	case "json":
		if err := s.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.json\n", dataDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

// --- shared helpers ---

// truncateCell bounds a table cell to max runes, ellipsizing overflow.
// Truncation never splits a multibyte rune.
func truncateCell(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// openStore builds a store from the persistent data-dir flag.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = "canvas"
	}
	return store.NewStore(types.StoreConfig{DataDir: dataDir})
}

func init() {
	blockAddCmd.Flags().String("type", "text", "block variant: text, image, link, summary")
	blockAddCmd.Flags().String("text", "", "text content (text blocks)")
	blockAddCmd.Flags().String("src", "", "image source reference (image blocks)")
	blockAddCmd.Flags().String("caption", "", "image caption (image blocks)")
	blockAddCmd.Flags().String("label", "", "link label (link blocks)")
	blockAddCmd.Flags().String("url", "", "link URL (link blocks)")
	blockAddCmd.Flags().Float64("x", 0, "canvas x position")
	blockAddCmd.Flags().Float64("y", 0, "canvas y position")
	blockAddCmd.Flags().Float64("width", 240, "block width")
	blockAddCmd.Flags().Float64("height", 0, "block height (0 = auto)")

	blockListCmd.Flags().String("type", "", "filter by block variant")
	blockListCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	blockListCmd.Flags().Bool("json", false, "output blocks as JSON")

	blockExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	blockExportCmd.Flags().String("type", "", "filter by block variant")

	blockCmd.AddCommand(blockAddCmd)
	blockCmd.AddCommand(blockListCmd)
	blockCmd.AddCommand(blockRemoveCmd)
	blockCmd.AddCommand(blockExportCmd)

	rootCmd.AddCommand(blockCmd)
}
