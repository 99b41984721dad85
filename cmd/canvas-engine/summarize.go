// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/canvas-engine/internal/store"
	"github.com/pdiddy/canvas-engine/internal/synthesis"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Produce a cited summary of canvas blocks",
	Long: `Summarize runs the rule-based synthesis over a selection of blocks
(--ids) or the whole canvas. The output is a structured summary whose
every line carries a citation number resolving to the source block IDs,
plus the citation table itself.

Use --out to save the summary artifact as YAML for later questioning
with the ask command.`,
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	blocks, scope, err := resolveScope(cmd, s)
	if err != nil {
		return err
	}

	summary := synthesis.Summarize(blocks, scope)

	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		data, err := yaml.Marshal(summary)
		if err != nil {
			return fmt.Errorf("marshaling summary: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved summary to %s\n", outPath)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	printSummary(summary)
	return nil
}

// resolveScope loads either the blocks named by --ids (selection scope)
// or every block in the store (canvas scope).
func resolveScope(cmd *cobra.Command, s *store.Store) ([]types.Block, types.Scope, error) {
	idsFlag, _ := cmd.Flags().GetString("ids")

	opts := store.ListOptions{MaxResults: 10000}
	kind := types.ScopeCanvas
	if idsFlag != "" {
		opts.IDs = splitIDs(idsFlag)
		kind = types.ScopeSelection
	}

	blocks, err := s.List(context.Background(), opts)
	if err != nil {
		return nil, types.Scope{}, err
	}

	scope := types.Scope{Kind: kind, BlockIDs: types.BlockIDs(blocks)}
	return blocks, scope, nil
}

func splitIDs(flag string) []string {
	var ids []string
	for _, id := range strings.Split(flag, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func printSummary(summary *types.Summary) {
	fmt.Println(summary.Title)
	fmt.Println()
	fmt.Println(summary.Text)
	printCitations(summary.Citations)
}

func printCitations(citations []types.Citation) {
	if len(citations) == 0 {
		return
	}
	fmt.Println("Citations:")
	for _, c := range citations {
		fmt.Printf("  [%d] %s\n", c.N, strings.Join(c.BlockIDs, ", "))
	}
}

func init() {
	summarizeCmd.Flags().String("ids", "", "comma-separated block IDs to summarize (default: whole canvas)")
	summarizeCmd.Flags().String("out", "", "write the summary artifact to a YAML file")
	summarizeCmd.Flags().Bool("json", false, "output the summary artifact as JSON")

	rootCmd.AddCommand(summarizeCmd)
}
