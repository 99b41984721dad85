// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/canvas-engine/internal/qa"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from a previously produced summary",
	Long: `Ask answers a free-text question using only the lines and citation
table of a saved summary (see summarize --out). The answer cites block
IDs renumbered from 1 for this exchange, restricted to the active
scope: the summary's own scope by default, or a narrower selection
given with --ids. With --log each exchange is appended to a YAML
conversation log.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	summaryPath, _ := cmd.Flags().GetString("summary")
	if summaryPath == "" {
		return fmt.Errorf("--summary file required: produce one with summarize --out")
	}

	summary, err := loadSummary(summaryPath)
	if err != nil {
		return err
	}

	scopeIDs := summary.Scope.BlockIDs
	idsFlag, _ := cmd.Flags().GetString("ids")
	if idsFlag != "" {
		scopeIDs = splitIDs(idsFlag)
	}

	question := strings.Join(args, " ")
	resp := qa.Answer(question, scopeIDs, summary)

	logPath, _ := cmd.Flags().GetString("log")
	if logPath != "" {
		if err := qa.AppendExchange(logPath, qa.Exchange(question, resp)); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Logged exchange to %s\n", logPath)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if resp.Answer == "" {
		fmt.Println("No answer produced.")
		return nil
	}
	fmt.Println(resp.Answer)
	fmt.Println()
	printCitations(resp.Citations)
	return nil
}

// loadSummary reads a summary artifact written by summarize --out.
func loadSummary(path string) (*types.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	var summary types.Summary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}
	return &summary, nil
}

func init() {
	askCmd.Flags().String("summary", "", "path to a saved summary YAML file")
	askCmd.Flags().String("ids", "", "comma-separated block IDs restricting the answer scope")
	askCmd.Flags().String("log", "", "append the exchange to a YAML log file")
	askCmd.Flags().Bool("json", false, "output the answer as JSON")

	rootCmd.AddCommand(askCmd)
}
