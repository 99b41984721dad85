// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/canvas-engine/internal/remote"
	"github.com/pdiddy/canvas-engine/internal/secrets"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

var remoteSummarizeCmd = &cobra.Command{
	Use:   "remote-summarize",
	Short: "Summarize blocks via the hosted summarization service",
	Long: `Remote-summarize delegates summarization to a hosted text-generation
service under the same contract as the rule-based summarizer. Input is
capped (12 blocks in selection mode, 25 in project mode, 10,000 content
characters) and blocks are sanitized to id, type, and flattened content
before leaving the process.

The API key is read from --api-key or the .secrets/summarizer-api-key file.`,
	RunE: runRemoteSummarize,
}

func runRemoteSummarize(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	blocks, scope, err := resolveScope(cmd, s)
	if err != nil {
		return err
	}

	mode := remote.ModeProject
	if scope.Kind == types.ScopeSelection {
		mode = remote.ModeSelection
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	apiKey, _ := cmd.Flags().GetString("api-key")
	focus, _ := cmd.Flags().GetString("focus")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if baseURL == "" {
		return fmt.Errorf("--base-url required")
	}

	client := &remote.Client{
		HTTP: &http.Client{Timeout: timeout},
		Config: types.RemoteConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: "canvas-engine/" + version,
			},
			BaseURL: baseURL,
			APIKey:  secrets.Resolve(loadedSecrets, "summarizer-api-key", apiKey),
		},
	}

	text, err := client.Summarize(context.Background(), mode, blocks, focus)
	if err != nil {
		return fmt.Errorf("failed to generate: %w", err)
	}

	fmt.Println(text)
	return nil
}

func init() {
	remoteSummarizeCmd.Flags().String("ids", "", "comma-separated block IDs to summarize (default: whole canvas)")
	remoteSummarizeCmd.Flags().String("base-url", "", "summarization service endpoint")
	remoteSummarizeCmd.Flags().String("api-key", "", "service API key (default: .secrets/summarizer-api-key)")
	remoteSummarizeCmd.Flags().String("focus", "", "optional free-text focus hint")
	remoteSummarizeCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")

	rootCmd.AddCommand(remoteSummarizeCmd)
}
