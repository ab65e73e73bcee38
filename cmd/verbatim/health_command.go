package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"verbatim/internal/services/llm"
)

func newHealthCommand(cctx *commandContext) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Verify the configured model endpoint and API key are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			client := llm.NewClient(llm.Config{
				APIKey:         cfg.LLM.APIKey,
				BaseURL:        cfg.LLM.BaseURL,
				Model:          cfg.LLM.Model,
				TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := client.HealthCheck(ctx); err != nil {
				return fmt.Errorf("llm endpoint unhealthy: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Model %s reachable, API key accepted\n", cfg.LLM.Model)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Health check timeout")
	return cmd
}
