package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"verbatim/internal/corpus"
	"verbatim/internal/extraction"
	"verbatim/internal/index"
	"verbatim/internal/logging"
	"verbatim/internal/services"
	"verbatim/internal/services/llm"
	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

func newExtractCommand(cctx *commandContext) *cobra.Command {
	var workers int
	var passes int
	var batchSize int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "extract [transcript path]",
		Short: "Run the extraction pipeline and replace the corpus snapshot",
		Long: `Extract runs the full pipeline over a transcript file or directory:
assemble prompt batches, submit them to the configured model, parse and
validate the completions, merge duplicates across passes, cross-reference the
result, and atomically replace the stored corpus snapshot.

Without an argument the configured transcript directory is processed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cctx.ensureLogger()
			if err != nil {
				return err
			}

			source := cfg.Paths.TranscriptDir
			if len(args) == 1 {
				source = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			runID := uuid.NewString()
			ctx = services.WithRunID(ctx, runID)
			runLogger := logging.WithContext(ctx, logger)

			set, err := transcript.LoadPath(source)
			if err != nil {
				return err
			}
			runLogger.Info("transcripts loaded",
				logging.String("source", source),
				logging.Int("sessions", set.Len()),
			)

			registry := taxonomy.NewRegistry()
			client := llm.NewClient(llm.Config{
				APIKey:         cfg.LLM.APIKey,
				BaseURL:        cfg.LLM.BaseURL,
				Model:          cfg.LLM.Model,
				TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			})
			runner := extraction.NewRunner(extraction.RunnerConfig{
				Workers:   resolveOverride(workers, cfg.Extraction.Workers),
				Passes:    resolveOverride(passes, cfg.Extraction.Passes),
				BatchSize: resolveOverride(batchSize, cfg.Extraction.BatchSize),
			}, registry, client, logger)

			started := time.Now()
			result, err := runner.Run(ctx, set)
			if err != nil {
				return err
			}

			// Cross-referencing doubles as the final integrity gate: a quote
			// referencing an unknown session or speaker aborts before anything
			// is persisted.
			if _, err := index.Build(registry, set, result.Quotes); err != nil {
				return err
			}

			store, err := corpus.Open(cfg.CorpusPath())
			if err != nil {
				return err
			}
			defer store.Close()

			snapshot := corpus.Snapshot{
				RunID:       runID,
				Source:      source,
				CreatedAt:   time.Now().UTC(),
				Quotes:      result.Quotes,
				Diagnostics: result.Diagnostics,
			}
			if err := store.SaveSnapshot(ctx, snapshot); err != nil {
				return err
			}
			runLogger.Info("corpus snapshot saved",
				logging.String("path", store.Path()),
				logging.Int("quotes", len(result.Quotes)),
				logging.Duration("elapsed", time.Since(started)),
			)

			if jsonOutput {
				return writeJSON(cmd, snapshot)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Run %s: %d quotes from %d sessions\n\n", runID, len(result.Quotes), set.Len())
			fmt.Fprintln(cmd.OutOrStdout(), renderDiagnosticsTable(result.Diagnostics))
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent extraction requests (default from config)")
	cmd.Flags().IntVar(&passes, "passes", 0, "Extraction passes per batch (default from config)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Utterances per request (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the snapshot as JSON instead of a summary table")
	return cmd
}

func resolveOverride(flag, configured int) int {
	if flag > 0 {
		return flag
	}
	return configured
}

func renderDiagnosticsTable(diagnostics corpus.Diagnostics) string {
	headers := []string{"Session", "Batches", "Failed", "Parsed", "Skipped", "Rejected", "Merged", "Accepted"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(diagnostics.Sessions))
	for _, s := range diagnostics.Sessions {
		rows = append(rows, diagnosticsRow(s))
	}
	var footer []string
	if len(diagnostics.Sessions) > 1 {
		footer = diagnosticsRow(diagnostics.Totals())
	}
	return renderTable(headers, rows, footer, aligns)
}

func diagnosticsRow(s corpus.SessionDiagnostics) []string {
	return []string{
		s.SessionID,
		strconv.Itoa(s.Batches),
		strconv.Itoa(s.FailedBatches),
		strconv.Itoa(s.Parsed),
		strconv.Itoa(s.Skipped),
		strconv.Itoa(s.Rejected),
		strconv.Itoa(s.Merged),
		strconv.Itoa(s.Accepted),
	}
}
