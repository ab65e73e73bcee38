package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"verbatim/internal/corpus"
	"verbatim/internal/index"
	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

func newReportCommand(cctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "report [transcript path]",
		Short: "Summarize the current corpus: histograms, valence totals, investigation flags",
		Long: `Report cross-references the stored corpus snapshot against its source
transcripts and prints sentiment histograms per session and per speaker.
Surprise is tallied separately as an investigation flag; it never contributes
to the negative/positive totals.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			source := cfg.Paths.TranscriptDir
			if len(args) == 1 {
				source = args[0]
			}

			store, err := corpus.Open(cfg.CorpusPath())
			if err != nil {
				return err
			}
			defer store.Close()
			snapshot, err := store.Current(cmd.Context())
			if err != nil {
				return err
			}

			set, err := transcript.LoadPath(source)
			if err != nil {
				return err
			}
			registry := taxonomy.NewRegistry()
			idx, err := index.Build(registry, set, snapshot.Quotes)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, reportPayload{
					RunID:    snapshot.RunID,
					Global:   idx.Global,
					Sessions: idx.Sessions,
					Speakers: idx.Speakers,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Corpus run %s (%d quotes)\n\n", snapshot.RunID, len(snapshot.Quotes))
			fmt.Fprintln(out, "Overall")
			fmt.Fprintln(out, renderHistogramTable(registry, idx.Global))

			sessionIDs := make([]string, 0, len(idx.Sessions))
			for id := range idx.Sessions {
				sessionIDs = append(sessionIDs, id)
			}
			sort.Strings(sessionIDs)
			for _, id := range sessionIDs {
				fmt.Fprintf(out, "\nSession %s\n", id)
				fmt.Fprintln(out, renderHistogramTable(registry, idx.Sessions[id]))
				fmt.Fprintln(out, renderSpeakerTable(registry, idx.Speakers[id]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")
	return cmd
}

type reportPayload struct {
	RunID    string                                       `json:"run_id"`
	Global   *index.Histogram                             `json:"global"`
	Sessions map[string]*index.Histogram                  `json:"sessions"`
	Speakers map[string]map[string]*index.SpeakerAggregate `json:"speakers"`
}

func renderHistogramTable(registry *taxonomy.Registry, hist *index.Histogram) string {
	headers := []string{"Sentiment", "Valence", "Count"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight}

	var rows [][]string
	for _, label := range registry.Labels() {
		count := hist.Counts[label]
		if count == 0 {
			continue
		}
		valence := "investigate"
		if !registry.IsInvestigationFlag(label) {
			v, err := registry.Valence(label)
			if err == nil {
				valence = string(v)
			}
		}
		rows = append(rows, []string{string(label), valence, strconv.Itoa(count)})
	}
	rows = append(rows,
		[]string{"(untagged)", "", strconv.Itoa(hist.Untagged)},
		[]string{"negative total", "", strconv.Itoa(hist.Negative)},
		[]string{"positive total", "", strconv.Itoa(hist.Positive)},
		[]string{"investigation flags", "", strconv.Itoa(hist.InvestigationFlags)},
	)
	footer := []string{"total quotes", "", strconv.Itoa(hist.Total)}
	return renderTable(headers, rows, footer, aligns)
}

func renderSpeakerTable(registry *taxonomy.Registry, speakers map[string]*index.SpeakerAggregate) string {
	headers := []string{"Speaker", "Role", "Quotes", "Tagged"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}

	ids := make([]string, 0, len(speakers))
	for id := range speakers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		agg := speakers[id]
		var tagged string
		for _, label := range registry.Labels() {
			if count := agg.Sentiments[label]; count > 0 {
				if tagged != "" {
					tagged += ", "
				}
				tagged += fmt.Sprintf("%s x%d", label, count)
			}
		}
		rows = append(rows, []string{
			agg.DisplayName,
			string(agg.Role),
			strconv.Itoa(agg.QuoteCount),
			tagged,
		})
	}
	return renderTable(headers, rows, nil, aligns)
}
