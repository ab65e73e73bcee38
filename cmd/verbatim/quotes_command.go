package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"verbatim/internal/corpus"
	"verbatim/internal/taxonomy"
)

const quoteTextPreviewLimit = 60

func newQuotesCommand(cctx *commandContext) *cobra.Command {
	var sessionFilter string
	var speakerFilter string
	var sentimentFilter string
	var untaggedOnly bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "List quotes from the current corpus snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
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

			var wantSentiment taxonomy.Sentiment
			if token := strings.TrimSpace(sentimentFilter); token != "" {
				classified, err := taxonomy.NewRegistry().Classify(token)
				if err != nil {
					return err
				}
				wantSentiment = classified
			}

			var selected []corpus.Quote
			for _, quote := range snapshot.Quotes {
				if sessionFilter != "" && quote.SessionID != sessionFilter {
					continue
				}
				if speakerFilter != "" && quote.SpeakerID != speakerFilter {
					continue
				}
				if untaggedOnly && quote.Tagged() {
					continue
				}
				if wantSentiment != taxonomy.None && quote.Sentiment != wantSentiment {
					continue
				}
				selected = append(selected, quote)
			}

			if jsonOutput {
				return writeJSON(cmd, selected)
			}
			if len(selected) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No quotes match.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderQuotesTable(selected))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionFilter, "session", "", "Only quotes from this session")
	cmd.Flags().StringVar(&speakerFilter, "speaker", "", "Only quotes from this speaker")
	cmd.Flags().StringVar(&sentimentFilter, "sentiment", "", "Only quotes tagged with this sentiment")
	cmd.Flags().BoolVar(&untaggedOnly, "untagged", false, "Only quotes with no sentiment tag")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit matching quotes as JSON")
	return cmd
}

func renderQuotesTable(quotes []corpus.Quote) string {
	headers := []string{"ID", "Session", "Speaker", "Span", "Sentiment", "Int", "Text"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}

	rows := make([][]string, 0, len(quotes))
	for _, q := range quotes {
		sentiment := string(q.Sentiment)
		intensity := strconv.Itoa(q.Intensity)
		if !q.Tagged() {
			sentiment = "-"
			intensity = "-"
		}
		rows = append(rows, []string{
			q.ID,
			q.SessionID,
			q.SpeakerID,
			fmt.Sprintf("%s-%s", q.Start, q.End),
			sentiment,
			intensity,
			previewText(q.Text),
		})
	}
	return renderTable(headers, rows, nil, aligns)
}

func previewText(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= quoteTextPreviewLimit {
		return string(runes)
	}
	return string(runes[:quoteTextPreviewLimit-3]) + "..."
}
