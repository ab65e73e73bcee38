package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"verbatim/internal/taxonomy"
)

func newTaxonomyCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "taxonomy",
		Short:       "Print the sentiment vocabulary",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := taxonomy.NewRegistry()

			if jsonOutput {
				type entry struct {
					Label       taxonomy.Sentiment `json:"label"`
					Valence     taxonomy.Valence   `json:"valence"`
					Investigate bool               `json:"investigate"`
					Summary     string             `json:"summary"`
				}
				entries := make([]entry, 0, len(registry.Labels()))
				for _, label := range registry.Labels() {
					def, _ := registry.Definition(label)
					entries = append(entries, entry{
						Label:       def.Label,
						Valence:     def.Valence,
						Investigate: def.Investigate,
						Summary:     def.Summary,
					})
				}
				return writeJSON(cmd, entries)
			}

			headers := []string{"Label", "Valence", "Investigate", "Meaning"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}
			rows := make([][]string, 0, len(registry.Labels()))
			for _, label := range registry.Labels() {
				def, _ := registry.Definition(label)
				rows = append(rows, []string{
					string(def.Label),
					string(def.Valence),
					yesNo(def.Investigate),
					def.Summary,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil, aligns))
			fmt.Fprintf(cmd.OutOrStdout(), "Intensity range: %d-%d. Untagged quotes carry no sentiment.\n", taxonomy.MinIntensity, taxonomy.MaxIntensity)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the vocabulary as JSON")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
