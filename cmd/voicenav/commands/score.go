package commands

import (
	"fmt"
	"text/tabwriter"

	"PortfolioVoice/internal/entity"
	"PortfolioVoice/pkg/nlp"

	"github.com/spf13/cobra"
)

var scoreAll bool

type scoreOutput struct {
	Normalized string           `json:"normalized"`
	Intent     entity.Intent    `json:"intent"`
	Breakdown  []nlp.EntryScore `json:"breakdown"`
}

func NewScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <utterance>",
		Short: "Score an utterance with the local keyword scorer",
		Long: `Score an utterance against every catalog entry and show the winner.

Only entries with a positive score are listed unless --all is given.

Examples:
  voicenav score "what sports does naima play"
  voicenav score --all --format json "mobile"`,
		Args: cobra.ExactArgs(1),
		RunE: runScore,
	}

	cmd.Flags().BoolVar(&scoreAll, "all", false, "List every entry, including zero scores")

	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	scorer := nlp.NewScorer(cat)
	out := scoreOutput{
		Normalized: nlp.Normalize(args[0]),
		Intent:     scorer.Score(args[0]),
	}
	for _, row := range scorer.Breakdown(args[0]) {
		if scoreAll || row.Total > 0 {
			out.Breakdown = append(out.Breakdown, row)
		}
	}

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Normalized: %q\n", out.Normalized)
	fmt.Fprintf(w, "Intent:     %s\n\n", describeIntent(out.Intent))

	if len(out.Breakdown) == 0 {
		fmt.Fprintln(w, "No entry matched.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tBASE\tBOOST\tCOMBO\tTOTAL")
	for _, row := range out.Breakdown {
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\n", row.ID, row.Kind, row.Base, row.Boost, row.Combo, row.Total)
	}
	return tw.Flush()
}
