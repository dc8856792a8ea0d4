package commands

import (
	"fmt"
	"text/tabwriter"

	"PortfolioVoice/internal/entity"

	"github.com/spf13/cobra"
)

var catalogKind string

func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List navigation destinations",
		Long: `List the destinations voice commands can reach, in declaration order.

Examples:
  voicenav catalog
  voicenav catalog --kind filter_tag
  voicenav catalog --catalog ./catalog.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: runCatalog,
	}

	cmd.Flags().StringVar(&catalogKind, "kind", "", "Only list entries of this kind")

	return cmd
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	entries := cat.Entries()
	if catalogKind != "" {
		kind := entity.Kind(catalogKind)
		if !kind.Valid() {
			return fmt.Errorf("unknown kind %q", catalogKind)
		}
		entries = cat.ByKind(kind)
	}

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), entries)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tLOCATOR\tNAME")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Kind, e.Locator, e.DisplayName)
	}
	return tw.Flush()
}
