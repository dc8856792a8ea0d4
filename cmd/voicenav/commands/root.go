package commands

import (
	"fmt"

	"PortfolioVoice/pkg/catalog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	catalogPath  string
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voicenav",
		Short: "Inspect and exercise portfolio voice navigation",
		Long: `voicenav runs the voice navigation pipeline from the terminal.

It scores utterances with the local keyword scorer, resolves them into the
navigation effects a page would execute, and lists the destination catalog.

Examples:
  voicenav score "show me oracle ai final designs"
  voicenav resolve --page /about.html "take me home"
  voicenav catalog --kind project_page --format json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if outputFormat != "text" && outputFormat != "json" {
				return fmt.Errorf("--format must be text or json, got %q", outputFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "Output format (text|json)")
	cmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog YAML file (default: embedded catalog)")

	cmd.AddCommand(NewScoreCmd())
	cmd.AddCommand(NewResolveCmd())
	cmd.AddCommand(NewCatalogCmd())

	return cmd
}

func Execute() error {
	return NewRootCmd().Execute()
}

func loadCatalog() (*catalog.Catalog, error) {
	path := catalogPath
	if path == "" {
		path = getenv("VOICE_CATALOG_PATH")
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, nil
}
