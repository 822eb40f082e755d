package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:     "sources",
	Short:   "List the documents in the corpus",
	Args:    cobra.NoArgs,
	PreRunE: ensureService,
	RunE:    runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	svc, err := service()
	if err != nil {
		return err
	}

	sources, err := svc.Sources(cmd.Context())
	if err != nil {
		return fmt.Errorf("list sources failed: %w", err)
	}
	if len(sources) == 0 {
		cmd.Println("No documents found.")
		return nil
	}
	for _, s := range sources {
		cmd.Printf("%s\t%s\t%d passages\n", s.SourceID, s.Title, s.Passages)
		if s.URL != "" {
			cmd.Printf("\t%s\n", s.URL)
		}
	}
	return nil
}
