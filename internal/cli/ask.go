package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	appsvc "nytinsight/internal/app"
	"nytinsight/internal/model"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the corpus",
	Long: `Ranks corpus passages against the question and prints the answer
with its confidence grade and citations.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: ensureService,
	RunE:    runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, err := service()
	if err != nil {
		return err
	}

	result, err := svc.Ask(cmd.Context(), appsvc.AskInput{Question: args[0]})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printResult(cmd, result)
	return nil
}

func printResult(cmd *cobra.Command, result *model.AskResult) {
	cmd.Println(result.Answer)
	cmd.Println()
	cmd.Printf("Confidence: %s (%s)\n", result.Confidence, result.ConfidenceReason)

	if len(result.Citations) == 0 {
		cmd.Println("No citations.")
		return
	}
	cmd.Println("Citations:")
	for i, c := range result.Citations {
		cmd.Printf("  [%d] %s, paragraph %d\n", i+1, c.Title, c.Paragraph)
		if c.URL != "" {
			cmd.Printf("      %s\n", c.URL)
		}
		cmd.Printf("      %s\n", c.Snippet)
	}
}
