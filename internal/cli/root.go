// Package cli holds the askctl commands.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	appsvc "nytinsight/internal/app"
	"nytinsight/internal/bootstrap"
	"nytinsight/internal/model"
)

// version is set at build time with -ldflags.
var version = "dev"

type AskService interface {
	Ask(ctx context.Context, input appsvc.AskInput) (*model.AskResult, error)
	Sources(ctx context.Context) ([]appsvc.SourceSummary, error)
}

var askService AskService

var rootCmd = &cobra.Command{
	Use:          "askctl",
	Short:        "Ask questions against the local news corpus",
	SilenceUsage: true,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ensureService builds the ask pipeline from configuration unless one was
// already installed.
func ensureService(cmd *cobra.Command, _ []string) error {
	if askService != nil {
		return nil
	}
	app, err := bootstrap.New(cmd.Context())
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	askService = app.AskService
	return nil
}

func service() (AskService, error) {
	if askService == nil {
		return nil, errors.New("ask service not configured")
	}
	return askService, nil
}
