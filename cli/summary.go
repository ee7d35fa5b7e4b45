package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalog-browser/services"
)

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cache, cleanup, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ds, err := cache.Get(ctx)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			insights := services.NewInsightService(a.logger)
			insights.Print(a.out, insights.Generate(ds))
			return nil
		},
	}
}
