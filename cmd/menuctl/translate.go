package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mahmoud22020/Pvdmenus/internal/app"
	"github.com/mahmoud22020/Pvdmenus/internal/domain"
)

func newTranslateAllCmd(e *env) *cobra.Command {
	var venue string

	cmd := &cobra.Command{
		Use:   "translate-all",
		Short: "Machine-translate every missing name and description in PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			venues := domain.Venues()
			if venue != "" {
				v, err := domain.ParseVenue(venue)
				if err != nil {
					return withCode(exitUsage, err)
				}
				venues = []domain.Venue{v}
			}

			ctx := cmd.Context()
			svc, err := app.OpenTranslations(ctx, e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			var total domain.FillReport
			for _, v := range venues {
				report, err := svc.FillMissing(ctx, v)
				total.Add(report)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: translated %d, failed %d\n", v, report.Translated, report.Failed)
				if err != nil {
					return err
				}
			}
			if total.Failed > 0 {
				return withCode(exitFailure, fmt.Errorf("%d translations failed", total.Failed))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&venue, "venue", "", "only this venue (default all)")
	return cmd
}
