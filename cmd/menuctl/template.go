package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mahmoud22020/Pvdmenus/internal/sheet"
)

func newTemplateCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the blank bulk upload workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "-" {
				return sheet.WriteTemplate(cmd.OutOrStdout())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := sheet.WriteTemplate(f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "bulk-template.xlsx", `output path, "-" for stdout`)
	return cmd
}
