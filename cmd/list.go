package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Parse and display the mutation catalog",
		Long: `Parse the mutation catalog and display every mutation with its id,
description and source span. Useful to validate the catalog without
running anything.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mutations, err := catalogAdapter.Load(catalogPath())
			if err != nil {
				return err
			}

			return ui.DisplayCatalog(cmd.Context(), mutations)
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
