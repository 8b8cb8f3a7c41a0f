package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncTables []string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Create or extend the tables of the configured models",
	RunE: func(cmd *cobra.Command, args []string) error {
		models, err := registerModels(cmd.Context(), syncTables)
		for _, m := range models {
			fmt.Printf("[✓] %-20s : %s\n", m.Table(), m.SyncAction())
		}
		return err
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringSliceVarP(&syncTables, "tables", "t", []string{}, "Specific models to sync (comma-separated)")
}
