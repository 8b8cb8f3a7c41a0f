package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"chorm/internal/query"
)

var (
	deleteTable string
	deleteWhere string
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the rows of a model matching --where",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := modelFor(cmd.Context(), deleteTable)
		if err != nil {
			return err
		}
		if _, err := m.Delete(cmd.Context(), query.Request{Where: deleteWhere}); err != nil {
			return err
		}
		// Mutations run in the background on the server.
		log.Printf("Delete mutation submitted for %s.%s\n", m.Database(), m.Table())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().StringVar(&deleteTable, "table", "", "model table name")
	deleteCmd.Flags().StringVar(&deleteWhere, "where", "", "row predicate (required)")
}
