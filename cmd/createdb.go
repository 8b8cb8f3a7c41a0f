package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var createDBCmd = &cobra.Command{
	Use:   "createdb",
	Short: "Create the target database if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := Session.CreateDatabase(cmd.Context()); err != nil {
			return err
		}
		log.Printf("Database %s ready (engine %s)\n", Session.Database(), Session.Engine())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(createDBCmd)
}
