package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	insertTable string
	insertFile  string
)

var insertCmd = &cobra.Command{
	Use:   "insert [json]",
	Short: "Insert a JSON array of objects into a model as one batch",
	Example: `  chorm insert --table table1 '[{"status":2,"browser":"IE"},{"status":3,"browser":"FF"}]'
  chorm insert --table table1 --file rows.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := modelFor(cmd.Context(), insertTable)
		if err != nil {
			return err
		}

		var data []byte
		switch {
		case len(args) == 1:
			data = []byte(args[0])
		case insertFile == "-":
			data, err = io.ReadAll(os.Stdin)
		case insertFile != "":
			data, err = os.ReadFile(insertFile)
		default:
			return fmt.Errorf("rows are required: pass JSON or --file")
		}
		if err != nil {
			return err
		}

		rows, err := decodeRows(data)
		if err != nil {
			return err
		}
		if _, err := m.InsertMaps(cmd.Context(), rows); err != nil {
			return err
		}
		log.Printf("Inserted %d rows into %s.%s\n", len(rows), m.Database(), m.Table())
		return nil
	},
}

// decodeRows accepts a JSON array of objects or a single object. Numbers stay
// json.Number so 64-bit ids keep every digit.
func decodeRows(data []byte) ([]map[string]any, error) {
	var rows []map[string]any
	if err := unmarshalNumbers(data, &rows); err == nil {
		return rows, nil
	}
	var row map[string]any
	if err := unmarshalNumbers(data, &row); err != nil {
		return nil, fmt.Errorf("failed to parse rows: %w", err)
	}
	return []map[string]any{row}, nil
}

func unmarshalNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

func init() {
	RootCmd.AddCommand(insertCmd)
	insertCmd.Flags().StringVar(&insertTable, "table", "", "model table name")
	insertCmd.Flags().StringVarP(&insertFile, "file", "f", "", "JSON file with rows, - for stdin")
}
