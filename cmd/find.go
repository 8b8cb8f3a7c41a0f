package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"chorm/internal/query"
)

var (
	findTable string
	findReq   query.Request
	findOuter []string
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Query a model and print rows as JSON lines",
	Example: `  chorm find --table table1 --where "status = 1" --order-by "time ASC" --limit 5
  chorm find --table table1 --select browser --group-by browser --outer "count() AS browserTotal"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := modelFor(cmd.Context(), findTable)
		if err != nil {
			return err
		}

		reqs := []query.Request{findReq}
		for _, sel := range findOuter {
			reqs = append(reqs, query.Request{Select: sel})
		}
		rows, err := m.Find(cmd.Context(), reqs...)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(findCmd)

	f := findCmd.Flags()
	f.StringVar(&findTable, "table", "", "model table name")
	f.StringVar(&findReq.Select, "select", "*", "projection")
	f.StringVar(&findReq.Where, "where", "", "WHERE fragment")
	f.StringVar(&findReq.GroupBy, "group-by", "", "GROUP BY fragment")
	f.StringVar(&findReq.OrderBy, "order-by", "", "ORDER BY fragment")
	f.IntVar(&findReq.Limit, "limit", 0, "row limit, 0 for none")
	f.IntVar(&findReq.Offset, "offset", 0, "rows to skip, needs --limit")
	f.StringArrayVar(&findOuter, "outer", nil, "wrap the query and select this from it (repeatable)")
}
