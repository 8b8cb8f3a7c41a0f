package engine

import (
	"context"
	"fmt"

	"chorm/internal/orm"
)

// Result reports one model's fill.
type Result struct {
	TableName string
	Target    int
	Actual    int
	Status    string
	ErrorMsg  string
}

// Pump inserts count generated rows into every model, batchSize rows per
// INSERT. A failing model is reported and the next one is still filled.
// onProgress is called after each batch with the rows it inserted.
func Pump(ctx context.Context, models []*orm.Model, gen *Generator, count, batchSize int, onProgress func(table string, n int)) []Result {
	if batchSize <= 0 {
		batchSize = count
	}

	var results []Result
	for _, m := range models {
		res := Result{TableName: m.Table(), Target: count, Status: "OK"}
		def := m.Definition()

		initial, err := m.Count(ctx, "")
		if err != nil {
			res.Status = "FAILED"
			res.ErrorMsg = err.Error()
			results = append(results, res)
			continue
		}

		for done := 0; done < count; {
			n := min(batchSize, count-done)
			batch := make([]map[string]any, n)
			for i := range batch {
				batch[i] = gen.Row(&def)
			}
			if _, err := m.InsertMaps(ctx, batch); err != nil {
				res.ErrorMsg = err.Error()
				break
			}
			done += n
			if onProgress != nil {
				onProgress(m.Table(), n)
			}
		}

		// Verify against the table rather than trusting acknowledgements.
		final, err := m.Count(ctx, "")
		if err != nil {
			res.Status = "VERIFY_FAIL"
			res.ErrorMsg = err.Error()
			results = append(results, res)
			continue
		}
		res.Actual = int(final) - int(initial)
		if res.Actual < count {
			res.Status = "MISSING DATA"
			if res.ErrorMsg == "" {
				res.ErrorMsg = fmt.Sprintf("Only inserted %d out of %d", res.Actual, count)
			}
		}
		results = append(results, res)
	}
	return results
}
