package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chorm/internal/engine"
)

var (
	count  int
	seed   int64
	dryRun bool
	tables []string
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill the model tables with generated rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Fetch count from Viper (Flag > Config > Default)
		targetCount := viper.GetInt("settings.default_count")
		if count > 0 { // Flag override
			targetCount = count
		}
		batchSize := viper.GetInt("settings.batch_size")

		// Filter tables strategy:
		// 1. Check CLI flag --tables
		// 2. If empty, check config settings.tables
		// 3. If both empty, process all models.
		targetTables := tables
		if len(targetTables) == 0 {
			targetTables = viper.GetStringSlice("settings.tables")
		}

		log.Println("Synchronizing models...")
		models, err := registerModels(ctx, targetTables)
		if err != nil {
			if len(models) == 0 {
				return err
			}
			log.Printf("Warning: %v (continuing with %d models)\n", err, len(models))
		}

		if dryRun {
			log.Println("[SIMULATION] Dry-Run Mode Active: No data will be written.")
			gen := engine.NewGenerator(seed)
			for i, m := range models {
				def := m.Definition()
				fmt.Printf("[%02d] %s sample: %v\n", i+1, m.Table(), gen.Row(&def))
			}
			return nil
		}

		log.Printf("Starting fill with count=%d per table (batch %d)...", targetCount, batchSize)
		start := time.Now()

		uiprogress.Start()
		bars := make(map[string]*uiprogress.Bar, len(models))
		for _, m := range models {
			name := m.Table()
			bar := uiprogress.AddBar(targetCount).AppendCompleted().PrependElapsed()
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return fmt.Sprintf("%-20s", name)
			})
			bars[name] = bar
		}

		results := engine.Pump(ctx, models, engine.NewGenerator(seed), targetCount, batchSize,
			func(table string, n int) {
				bars[table].Set(bars[table].Current() + n)
			})

		uiprogress.Stop()
		elapsed := time.Since(start)

		fmt.Println("\n📊 Summary Report:")
		total := 0
		for i, r := range results {
			icon := "✓"
			if r.Status != "OK" {
				icon = "!"
			}
			fmt.Printf("[%s] [%02d/%02d] %-20s : %d rows (Target: %d) - %s\n",
				icon, i+1, len(results), r.TableName, r.Actual, r.Target, r.Status)
			if r.ErrorMsg != "" {
				fmt.Printf("    └ Error: %s\n", r.ErrorMsg)
			}
			total += r.Actual
		}
		fmt.Println("--------------------------------------------------")
		fmt.Printf("Total Rows: %d\n", total)
		log.Printf("Fill Done! Time Elapsed: %s", elapsed)

		return nil
	},
}

func init() {
	RootCmd.AddCommand(fillCmd)

	// CLI Flags
	fillCmd.Flags().IntVar(&count, "count", 0, "Number of rows to generate per table (overrides config)")
	fillCmd.Flags().Int64Var(&seed, "seed", 0, "Generator seed, 0 for random")
	fillCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print a sample row per model without writing")
	fillCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific models to fill (comma-separated)")

	viper.BindPFlag("settings.default_count", fillCmd.Flags().Lookup("count"))
	viper.SetDefault("settings.default_count", 100)
	viper.SetDefault("settings.batch_size", 1000)
}
