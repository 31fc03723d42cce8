package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/landcover-cli/internal/analysis"
	"github.com/sells-group/landcover-cli/internal/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify a year's raster and write the chart and map",
	Example: `  landcover analyze --year 2018-2019 --vegetation
  landcover analyze --year 2022-2023 --water --infrastructure --open`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		form, err := initForm("analysis")
		if err != nil {
			return err
		}

		year, _ := cmd.Flags().GetString("year")
		open, _ := cmd.Flags().GetBool("open")
		var sel model.Selection
		for _, c := range model.AllCategories() {
			on, _ := cmd.Flags().GetBool(c.Key())
			sel.Set(c, on)
		}

		res, err := form.Submit(ctx, analysis.Request{Year: model.Year(year), Selection: sel})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Summary())
		fmt.Fprintf(out, "Chart: %s\n", res.ChartPath)
		fmt.Fprintf(out, "Map:   %s\n", res.MapPath)

		if open {
			return form.ViewResult()
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("year", string(model.Year2018), "analysis period (2018-2019, 2020-2021, 2022-2023)")
	for _, c := range model.AllCategories() {
		analyzeCmd.Flags().Bool(c.Key(), false, "include "+c.Name())
	}
	analyzeCmd.Flags().Bool("open", false, "open the map in the default browser when done")
	rootCmd.AddCommand(analyzeCmd)
}
