package main

import (
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/sells-group/landcover-cli/internal/desktop"
)

var desktopCmd = &cobra.Command{
	Use:   "desktop",
	Short: "Open the analysis form in a native window",
	RunE: func(cmd *cobra.Command, _ []string) error {
		form, err := initForm("analysis")
		if err != nil {
			return err
		}

		a := app.NewWithID("com.sellsgroup.landcover")
		desktop.New(cmd.Context(), a, form, cfg.Map.Region).ShowAndRun()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(desktopCmd)
}
