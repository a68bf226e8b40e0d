package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCmd(current func() *App) *cobra.Command {
	var (
		areaID int
		clear  bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show collected totals for an area",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app := current()

			if areaID == 0 {
				selected, err := app.Location.SelectedArea(ctx)
				if err != nil {
					return err
				}
				if selected == nil {
					return fmt.Errorf("no area selected; run select-area or pass --area")
				}
				areaID = selected.AreaID
			}

			if clear {
				if err := app.Summary.ClearArea(ctx, areaID); err != nil {
					return err
				}
				fmt.Printf("Summary cleared for area %d\n", areaID)
				return nil
			}

			summary, err := app.Summary.Summary(ctx, areaID)
			if err != nil {
				return err
			}
			fmt.Printf("Area %d\n", summary.AreaID)
			fmt.Printf("  Paid parcels:  %d\n", summary.TotalQuantity)
			fmt.Printf("  Paid total:    %.2f\n", summary.TotalAmount)
			fmt.Printf("  Orders counted: %d\n", len(summary.OrderIDs))
			return nil
		},
	}

	cmd.Flags().IntVar(&areaID, "area", 0, "area id (defaults to the selected area)")
	cmd.Flags().BoolVar(&clear, "clear", false, "reset the area's summary")
	return cmd
}
