package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rc-foods/courier-client/internal/domain"
)

func newAreasCmd(current func() *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "areas",
		Short: "List delivery areas",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app := current()

			if refresh {
				areas, err := app.Location.RefreshAreas(ctx)
				if err != nil {
					return err
				}
				printAreas(areas, false)
				return nil
			}

			areas, stale, err := app.Location.Areas(ctx)
			if err != nil {
				return err
			}
			printAreas(areas, stale)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache")
	return cmd
}

func newSelectAreaCmd(current func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select-area <area-id>",
		Short: "Choose the area to work in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app := current()
			areaID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid area id %q", args[0])
			}

			area, err := app.Location.AreaByID(ctx, areaID)
			if err != nil {
				return err
			}
			if err := app.Location.SelectArea(ctx, *area); err != nil {
				return err
			}
			fmt.Printf("Selected area %d (%s)\n", area.AreaID, area.AreaName)
			return nil
		},
	}
}

func printAreas(areas []domain.Area, stale bool) {
	if stale {
		fmt.Println("(offline - showing last known areas)")
	}
	for _, area := range areas {
		fmt.Printf("%4d  %s\n", area.AreaID, area.AreaName)
	}
}
