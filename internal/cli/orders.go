package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rc-foods/courier-client/internal/api"
	"github.com/rc-foods/courier-client/internal/domain"
)

func newOrdersCmd(current func() *App) *cobra.Command {
	var (
		areaID   int
		mealTime string
		date     string
		status   string
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders for an area",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app := current()

			req, err := buildOrdersRequest(ctx, app, areaID, mealTime, date, status)
			if err != nil {
				return err
			}

			var resp *api.AreaOrdersResponse
			var stale bool
			if refresh {
				resp, err = app.Delivery.RefreshAreaOrders(ctx, *req)
			} else {
				resp, stale, err = app.Delivery.AreaOrders(ctx, *req)
			}
			if err != nil {
				return err
			}

			if stale {
				fmt.Println("(offline - showing last known orders)")
			}
			for _, order := range resp.Orders {
				fmt.Printf("%-8s %-20s %-24s %-9s %8.2f  %s\n",
					order.OrderID, order.CustomerName, order.CustomerAddress,
					order.MealTime, order.TotalPrice, order.PaymentStatus)
			}
			fmt.Printf("%d orders\n", resp.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&areaID, "area", 0, "area id (defaults to the selected area)")
	cmd.Flags().StringVar(&mealTime, "meal", "", "breakfast, lunch or dinner")
	cmd.Flags().StringVar(&date, "date", "", "date filter (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "payment status filter")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache")
	return cmd
}

func newPayCmd(current func() *App) *cobra.Command {
	var areaID int

	cmd := &cobra.Command{
		Use:   "pay <order-id>",
		Short: "Mark an order's payment as collected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app := current()
			orderID := args[0]

			req, err := buildOrdersRequest(ctx, app, areaID, "", "", "")
			if err != nil {
				return err
			}

			resp, _, err := app.Delivery.AreaOrders(ctx, *req)
			if err != nil {
				return err
			}
			var target *domain.DeliveryOrder
			for i := range resp.Orders {
				if resp.Orders[i].OrderID == orderID {
					target = &resp.Orders[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("order %s not found in area %d", orderID, req.AreaID)
			}

			if _, err := app.Delivery.MarkOrderPaid(ctx, req.AreaID, *target); err != nil {
				return err
			}
			fmt.Printf("Order %s marked paid\n", orderID)
			return nil
		},
	}

	cmd.Flags().IntVar(&areaID, "area", 0, "area id (defaults to the selected area)")
	return cmd
}

func newUnpaidCmd(current func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unpaid <order-id>",
		Short: "Mark an order as owing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := current().Delivery.UpdatePaymentStatus(cmd.Context(), args[0], domain.PaymentStatusUnpaid); err != nil {
				return err
			}
			fmt.Printf("Order %s marked unpaid\n", args[0])
			return nil
		},
	}
}

// buildOrdersRequest fills the area from the persisted marker when the
// flag was not given.
func buildOrdersRequest(ctx context.Context, app *App, areaID int, mealTime, date, status string) (*api.AreaOrdersRequest, error) {
	if areaID == 0 {
		selected, err := app.Location.SelectedArea(ctx)
		if err != nil {
			return nil, err
		}
		if selected == nil {
			return nil, errors.New("no area selected; run select-area or pass --area")
		}
		areaID = selected.AreaID
	}
	return &api.AreaOrdersRequest{
		AreaID:        areaID,
		MealTime:      domain.MealTime(mealTime),
		Date:          date,
		PaymentStatus: domain.PaymentStatus(status),
	}, nil
}
