package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/artmarket-system/internal/guard"
	"github.com/mmeshcher/artmarket-system/internal/model"
)

func printOrder(o *model.Order) {
	fmt.Printf("order %s  status=%s  payment=%s/%s\n",
		o.OrderNumber, o.OrderStatus, o.PaymentMethod, o.PaymentStatus)
	for _, it := range o.Items {
		title := it.ProductID
		if it.Product != nil {
			title = it.Product.Title
		}
		fmt.Printf("  %-40s x%d  %12.0f\n", title, it.Quantity, it.Subtotal)
	}
	fmt.Printf("  subtotal %.0f + shipping %.0f = %.0f\n", o.Subtotal, o.ShippingFee, o.TotalAmount)
	fmt.Printf("  ship to: %s, %s, %s, %s (%s, %s)\n",
		o.ShippingAddress.Street, o.ShippingAddress.Ward, o.ShippingAddress.District,
		o.ShippingAddress.City, o.ShippingAddress.FullName, o.ShippingAddress.Phone)
}

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if denied(a.guard.Check("/orders", guard.RequireAuth())) {
				return nil
			}

			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")

			orders, pagination, err := a.checkout.Orders(cmd.Context(), page, limit)
			if err != nil {
				return fmt.Errorf("orders: %s", errText(err))
			}

			if len(orders) == 0 {
				fmt.Println("no orders yet")
				return nil
			}
			for _, o := range orders {
				fmt.Printf("%s  %s  %-10s  %12.0f  %s\n",
					o.ID, o.OrderNumber, o.OrderStatus, o.TotalAmount,
					o.CreatedAt.Format("2006-01-02 15:04"))
			}
			if pagination != nil {
				fmt.Printf("page %d of %d (%d total)\n", pagination.Page, pagination.TotalPages, pagination.Total)
			}
			return nil
		},
	}

	cmd.Flags().Int("page", 0, "page number")
	cmd.Flags().Int("limit", 0, "orders per page")

	return cmd
}

func orderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order [id]",
		Short: "Show an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if denied(a.guard.Check("/orders/"+args[0], guard.RequireAuth())) {
				return nil
			}

			o, err := a.checkout.Order(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("order: %s", errText(err))
			}

			printOrder(o)
			return nil
		},
	}
}

func cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [id]",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if denied(a.guard.Check("/orders/"+args[0], guard.RequireAuth())) {
				return nil
			}

			// Заказ перечитывается в любом случае, чтобы показать актуальный
			// статус.
			o, err := a.checkout.Cancel(cmd.Context(), args[0])
			if err != nil {
				fmt.Printf("cancel failed: %s\n", errText(err))
			}
			if o != nil {
				printOrder(o)
			}
			return nil
		},
	}
}
