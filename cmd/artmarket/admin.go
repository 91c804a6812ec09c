package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/artmarket-system/internal/model"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Back-office operations (admin role required)",
	}

	cmd.AddCommand(adminStatsCmd())
	cmd.AddCommand(adminUsersCmd())
	cmd.AddCommand(adminSetRoleCmd())
	cmd.AddCommand(adminOrdersCmd())
	cmd.AddCommand(adminSetStatusCmd())
	cmd.AddCommand(adminRecountCmd())

	return cmd
}

func adminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show marketplace dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if denied(a.admin.Access()) {
				return nil
			}

			stats, err := a.admin.DashboardStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("stats: %s", errText(err))
			}

			fmt.Printf("users: %d  artists: %d  products: %d  categories: %d\n",
				stats.Users, stats.Artists, stats.Products, stats.Categories)
			fmt.Printf("orders: %d (%d pending)  revenue: %.0f\n",
				stats.Orders, stats.Pending, stats.Revenue)
			for _, o := range stats.RecentOrders {
				fmt.Printf("  %s  %-10s  %12.0f\n", o.OrderNumber, o.OrderStatus, o.TotalAmount)
			}
			return nil
		},
	}
}

func adminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if denied(a.admin.Access()) {
				return nil
			}

			users, err := a.admin.Users(cmd.Context())
			if err != nil {
				return fmt.Errorf("users: %s", errText(err))
			}

			for _, u := range users {
				fmt.Printf("%s  %-30s  %-30s  %s\n", u.ID, u.DisplayName(), u.Email, u.Role)
			}
			return nil
		},
	}
}

func adminSetRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-role [user-id]",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if denied(a.admin.Access()) {
				return nil
			}

			role, _ := cmd.Flags().GetString("role")
			ident, err := a.admin.UpdateUser(cmd.Context(), args[0], model.Identity{Role: model.Role(role)})
			if err != nil {
				return fmt.Errorf("set role: %s", errText(err))
			}

			fmt.Printf("%s is now %s\n", ident.DisplayName(), ident.Role)
			return nil
		},
	}

	cmd.Flags().String("role", "", "new role: user, artist or admin")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func adminOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List all marketplace orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if denied(a.admin.Access()) {
				return nil
			}

			orders, err := a.admin.Orders(cmd.Context())
			if err != nil {
				return fmt.Errorf("orders: %s", errText(err))
			}

			for _, o := range orders {
				fmt.Printf("%s  %s  %-10s  %12.0f  user=%s\n",
					o.ID, o.OrderNumber, o.OrderStatus, o.TotalAmount, o.UserID)
			}
			return nil
		},
	}
}

func adminSetStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status [order-id]",
		Short: "Advance an order to the next status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if denied(a.admin.Access()) {
				return nil
			}

			status, _ := cmd.Flags().GetString("status")
			order, err := a.admin.SetOrderStatus(cmd.Context(), args[0], model.OrderStatus(status))
			if err != nil {
				return fmt.Errorf("set status: %s", errText(err))
			}

			fmt.Printf("order %s is now %s\n", order.OrderNumber, order.OrderStatus)
			return nil
		},
	}

	cmd.Flags().String("status", "", "new order status")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func adminRecountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recount-categories",
		Short: "Recalculate product counts per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if denied(a.admin.Access()) {
				return nil
			}

			categories, err := a.admin.RecountCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("recount: %s", errText(err))
			}

			for _, c := range categories {
				fmt.Printf("%-20s %d products\n", c.Slug, c.ProductCount)
			}
			return nil
		},
	}
}
