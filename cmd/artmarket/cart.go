package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/artmarket-system/internal/cart"
)

func cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}

	cmd.AddCommand(cartShowCmd())
	cmd.AddCommand(cartAddCmd())
	cmd.AddCommand(cartUpdateCmd())
	cmd.AddCommand(cartRemoveCmd())
	cmd.AddCommand(cartClearCmd())

	return cmd
}

func cartErr(err error) error {
	if errors.Is(err, cart.ErrLoginRequired) {
		return fmt.Errorf("please log in first")
	}
	return fmt.Errorf("%s", errText(err))
}

func printCart(a *app) {
	c := a.cart.Cart()
	if c.IsEmpty() {
		fmt.Println("cart is empty")
		return
	}

	for _, it := range c.Items {
		title := it.ProductID
		if it.Product != nil {
			title = it.Product.Title
		}
		fmt.Printf("%-40s x%d  %12.0f\n", title, it.Quantity, it.Price*float64(it.Quantity))
	}
	fmt.Printf("items: %d  total: %.0f\n", c.TotalItems, c.TotalPrice)
}

func cartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			printCart(a)
			return nil
		},
	}
}

func cartAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [product-id]",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			quantity, _ := cmd.Flags().GetInt("quantity")
			if err := a.cart.Add(cmd.Context(), args[0], quantity); err != nil {
				return cartErr(err)
			}

			printCart(a)
			return nil
		},
	}

	cmd.Flags().IntP("quantity", "q", 1, "quantity to add")

	return cmd
}

func cartUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [product-id]",
		Short: "Set the quantity of a cart item (zero removes it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			quantity, _ := cmd.Flags().GetInt("quantity")
			if err := a.cart.UpdateQuantity(cmd.Context(), args[0], quantity); err != nil {
				return cartErr(err)
			}

			printCart(a)
			return nil
		},
	}

	cmd.Flags().IntP("quantity", "q", 1, "new quantity")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}

func cartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [product-id]",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.cart.Remove(cmd.Context(), args[0]); err != nil {
				return cartErr(err)
			}

			printCart(a)
			return nil
		},
	}
}

func cartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all items from the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.cart.Clear(cmd.Context()); err != nil {
				return cartErr(err)
			}

			fmt.Println("cart cleared")
			return nil
		},
	}
}
