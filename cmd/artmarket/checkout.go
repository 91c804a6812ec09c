package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/artmarket-system/internal/checkout"
	"github.com/mmeshcher/artmarket-system/internal/model"
)

func checkoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if denied(a.checkout.Access()) {
				return nil
			}

			form := checkout.Form{}
			form.Prefill(a.session.Identity())

			if v, _ := cmd.Flags().GetString("full-name"); v != "" {
				form.FullName = v
			}
			if v, _ := cmd.Flags().GetString("phone"); v != "" {
				form.Phone = v
			}
			if v, _ := cmd.Flags().GetString("street"); v != "" {
				form.Street = v
			}
			if v, _ := cmd.Flags().GetString("ward"); v != "" {
				form.Ward = v
			}
			if v, _ := cmd.Flags().GetString("district"); v != "" {
				form.District = v
			}
			if v, _ := cmd.Flags().GetString("city"); v != "" {
				form.City = v
			}
			form.Notes, _ = cmd.Flags().GetString("notes")
			if v, _ := cmd.Flags().GetString("payment"); v != "" {
				form.PaymentMethod = model.PaymentMethod(v)
			}

			totals := checkout.Estimate(a.cart.Cart())
			fmt.Printf("subtotal: %.0f  shipping: %.0f  total: %.0f\n",
				totals.Subtotal, totals.ShippingFee, totals.Total)

			order, err := a.checkout.Submit(cmd.Context(), form)
			if err != nil {
				var verr *checkout.ValidationError
				if errors.As(err, &verr) {
					fields := make([]string, 0, len(verr.Fields))
					for field := range verr.Fields {
						fields = append(fields, field)
					}
					sort.Strings(fields)
					for _, field := range fields {
						fmt.Printf("  %s: %s\n", field, verr.Fields[field])
					}
					return fmt.Errorf("order was not placed")
				}
				return fmt.Errorf("checkout failed: %s", errText(err))
			}

			fmt.Printf("order %s placed, total %.0f\n", order.OrderNumber, order.TotalAmount)
			return nil
		},
	}

	cmd.Flags().String("full-name", "", "recipient full name")
	cmd.Flags().String("phone", "", "contact phone")
	cmd.Flags().String("street", "", "street address")
	cmd.Flags().String("ward", "", "ward")
	cmd.Flags().String("district", "", "district")
	cmd.Flags().String("city", "", "city")
	cmd.Flags().String("notes", "", "order notes")
	cmd.Flags().String("payment", "cod", "payment method: cod or card")

	return cmd
}
