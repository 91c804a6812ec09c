package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/artmarket-system/internal/api"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the product catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			filters := api.ProductFilters{}
			filters.Page, _ = cmd.Flags().GetInt("page")
			filters.Limit, _ = cmd.Flags().GetInt("limit")
			filters.Category, _ = cmd.Flags().GetString("category")
			filters.Search, _ = cmd.Flags().GetString("search")
			filters.ArtistID, _ = cmd.Flags().GetString("artist")
			filters.MinPrice, _ = cmd.Flags().GetFloat64("min-price")
			filters.MaxPrice, _ = cmd.Flags().GetFloat64("max-price")
			if featured, _ := cmd.Flags().GetBool("featured"); featured {
				filters.Featured = &featured
			}

			products, pagination, err := a.catalog.Products(cmd.Context(), filters)
			if err != nil {
				return fmt.Errorf("products: %s", errText(err))
			}

			for _, p := range products {
				fmt.Printf("%s  %-40s  %12.0f %s  by %s  (stock %d)\n",
					p.ID, p.Title, p.PriceValue, p.Currency, p.ArtistName, p.Stock)
			}
			if pagination != nil {
				fmt.Printf("page %d of %d (%d total)\n", pagination.Page, pagination.TotalPages, pagination.Total)
			}
			return nil
		},
	}

	cmd.Flags().Int("page", 0, "page number")
	cmd.Flags().Int("limit", 0, "items per page")
	cmd.Flags().String("category", "", "filter by category slug")
	cmd.Flags().String("search", "", "search in title and description")
	cmd.Flags().String("artist", "", "filter by artist id")
	cmd.Flags().Float64("min-price", 0, "minimum price")
	cmd.Flags().Float64("max-price", 0, "maximum price")
	cmd.Flags().Bool("featured", false, "featured products only")

	return cmd
}

func productCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product [id]",
		Short: "Show a product card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.catalog.Product(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("product: %s", errText(err))
			}

			fmt.Printf("%s\n%s\n", p.Title, p.Description)
			fmt.Printf("price: %.0f %s  artist: %s  stock: %d  views: %d\n",
				p.PriceValue, p.Currency, p.ArtistName, p.Stock, p.Views)
			return nil
		},
	}
}

func artistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artists",
		Short: "Browse artists",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			filters := api.ArtistFilters{}
			filters.Page, _ = cmd.Flags().GetInt("page")
			filters.Limit, _ = cmd.Flags().GetInt("limit")
			filters.Specialty, _ = cmd.Flags().GetString("specialty")
			filters.Search, _ = cmd.Flags().GetString("search")

			artists, pagination, err := a.catalog.Artists(cmd.Context(), filters)
			if err != nil {
				return fmt.Errorf("artists: %s", errText(err))
			}

			for _, artist := range artists {
				fmt.Printf("%s  %-30s  %s  rating %.1f  (%d works)\n",
					artist.ID, artist.Name, artist.Specialty, artist.Rating, artist.TotalProducts)
			}
			if pagination != nil {
				fmt.Printf("page %d of %d (%d total)\n", pagination.Page, pagination.TotalPages, pagination.Total)
			}
			return nil
		},
	}

	cmd.Flags().Int("page", 0, "page number")
	cmd.Flags().Int("limit", 0, "items per page")
	cmd.Flags().String("specialty", "", "filter by specialty")
	cmd.Flags().String("search", "", "search by name")

	return cmd
}

func artistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "artist [id]",
		Short: "Show an artist profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			artist, err := a.catalog.Artist(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("artist: %s", errText(err))
			}

			fmt.Printf("%s (%s)\n%s\n", artist.Name, artist.Specialty, artist.Bio)
			fmt.Printf("works: %d  sales: %d  rating: %.1f\n",
				artist.TotalProducts, artist.TotalSales, artist.Rating)
			return nil
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			categories, err := a.catalog.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("categories: %s", errText(err))
			}

			for _, c := range categories {
				fmt.Printf("%-20s %s (%d products)\n", c.Slug, c.Name, c.ProductCount)
			}
			return nil
		},
	}
}
