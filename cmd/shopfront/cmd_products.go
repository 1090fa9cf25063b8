package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shopfront/internal/catalog"
	"shopfront/internal/storeapi"
)

var (
	productsCategory string
	productsSort     string
	productsSearch   string
	productsLimit    int
)

// productsCmd lists the catalog, or shows one product when given an id.
var productsCmd = &cobra.Command{
	Use:   "products [id]",
	Short: "List products or show one product",
	Long: `List the catalog, optionally filtered and sorted, or show a single
product when an id argument is given.

Examples:
  shopfront products
  shopfront products 3
  shopfront products --category electronics --sort price-low-high
  shopfront products --search jacket`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProducts,
}

// categoriesCmd lists category names.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	RunE:  runCategories,
}

func init() {
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "filter by category")
	productsCmd.Flags().StringVar(&productsSort, "sort", "", "sort order: default, price-low-high, price-high-low, rating-high-low, name-a-z")
	productsCmd.Flags().StringVar(&productsSearch, "search", "", "search in title and description")
	productsCmd.Flags().IntVar(&productsLimit, "limit", 0, "show at most N products")
}

func runProducts(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		p, err := rt.client.Product(ctx, id)
		if err != nil {
			return err
		}
		printProduct(cmd, p)
		return nil
	}

	products, err := rt.client.Products(ctx)
	if err != nil {
		return err
	}

	filter := catalog.NewFilter(catalog.Bounds(products))
	filter.Query = productsSearch
	if productsCategory != "" {
		filter.Categories = []string{productsCategory}
	}
	if productsSort != "" {
		filter.Sort = catalog.SortKey(productsSort)
	}

	matched := catalog.Apply(products, filter)
	if productsLimit > 0 && productsLimit < len(matched) {
		matched = matched[:productsLimit]
	}

	if len(matched) == 0 {
		cmd.Println("No products found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRICE\tRATING\tCATEGORY\tTITLE")
	for _, p := range matched {
		fmt.Fprintf(w, "%d\t$%.2f\t%.1f (%d)\t%s\t%s\n",
			p.ID, p.Price, p.Rating.Rate, p.Rating.Count, p.Category, truncate(p.Title, 48))
	}
	return w.Flush()
}

func runCategories(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	categories, err := rt.client.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		cmd.Println(c)
	}
	return nil
}

func printProduct(cmd *cobra.Command, p storeapi.Product) {
	cmd.Printf("#%d %s\n", p.ID, p.Title)
	cmd.Printf("Price:    $%.2f\n", p.Price)
	cmd.Printf("Category: %s\n", p.Category)
	cmd.Printf("Rating:   %.1f (%d reviews)\n", p.Rating.Rate, p.Rating.Count)
	cmd.Printf("\n%s\n", p.Description)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
