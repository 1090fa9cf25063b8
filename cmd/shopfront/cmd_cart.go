package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// cartCmd groups the scriptable cart operations. These run against the
// same persisted cart the interactive storefront uses.
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart",
	Long: `Manage the persisted shopping cart from the command line.

Available subcommands:
  add    - Add a product by id (increments quantity if already in the cart)
  remove - Remove a product by id
  set    - Set the quantity for a product (0 removes it)
  show   - Show the cart contents and totals
  clear  - Empty the cart`,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartSetCmd = &cobra.Command{
	Use:   "set <product-id> <quantity>",
	Short: "Set the quantity for a product already in the cart",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartSet,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart contents and totals",
	RunE:  runCartShow,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE:  runCartClear,
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartRemoveCmd, cartSetCmd, cartShowCmd, cartClearCmd)
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	// The cart stores full product records, so adding requires a fetch.
	product, err := rt.client.Product(ctx, id)
	if err != nil {
		return err
	}
	state := rt.cart.AddToCart(ctx, product)
	cmd.Printf("Added %q (quantity now %d).\n", product.Title, state.ItemQuantity(id))
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	state := rt.cart.RemoveFromCart(ctx, id)
	cmd.Printf("Removed product %d. Cart now has %d item(s).\n", id, state.TotalItems)
	return nil
}

func runCartSet(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}

	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	state := rt.cart.UpdateQuantity(ctx, id, qty)
	if qty <= 0 {
		cmd.Printf("Removed product %d.\n", id)
	} else {
		cmd.Printf("Set product %d to quantity %d.\n", id, qty)
	}
	cmd.Printf("Cart now has %d item(s), total $%.2f.\n", state.TotalItems, state.TotalPrice)
	return nil
}

func runCartShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	state := rt.cart.State()
	if state.IsEmpty() {
		cmd.Println("Your cart is empty.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tQTY\tPRICE\tSUBTOTAL\tTITLE")
	for _, item := range state.Items {
		fmt.Fprintf(w, "%d\t%d\t$%.2f\t$%.2f\t%s\n",
			item.ID, item.Quantity, item.Price, item.Price*float64(item.Quantity), truncate(item.Title, 48))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	cmd.Printf("\n%d item(s), total $%.2f\n", state.TotalItems, state.TotalPrice)
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.cart.ClearCart(ctx)
	cmd.Println("Cart cleared.")
	return nil
}
