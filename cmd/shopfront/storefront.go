package main

import (
	"context"

	"shopfront/cmd/shopfront/ui"
)

// runStorefront starts the interactive terminal storefront.
func runStorefront() error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	return ui.Run(ui.Deps{
		Client:   rt.client,
		Cart:     rt.cart,
		Auth:     rt.auth,
		Placer:   rt.placer,
		PageSize: cfg.Shop.PageSize,
	})
}
