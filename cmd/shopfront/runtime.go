package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shopfront/internal/auth"
	"shopfront/internal/cart"
	"shopfront/internal/checkout"
	"shopfront/internal/kvstore"
	"shopfront/internal/storeapi"
)

// runtime wires the containers and their collaborators for a command.
// Containers are constructed explicitly here (not as package globals)
// so tests and the TUI can build isolated instances.
type runtime struct {
	client *storeapi.Client
	store  kvstore.Store
	cart   *cart.Container
	auth   *auth.Container
	placer checkout.Placer
}

func newRuntime(ctx context.Context) (*runtime, error) {
	store, err := kvstore.Open(kvstore.Config{
		Backend:   cfg.Store.Backend,
		Path:      cfg.Store.Path,
		RedisAddr: cfg.Store.RedisAddr,
		RedisDB:   cfg.Store.RedisDB,
	})
	if err != nil {
		return nil, err
	}

	client := storeapi.New(cfg.API.BaseURL, storeapi.WithTimeout(cfg.API.GetTimeout()))
	logger.Debug("runtime ready",
		zap.String("api", client.BaseURL()),
		zap.String("store", cfg.Store.Backend))

	return &runtime{
		client: client,
		store:  store,
		cart:   cart.NewContainer(ctx, store),
		auth:   auth.NewContainer(client, store),
		placer: checkout.NewMockPlacer(2 * time.Second),
	}, nil
}

func (r *runtime) close() {
	if err := r.store.Close(); err != nil {
		logger.Warn("closing store", zap.Error(err))
	}
}
