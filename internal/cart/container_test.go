package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/kvstore"
)

// failingStore rejects every save but serves loads, for exercising the
// best-effort persistence contract.
type failingStore struct {
	kvstore.Store
}

func (f failingStore) Save(ctx context.Context, key string, data []byte) error {
	return errors.New("disk full")
}

func TestContainerEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	c := NewContainer(ctx, store)

	mouse := product(1, "Wireless Mouse", 20.00)

	state := c.AddToCart(ctx, mouse)
	state = c.AddToCart(ctx, mouse)
	require.Equal(t, 2, state.ItemQuantity(1))

	state = c.UpdateQuantity(ctx, 1, 5)
	assert.Equal(t, 5, state.TotalItems)
	assert.InDelta(t, 100.00, state.TotalPrice, 1e-9)

	state = c.RemoveFromCart(ctx, 1)
	assert.True(t, state.IsEmpty())
}

func TestContainerPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	c := NewContainer(ctx, store)
	c.AddToCart(ctx, product(1, "Mouse", 20))
	c.AddToCart(ctx, product(1, "Mouse", 20))
	c.AddToCart(ctx, product(2, "Keyboard", 50))

	// a fresh container over the same store sees the same cart
	c2 := NewContainer(ctx, store)
	state := c2.State()
	assert.Equal(t, 3, state.TotalItems)
	assert.Equal(t, 2, state.ItemQuantity(1))
	assert.InDelta(t, 90.00, state.TotalPrice, 1e-9)
}

func TestContainerRehydrateMalformed(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	require.NoError(t, store.Save(ctx, kvstore.KeyCart, []byte("{not json")))

	c := NewContainer(ctx, store)
	assert.True(t, c.State().IsEmpty(), "malformed persisted cart starts empty")
}

func TestContainerRehydrateRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	// tampered totals must not survive rehydration
	tampered := State{
		Items:      []LineItem{{Product: product(1, "Mouse", 20), Quantity: 2}},
		TotalItems: 999,
		TotalPrice: 123456.78,
	}
	data, err := json.Marshal(tampered)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, kvstore.KeyCart, data))

	c := NewContainer(ctx, store)
	state := c.State()
	assert.Equal(t, 2, state.TotalItems)
	assert.InDelta(t, 40.00, state.TotalPrice, 1e-9)
}

func TestContainerSaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	c := NewContainer(ctx, failingStore{Store: kvstore.NewMemory()})

	state := c.AddToCart(ctx, product(1, "Mouse", 20))
	assert.Equal(t, 1, state.TotalItems, "in-memory state stands when the save fails")
	assert.Equal(t, 1, c.ItemQuantity(1))
}

func TestStateSnapshotIsDefensive(t *testing.T) {
	ctx := context.Background()
	c := NewContainer(ctx, kvstore.NewMemory())
	c.AddToCart(ctx, product(1, "Mouse", 20))

	snap := c.State()
	snap.Items[0].Quantity = 99

	assert.Equal(t, 1, c.ItemQuantity(1), "mutating a snapshot must not touch the container")
}
