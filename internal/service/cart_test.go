package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/grocery_cart/internal/events"
	"github.com/Skotchmaster/grocery_cart/internal/inventory"
	"github.com/Skotchmaster/grocery_cart/internal/models"
	"github.com/Skotchmaster/grocery_cart/internal/repo"
)

type pairKey struct {
	userID    uint
	productID uint
}

type fakeStore struct {
	mu      sync.Mutex
	lines   map[pairKey]*models.CartLine
	nextID  uint
	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{lines: make(map[pairKey]*models.CartLine)}
}

func (f *fakeStore) ListByUser(_ context.Context, userID uint) ([]models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.CartLine, 0)
	for _, l := range f.lines {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertIncrement(_ context.Context, userID, productID, quantity uint) (*models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	key := pairKey{userID, productID}
	if l, ok := f.lines[key]; ok {
		l.Quantity += quantity
		line := *l
		return &line, nil
	}
	f.nextID++
	l := &models.CartLine{ID: f.nextID, UserID: userID, ProductID: productID, Quantity: quantity}
	f.lines[key] = l
	line := *l
	return &line, nil
}

func (f *fakeStore) DecrementOrDelete(_ context.Context, userID, productID, quantity uint) (*repo.RemoveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{userID, productID}
	l, ok := f.lines[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if l.Quantity > quantity {
		l.Quantity -= quantity
		return &repo.RemoveResult{Deleted: false, Remaining: l.Quantity}, nil
	}
	delete(f.lines, key)
	return &repo.RemoveResult{Deleted: true, Remaining: 0}, nil
}

type fakeInventory struct {
	products map[uint]*inventory.Product
	err      error
}

func (f *fakeInventory) FetchProduct(_ context.Context, productID uint) (*inventory.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[productID]
	if !ok {
		return nil, inventory.ErrProductNotFound
	}
	return p, nil
}

type fakePublisher struct {
	topics []string
	events []events.CartEvent
}

func (f *fakePublisher) Publish(_ context.Context, topic string, event events.CartEvent) error {
	f.topics = append(f.topics, topic)
	f.events = append(f.events, event)
	return nil
}

func newTestService(available map[uint]uint) (*CartService, *fakeStore, *fakePublisher) {
	products := make(map[uint]*inventory.Product, len(available))
	for id, qty := range available {
		products[id] = &inventory.Product{ID: id, Quantity: qty}
	}
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := &CartService{
		Store:     store,
		Inventory: &fakeInventory{products: products},
		Events:    pub,
	}
	return svc, store, pub
}

func TestAddToCart_AddsAndPublishes(t *testing.T) {
	t.Parallel()

	svc, _, pub := newTestService(map[uint]uint{7: 50})
	ctx := context.Background()

	line, err := svc.AddToCart(ctx, 1, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), line.Quantity)

	require.Len(t, pub.topics, 1)
	assert.Equal(t, events.TopicCartAdded, pub.topics[0])
	assert.Equal(t, uint(1), pub.events[0].UserID)
	assert.Equal(t, uint(7), pub.events[0].ProductID)
}

func TestAddToCart_SumsSamePair(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(map[uint]uint{7: 50})
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, 7, 1)
	require.NoError(t, err)
	line, err := svc.AddToCart(ctx, 1, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(3), line.Quantity)

	lines, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestAddToCart_InsufficientQuantityLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	svc, store, pub := newTestService(map[uint]uint{7: 50})
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, 7, 1000)
	require.ErrorIs(t, err, ErrInsufficientQuantity)
	assert.Zero(t, store.upserts)
	assert.Empty(t, pub.topics)
}

func TestAddToCart_ProductNotFound(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(nil)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, 999, 1)
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Zero(t, store.upserts)
}

func TestAddToCart_UnreachableInventoryReadsAsNotFound(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := &CartService{
		Store:     store,
		Inventory: &fakeInventory{err: inventory.ErrServiceUnavailable},
	}

	_, err := svc.AddToCart(context.Background(), 1, 7, 1)
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Zero(t, store.upserts)
}

func TestAddToCart_ZeroQuantity(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService(map[uint]uint{7: 50})

	_, err := svc.AddToCart(context.Background(), 1, 7, 0)
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, store.upserts)
}

func TestRemoveFromCart_DecrementsThenDeletes(t *testing.T) {
	t.Parallel()

	svc, _, pub := newTestService(map[uint]uint{7: 50})
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, 7, 3)
	require.NoError(t, err)

	result, err := svc.RemoveFromCart(ctx, 1, 7, 1)
	require.NoError(t, err)
	assert.False(t, result.Deleted)
	assert.Equal(t, uint(2), result.Remaining)

	result, err = svc.RemoveFromCart(ctx, 1, 7, 5)
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.Equal(t, uint(0), result.Remaining)

	lines, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.Len(t, pub.topics, 3)
	assert.Equal(t, events.TopicCartRemoved, pub.topics[1])
	assert.False(t, pub.events[1].Deleted)
	assert.True(t, pub.events[2].Deleted)
}

func TestRemoveFromCart_NotFoundNeverCreatesLine(t *testing.T) {
	t.Parallel()

	svc, store, pub := newTestService(map[uint]uint{7: 50})
	ctx := context.Background()

	_, err := svc.RemoveFromCart(ctx, 1, 7, 1)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.lines)
	assert.Empty(t, pub.topics)
}

func TestRemoveFromCart_ZeroQuantity(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(nil)

	_, err := svc.RemoveFromCart(context.Background(), 1, 7, 0)
	require.ErrorIs(t, err, ErrValidation)
}
