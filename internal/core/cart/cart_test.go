package cart

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onestopshop/storefront/internal/core/domain"
)

type memPersister struct {
	data    map[string][]domain.CartLine
	saves   int
	saveErr error
}

func newMemPersister() *memPersister {
	return &memPersister{data: make(map[string][]domain.CartLine)}
}

func (m *memPersister) Load(_ context.Context, key string) ([]domain.CartLine, error) {
	return m.data[key], nil
}

func (m *memPersister) Save(_ context.Context, key string, lines []domain.CartLine) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[key] = lines
	return nil
}

var (
	vanilla   = domain.ProductSnapshot{ID: "p1", Name: "Vanilla", Price: 2.5}
	chocolate = domain.ProductSnapshot{ID: "p2", Name: "Chocolate", Price: 3}
)

func TestCart_AddNewProduct(t *testing.T) {
	c := &Cart{}
	c.Add(vanilla, 3)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCart_AddSameProductIncrements(t *testing.T) {
	c := &Cart{}
	c.Add(vanilla, 3)
	c.Add(vanilla, 4)

	lines := c.Lines()
	require.Len(t, lines, 1, "never two lines for the same product")
	assert.Equal(t, 7, lines[0].Quantity)
}

func TestCart_AddSaturatesInsteadOfOverflowing(t *testing.T) {
	c := &Cart{}
	assert.True(t, c.Add(vanilla, math.MaxInt))
	assert.Equal(t, MaxLineQuantity, c.Quantity(vanilla.ID), "a new line is capped")

	assert.False(t, c.Add(vanilla, 1), "a full line does not change")
	assert.False(t, c.Add(vanilla, math.MaxInt))

	lines := c.Lines()
	require.Len(t, lines, 1, "a positive add never drops the line")
	assert.Equal(t, MaxLineQuantity, lines[0].Quantity)
}

func TestCart_AddClampsNearTheCap(t *testing.T) {
	c := &Cart{}
	c.Add(vanilla, MaxLineQuantity-2)

	assert.True(t, c.Add(vanilla, 5))
	assert.Equal(t, MaxLineQuantity, c.Quantity(vanilla.ID))

	assert.True(t, c.Add(vanilla, -1))
	assert.Equal(t, MaxLineQuantity-1, c.Quantity(vanilla.ID))
}

func TestFromLines_ClampsOversizedQuantities(t *testing.T) {
	c := FromLines([]domain.CartLine{{Product: vanilla, Quantity: math.MaxInt}, {Product: vanilla, Quantity: 1}})

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, MaxLineQuantity, c.Quantity(vanilla.ID))
}

func TestCart_NonPositiveDeltaOnNewProductIsNoop(t *testing.T) {
	c := &Cart{}
	assert.False(t, c.Add(vanilla, 0))
	assert.False(t, c.Add(vanilla, -2))
	assert.Empty(t, c.Lines())
}

func TestCart_DecreaseBelowOneRemovesLine(t *testing.T) {
	c := &Cart{}
	c.Add(vanilla, 2)

	c.Add(vanilla, -1)
	assert.Equal(t, 1, c.Quantity("p1"))

	c.Add(vanilla, -1)
	assert.Empty(t, c.Lines())
}

func TestCart_Totals(t *testing.T) {
	c := &Cart{}
	c.Add(vanilla, 2)   // 5.0
	c.Add(chocolate, 3) // 9.0

	assert.Equal(t, 5, c.TotalItems())
	assert.InDelta(t, 14.0, c.TotalPrice(), 1e-9)

	c.Remove("p1")
	assert.Equal(t, 3, c.TotalItems())
	assert.InDelta(t, 9.0, c.TotalPrice(), 1e-9)

	c.Clear()
	assert.Equal(t, 0, c.TotalItems())
	assert.Zero(t, c.TotalPrice())
}

func TestFromLines_MergesDuplicates(t *testing.T) {
	c := FromLines([]domain.CartLine{
		{Product: vanilla, Quantity: 1},
		{Product: vanilla, Quantity: 2},
		{Product: chocolate, Quantity: 0},
	})

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	p := newMemPersister()

	s, err := Open(ctx, p, "cart:abc")
	require.NoError(t, err)

	require.NoError(t, s.AddToCart(ctx, vanilla, 2))
	require.NoError(t, s.AddToCart(ctx, chocolate, 1))
	require.NoError(t, s.RemoveFromCart(ctx, "p2"))
	assert.Equal(t, 3, p.saves)
	require.Len(t, p.data["cart:abc"], 1)

	reopened, err := Open(ctx, p, "cart:abc")
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Cart().Quantity("p1"))

	require.NoError(t, reopened.ClearCart(ctx))
	assert.Empty(t, p.data["cart:abc"])
}

func TestStore_NoopMutationSkipsSave(t *testing.T) {
	ctx := context.Background()
	p := newMemPersister()
	s, err := Open(ctx, p, "k")
	require.NoError(t, err)

	require.NoError(t, s.RemoveFromCart(ctx, "missing"))
	require.NoError(t, s.AddToCart(ctx, vanilla, -1))
	assert.Zero(t, p.saves)
}

func TestStore_SaveError(t *testing.T) {
	ctx := context.Background()
	p := newMemPersister()
	p.saveErr = errors.New("redis down")
	s, err := Open(ctx, p, "k")
	require.NoError(t, err)

	err = s.AddToCart(ctx, vanilla, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, p.saveErr)
}
