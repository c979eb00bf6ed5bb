package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCartAddSumsDuplicateIdentifiers(t *testing.T) {
	c := NewCart(nil)
	c.AddItem(CartProduct{ID: "p1-fresh", Title: "Rose Bouquet", Price: "1,290.00"}, 2)
	c.AddItem(CartProduct{ID: "p2", Title: "Tulip Vase", Price: 450.5}, 1)
	c.AddItem(CartProduct{ID: "p1-fresh", Title: "Rose Bouquet", Price: "1,290.00"}, 3)

	require.Len(t, c.Lines(), 2)
	require.Equal(t, 6, c.Count())
	require.True(t, decimal.NewFromFloat(6900.50).Equal(c.Total()), "got %s", c.Total())
}

func TestCartQuantityGuards(t *testing.T) {
	c := NewCart(nil)
	c.AddItem(CartProduct{ID: "p1", Price: 100}, 0)
	require.Equal(t, 0, c.Count())
	c.AddItem(CartProduct{ID: "p1", Price: 100}, -2)
	require.Equal(t, 0, c.Count())

	c.AddItem(CartProduct{ID: "p1", Price: 100}, 2)
	c.UpdateQuantity("p1", 0)
	require.Equal(t, 2, c.Count(), "UpdateQuantity below 1 must be a no-op")
	c.UpdateQuantity("p1", 5)
	require.Equal(t, 5, c.Count())
}

func TestCartCountMatchesEntriesAcrossMutations(t *testing.T) {
	c := NewCart(nil)
	c.AddItem(CartProduct{ID: "a", Price: 10}, 1)
	c.AddItem(CartProduct{ID: "b", Price: 20}, 4)
	c.AddItem(CartProduct{ID: "c", Price: 30}, 2)
	c.RemoveItem("b")
	c.UpdateQuantity("c", 7)
	c.RemoveItem("missing") // idempotent

	sum := 0
	for _, l := range c.Lines() {
		sum += l.Quantity
	}
	require.Equal(t, sum, c.Count())
	require.Equal(t, 8, c.Count())

	c.Clear()
	require.Equal(t, 0, c.Count())
	require.Empty(t, c.Lines())
}

func TestCartRoundTripPreservesTotal(t *testing.T) {
	store := &FileCartStore{Path: filepath.Join(t.TempDir(), "cart.json")}
	c := NewCart(store)
	c.AddItem(CartProduct{ID: "p1", Title: "Rose Bouquet", Price: "1,290.00"}, 1)
	c.AddItem(CartProduct{ID: "p2-velvet", Title: "Velvet Rose", Price: "1,590.00"}, 2)
	c.AddItem(CartProduct{ID: "p3", Title: "Card", Price: 35, Type: "card"}, 3)
	want := c.Total()

	reloaded := NewCart(store)
	require.Len(t, reloaded.Lines(), 3)
	require.True(t, want.Equal(reloaded.Total()), "want %s, got %s", want, reloaded.Total())
	require.Equal(t, c.Count(), reloaded.Count())
}

func TestCartCorruptStoreFailsClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := NewCart(&FileCartStore{Path: path})
	require.Equal(t, 0, c.Count())
	require.Empty(t, c.Lines())

	// the cart stays usable and overwrites the bad state on next mutation
	c.AddItem(CartProduct{ID: "p1", Price: 10}, 1)
	reloaded := NewCart(&FileCartStore{Path: path})
	require.Equal(t, 1, reloaded.Count())
}

func TestCartMissingStoreFileIsEmptyCart(t *testing.T) {
	c := NewCart(&FileCartStore{Path: filepath.Join(t.TempDir(), "nope.json")})
	require.Equal(t, 0, c.Count())
}
