package controller

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/garage/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyer_Browse(t *testing.T) {
	store := storage.NewMemory()
	v := newScriptedView()
	c := NewBuyerController(nil)
	require.NoError(t, c.BindView(v))
	require.NoError(t, c.BindStorage(store))
	require.NoError(t, c.Start(context.Background()))

	assert.Equal(t, []string{"Books", "Clothing", "Furniture"}, v.LastCategories())

	v.send(t, ListSellers{})
	v.send(t, AddCategory{Name: "Toys"})
	v.send(t, ListCategories{})
	v.send(t, Quit{})
	waitTerminal(t, c)

	assert.Equal(t, Completed, c.State())
	assert.Equal(t, storage.Disconnected, store.State())

	v.mu.Lock()
	defer v.mu.Unlock()
	require.Len(t, v.sellers, 1)
	assert.Equal(t, []string{"admin", "alice"}, idsOf(v.sellers[0]))
	assert.Len(t, v.categories, 2)
	assert.Equal(t, []string{"AddCategory is not available to buyers"}, v.errors)
}
