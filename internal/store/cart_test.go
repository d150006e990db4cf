package store

import (
	"testing"

	"github.com/alextreichler/localcart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartMergesDuplicateLines(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	ref := seedItem(t, s, models.KindService, "Haircut", 100)

	require.NoError(t, s.AddToCart(user, ref, 2))
	require.NoError(t, s.AddToCart(user, ref, 3))

	lines, err := s.GetCartLines(user)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, ref, lines[0].Ref)
}

func TestAddToCartSameIDDifferentKindsStaySeparate(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	svc := seedItem(t, s, models.KindService, "Haircut", 100)
	menu := seedItem(t, s, models.KindMenu, "Dosa", 50)
	require.Equal(t, svc.ID, menu.ID) // first row in each table

	require.NoError(t, s.AddToCart(user, svc, 1))
	require.NoError(t, s.AddToCart(user, menu, 1))

	lines, err := s.GetCartLines(user)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	ref := seedItem(t, s, models.KindMenu, "Dosa", 50)

	require.Error(t, s.AddToCart(user, ref, 0))
	require.Error(t, s.AddToCart(user, ref, -4))

	lines, err := s.GetCartLines(user)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRemoveCartItemEnforcesOwnership(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "111")
	other := seedUser(t, s, "222")
	ref := seedItem(t, s, models.KindService, "Plumbing", 300)

	require.NoError(t, s.AddToCart(owner, ref, 1))
	lines, err := s.GetCartLines(owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	err = s.RemoveCartItem(other, lines[0].ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// The line must survive the rejected attempt.
	lines, err = s.GetCartLines(owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	require.NoError(t, s.RemoveCartItem(owner, lines[0].ID))
	lines, err = s.GetCartLines(owner)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRemoveCartItemMissingLine(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")

	err := s.RemoveCartItem(user, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCartViewSkipsDeletedItems(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	kept := seedItem(t, s, models.KindService, "Haircut", 100)
	gone := seedItem(t, s, models.KindMenu, "Dosa", 50)

	require.NoError(t, s.AddToCart(user, kept, 2))
	require.NoError(t, s.AddToCart(user, gone, 1))
	require.NoError(t, s.DeleteItem(gone))

	view, total, err := s.GetCartView(user)
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, "Haircut", view[0].Item.Name)
	assert.Equal(t, 200.0, view[0].LineTotal)
	assert.Equal(t, 200.0, total)

	// The raw line is still there; only the view drops it.
	lines, err := s.GetCartLines(user)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestGetCartViewIncludesInactiveItems(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	ref := seedItem(t, s, models.KindService, "Haircut", 100)

	require.NoError(t, s.AddToCart(user, ref, 1))

	item, err := s.ResolveItem(ref)
	require.NoError(t, err)
	item.Status = "inactive"
	require.NoError(t, s.UpdateItem(item))

	view, total, err := s.GetCartView(user)
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, 100.0, total)
}
