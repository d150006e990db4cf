package store

import (
	"sync"
	"testing"

	"github.com/alextreichler/localcart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderEmptyCart(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")

	order, err := s.PlaceOrder(user, "REF00001", "Home", "Cash on Delivery")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, order)

	orders, err := s.GetOrders(user)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrderSnapshotsCartAtCurrentPrices(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	svc := seedItem(t, s, models.KindService, "Haircut", 100)
	menu := seedItem(t, s, models.KindMenu, "Dosa", 50)

	require.NoError(t, s.AddToCart(user, svc, 2))
	require.NoError(t, s.AddToCart(user, menu, 1))

	order, err := s.PlaceOrder(user, "REF00001", "12 Main St", "UPI")
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, 250.0, order.TotalAmount)
	assert.Equal(t, "Pending", order.Status)
	assert.Equal(t, "UPI", order.PaymentMode)
	assert.Equal(t, "12 Main St", order.DeliveryLocation)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, 100.0, order.Lines[0].UnitPrice)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.Equal(t, 50.0, order.Lines[1].UnitPrice)
	assert.Equal(t, 1, order.Lines[1].Quantity)

	lines, err := s.GetCartLines(user)
	require.NoError(t, err)
	assert.Empty(t, lines, "cart must be cleared by checkout")
}

func TestPlaceOrderDropsVanishedItems(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	kept := seedItem(t, s, models.KindService, "Haircut", 100)
	gone := seedItem(t, s, models.KindMenu, "Dosa", 50)

	require.NoError(t, s.AddToCart(user, kept, 2))
	require.NoError(t, s.AddToCart(user, gone, 1))
	require.NoError(t, s.DeleteItem(gone))

	order, err := s.PlaceOrder(user, "REF00001", "Home", "Card")
	require.NoError(t, err)

	assert.Equal(t, 200.0, order.TotalAmount)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, kept, order.Lines[0].Ref)

	// The orphaned cart line is cleared along with the rest, not retried.
	lines, err := s.GetCartLines(user)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestPlaceOrderAllItemsVanished(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	ref := seedItem(t, s, models.KindMenu, "Dosa", 50)

	require.NoError(t, s.AddToCart(user, ref, 3))
	require.NoError(t, s.DeleteItem(ref))

	// A zero-total order with no lines is still created; the cart held
	// rows, they just all failed to resolve.
	order, err := s.PlaceOrder(user, "REF00001", "Home", "Cash on Delivery")
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.TotalAmount)
	assert.Empty(t, order.Lines)

	lines, err := s.GetCartLines(user)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestOrderSnapshotSurvivesPriceChange(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	ref := seedItem(t, s, models.KindService, "Haircut", 100)

	require.NoError(t, s.AddToCart(user, ref, 2))
	placed, err := s.PlaceOrder(user, "REF00001", "Home", "UPI")
	require.NoError(t, err)

	item, err := s.ResolveItem(ref)
	require.NoError(t, err)
	item.FinalPrice = 175
	require.NoError(t, s.UpdateItem(item))

	orders, err := s.GetOrders(user)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.TotalAmount, orders[0].TotalAmount)
	require.Len(t, orders[0].Lines, 1)
	assert.Equal(t, 100.0, orders[0].Lines[0].UnitPrice, "snapshot price must not follow the catalog")
}

func TestOrderTotalsMatchLineSnapshots(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	svc := seedItem(t, s, models.KindService, "Cleaning", 80)
	menu := seedItem(t, s, models.KindMenu, "Thali", 120)

	require.NoError(t, s.AddToCart(user, svc, 3))
	require.NoError(t, s.AddToCart(user, menu, 2))
	_, err := s.PlaceOrder(user, "REF00001", "Home", "Card")
	require.NoError(t, err)

	require.NoError(t, s.AddToCart(user, menu, 1))
	_, err = s.PlaceOrder(user, "REF00002", "Office", "UPI")
	require.NoError(t, err)

	orders, err := s.GetOrders(user)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		var sum float64
		for _, l := range o.Lines {
			sum += float64(l.Quantity) * l.UnitPrice
		}
		assert.Equal(t, o.TotalAmount, sum, "order %s", o.OrderRef)
	}
}

func TestGetOrdersEnrichmentOptional(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	ref := seedItem(t, s, models.KindMenu, "Dosa", 50)

	require.NoError(t, s.AddToCart(user, ref, 2))
	_, err := s.PlaceOrder(user, "REF00001", "Home", "UPI")
	require.NoError(t, err)

	orders, err := s.GetOrders(user)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Lines, 1)
	assert.Equal(t, "Dosa", orders[0].Lines[0].ItemName)

	// Deleting the catalog row blanks the enrichment but never the
	// stored snapshot numbers.
	require.NoError(t, s.DeleteItem(ref))
	orders, err = s.GetOrders(user)
	require.NoError(t, err)
	require.Len(t, orders[0].Lines, 1)
	line := orders[0].Lines[0]
	assert.Empty(t, line.ItemName)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 50.0, line.UnitPrice)
	assert.Equal(t, 100.0, orders[0].TotalAmount)
}

func TestGetOrdersMostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	ref := seedItem(t, s, models.KindService, "Haircut", 100)

	for _, orderRef := range []string{"REF00001", "REF00002", "REF00003"} {
		require.NoError(t, s.AddToCart(user, ref, 1))
		_, err := s.PlaceOrder(user, orderRef, "Home", "UPI")
		require.NoError(t, err)
	}

	orders, err := s.GetOrders(user)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "REF00003", orders[0].OrderRef)
	assert.Equal(t, "REF00002", orders[1].OrderRef)
	assert.Equal(t, "REF00001", orders[2].OrderRef)
}

func TestConcurrentCheckoutDoubleSubmit(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "111")
	ref := seedItem(t, s, models.KindService, "Haircut", 100)
	require.NoError(t, s.AddToCart(user, ref, 1))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.PlaceOrder(user, "REF0000"+string(rune('1'+i)), "Home", "UPI")
		}()
	}
	wg.Wait()

	// Exactly one submit wins; the other sees the already-cleared cart.
	var placed, empty int
	for _, err := range errs {
		switch {
		case err == nil:
			placed++
		case assert.ErrorIs(t, err, ErrEmptyCart):
			empty++
		}
	}
	assert.Equal(t, 1, placed)
	assert.Equal(t, 1, empty)

	orders, err := s.GetOrders(user)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
