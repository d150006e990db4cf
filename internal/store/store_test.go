package store

import (
	"testing"

	"github.com/alextreichler/localcart/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	// One connection, or the pool would hand each conn its own empty
	// in-memory database.
	s.DB.SetMaxOpenConns(1)
	require.NoError(t, s.InitSchema())
	t.Cleanup(func() { s.DB.Close() })
	return s
}

func seedUser(t *testing.T, s *Store, mobile string) int {
	t.Helper()
	u := &models.User{
		FullName: "Test User " + mobile,
		Mobile:   mobile,
		Email:    mobile + "@example.com",
		Location: "Test City",
		Password: "not-a-real-hash",
	}
	require.NoError(t, s.CreateUser(u))
	return u.ID
}

func seedItem(t *testing.T, s *Store, kind models.ItemKind, name string, finalPrice float64) models.ItemRef {
	t.Helper()
	item := &models.CatalogItem{
		Kind:          kind,
		Name:          name,
		OriginalPrice: finalPrice,
		FinalPrice:    finalPrice,
		Status:        "active",
	}
	require.NoError(t, s.CreateItem(item))
	return item.Ref()
}
