package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserByMobile(t *testing.T) {
	s := newTestStore(t)
	id := seedUser(t, s, "9876543210")

	user, err := s.GetUserByMobile("9876543210")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, id, user.ID)

	missing, err := s.GetUserByMobile("0000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateUserRejectsDuplicateMobile(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "9876543210")

	user, err := s.GetUserByMobile("9876543210")
	require.NoError(t, err)
	require.NotNil(t, user)

	dup := *user
	dup.ID = 0
	dup.Email = "other@example.com"
	assert.Error(t, s.CreateUser(&dup))
}

func TestUpdateProfileKeepsMobile(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "9876543210")

	user, err := s.GetUserByMobile("9876543210")
	require.NoError(t, err)
	user.FullName = "Renamed"
	user.Location = "New City"
	require.NoError(t, s.UpdateProfile(user))

	updated, err := s.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)
	assert.Equal(t, "New City", updated.Location)
	assert.Equal(t, "9876543210", updated.Mobile)
}
