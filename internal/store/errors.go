package store

import "errors"

var (
	// ErrNotFound is returned when a catalog item, cart line or order does
	// not exist. Cart and checkout reads recover from catalog misses by
	// skipping the line; callers removing cart rows surface it.
	ErrNotFound = errors.New("store: not found")

	// ErrEmptyCart is returned by PlaceOrder when the user has no cart
	// lines. Nothing is created and nothing is cleared.
	ErrEmptyCart = errors.New("store: cart is empty")

	// ErrUnauthorized is returned when a user tries to mutate a row owned
	// by someone else. Distinct from ErrNotFound: the row exists.
	ErrUnauthorized = errors.New("store: not the owner")
)
