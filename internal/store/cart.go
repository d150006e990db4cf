package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/alextreichler/localcart/internal/models"
)

// AddToCart inserts a new cart line or bumps the quantity of an existing
// one; (user, kind, id) is unique per cart. quantity must be positive; no
// upper bound or stock check exists anywhere in the catalog. Prices are not
// read here at all -- they are resolved at view and checkout time.
func (s *Store) AddToCart(userID int, ref models.ItemRef, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	if _, err := tableFor(ref.Kind); err != nil {
		return err
	}

	query := `
		INSERT INTO cart (user_id, item_type, item_id, quantity, added_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, item_type, item_id) DO UPDATE SET quantity = quantity + excluded.quantity
	`
	_, err := s.DB.Exec(query, userID, string(ref.Kind), ref.ID, quantity)
	return err
}

// GetCartLines returns the user's raw cart rows, oldest first then by id so
// repeated reads come back in a stable order.
func (s *Store) GetCartLines(userID int) ([]models.CartLine, error) {
	query := `SELECT id, user_id, item_type, item_id, quantity, added_at FROM cart WHERE user_id = ? ORDER BY added_at, id`
	rows, err := s.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCartLines(rows)
}

func scanCartLines(rows *sql.Rows) ([]models.CartLine, error) {
	var lines []models.CartLine
	for rows.Next() {
		var l models.CartLine
		var kind string
		if err := rows.Scan(&l.ID, &l.UserID, &kind, &l.Ref.ID, &l.Quantity, &l.AddedAt); err != nil {
			return nil, err
		}
		l.Ref.Kind = models.ItemKind(kind)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// GetCartView resolves every cart line against the catalog for display.
// Lines whose catalog row was deleted are skipped, not errored: a stale
// cart must still render. The returned total is display-only; checkout
// recomputes it from scratch inside its own transaction.
func (s *Store) GetCartView(userID int) ([]models.CartViewLine, float64, error) {
	lines, err := s.GetCartLines(userID)
	if err != nil {
		return nil, 0, err
	}

	var view []models.CartViewLine
	var total float64
	for _, l := range lines {
		item, err := s.ResolveItem(l.Ref)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		lineTotal := item.FinalPrice * float64(l.Quantity)
		total += lineTotal
		view = append(view, models.CartViewLine{Line: l, Item: *item, LineTotal: lineTotal})
	}
	return view, total, nil
}

// RemoveCartItem deletes one cart line, but only for its owner. A row owned
// by someone else yields ErrUnauthorized, not ErrNotFound: the caller asked
// to delete something that exists but is not theirs.
func (s *Store) RemoveCartItem(userID, cartLineID int) error {
	var ownerID int
	err := s.DB.QueryRow(`SELECT user_id FROM cart WHERE id = ?`, cartLineID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrUnauthorized
	}

	_, err = s.DB.Exec(`DELETE FROM cart WHERE id = ?`, cartLineID)
	return err
}

// ClearCart drops every cart line for the user. Only checkout calls this.
func (s *Store) ClearCart(userID int) error {
	_, err := s.DB.Exec(`DELETE FROM cart WHERE user_id = ?`, userID)
	return err
}
