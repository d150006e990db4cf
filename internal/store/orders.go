package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/alextreichler/localcart/internal/models"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// catalog resolution can run inside the checkout transaction.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

func resolveItem(q querier, ref models.ItemRef) (*models.CatalogItem, error) {
	table, err := tableFor(ref.Kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, name, COALESCE(photo, '') as photo, original_price, discount, final_price, COALESCE(description, '') as description, COALESCE(status, 'active') as status, created_at FROM %s WHERE id = ?`, table)
	var i models.CatalogItem
	i.Kind = ref.Kind
	err = q.QueryRow(query, ref.ID).Scan(&i.ID, &i.Name, &i.Photo, &i.OriginalPrice, &i.Discount, &i.FinalPrice, &i.Description, &i.Status, &i.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *Store) userLock(userID int) *sync.Mutex {
	mu, _ := s.checkoutLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// PlaceOrder turns the user's cart into an immutable order:
//
//  1. read the cart (empty cart fails up front, nothing touched)
//  2. re-resolve every line at current catalog prices; lines whose catalog
//     row vanished since add-to-cart are dropped without error, matching
//     the cart view. The charged total can therefore be lower than what
//     the user last saw, and an order whose every line vanished is still
//     created with a zero total.
//  3. insert the order, one order_items snapshot per surviving line, and
//     clear the cart -- all in one transaction.
//
// A per-user mutex serialises concurrent checkouts by the same user so a
// double-submit cannot read the cart twice before either clear runs.
// Different users never contend.
func (s *Store) PlaceOrder(userID int, orderRef, deliveryLocation, paymentMode string) (*models.Order, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.Query(`SELECT id, user_id, item_type, item_id, quantity, added_at FROM cart WHERE user_id = ? ORDER BY added_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	lines, err := scanCartLines(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		err = ErrEmptyCart
		return nil, err
	}

	// Re-resolve at current prices; the display total from the cart page
	// is never trusted.
	type pricedLine struct {
		line models.CartLine
		item *models.CatalogItem
	}
	var priced []pricedLine
	var total float64
	for _, l := range lines {
		item, rerr := resolveItem(tx, l.Ref)
		if errors.Is(rerr, ErrNotFound) {
			continue
		}
		if rerr != nil {
			err = rerr
			return nil, err
		}
		total += item.FinalPrice * float64(l.Quantity)
		priced = append(priced, pricedLine{line: l, item: item})
	}

	order := &models.Order{
		OrderRef:         orderRef,
		UserID:           userID,
		TotalAmount:      total,
		PaymentMode:      paymentMode,
		DeliveryLocation: deliveryLocation,
		Status:           "Pending",
	}

	res, err := tx.Exec(`
		INSERT INTO orders (order_ref, user_id, total_amount, payment_mode, delivery_location, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, order.OrderRef, order.UserID, order.TotalAmount, order.PaymentMode, order.DeliveryLocation, order.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	order.ID = int(orderID)

	for _, p := range priced {
		lres, lerr := tx.Exec(`
			INSERT INTO order_items (order_id, item_type, item_id, quantity, price)
			VALUES (?, ?, ?, ?, ?)
		`, order.ID, string(p.line.Ref.Kind), p.line.Ref.ID, p.line.Quantity, p.item.FinalPrice)
		if lerr != nil {
			err = fmt.Errorf("failed to insert order item %d/%s: %w", p.line.Ref.ID, p.line.Ref.Kind, lerr)
			return nil, err
		}
		lineID, lerr := lres.LastInsertId()
		if lerr != nil {
			err = lerr
			return nil, err
		}
		order.Lines = append(order.Lines, models.OrderLine{
			ID:        int(lineID),
			OrderID:   order.ID,
			Ref:       p.line.Ref,
			Quantity:  p.line.Quantity,
			UnitPrice: p.item.FinalPrice,
			ItemName:  p.item.Name,
			ItemPhoto: p.item.Photo,
		})
	}

	if _, err = tx.Exec(`DELETE FROM cart WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return order, nil
}

// GetOrders returns the user's orders most-recent-first with their lines.
// Each line carries the stored snapshot quantity and price; item name and
// photo are re-joined against the catalog for display only, and a line
// whose catalog row is gone keeps its numbers with empty enrichment.
func (s *Store) GetOrders(userID int) ([]models.Order, error) {
	query := `
		SELECT id, order_ref, user_id, total_amount, payment_mode, delivery_location, status, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.OrderRef, &o.UserID, &o.TotalAmount, &o.PaymentMode, &o.DeliveryLocation, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		lines, err := s.getOrderLines(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (s *Store) getOrderLines(orderID int) ([]models.OrderLine, error) {
	rows, err := s.DB.Query(`SELECT id, order_id, item_type, item_id, quantity, price FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var l models.OrderLine
		var kind string
		if err := rows.Scan(&l.ID, &l.OrderID, &kind, &l.Ref.ID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		l.Ref.Kind = models.ItemKind(kind)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lines {
		item, err := s.ResolveItem(lines[i].Ref)
		if errors.Is(err, ErrNotFound) {
			continue // enrichment only; the snapshot stands on its own
		}
		if err != nil {
			return nil, err
		}
		lines[i].ItemName = item.Name
		lines[i].ItemPhoto = item.Photo
	}
	return lines, nil
}
