package store

import (
	"fmt"

	"github.com/alextreichler/localcart/internal/models"
)

// tableFor maps an item kind to its catalog table. The two tables share a
// shape; only the name differs.
func tableFor(kind models.ItemKind) (string, error) {
	switch kind {
	case models.KindService:
		return "services", nil
	case models.KindMenu:
		return "menu_items", nil
	}
	return "", fmt.Errorf("unknown item kind %q", kind)
}

// ResolveItem looks up one catalog row by reference. It does NOT filter on
// status: a deactivated item must stay resolvable for carts and orders that
// already reference it. Returns ErrNotFound when the row was deleted.
func (s *Store) ResolveItem(ref models.ItemRef) (*models.CatalogItem, error) {
	return resolveItem(s.DB, ref)
}

// GetActiveItems lists the browsable rows of one kind. Inactive rows are
// hidden here but stay resolvable via ResolveItem.
func (s *Store) GetActiveItems(kind models.ItemKind) ([]models.CatalogItem, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, name, COALESCE(photo, '') as photo, original_price, discount, final_price, COALESCE(description, '') as description, COALESCE(status, 'active') as status, created_at
	          FROM %s
	          WHERE status = 'active'
	          ORDER BY created_at DESC`, table)
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		var i models.CatalogItem
		i.Kind = kind
		if err := rows.Scan(&i.ID, &i.Name, &i.Photo, &i.OriginalPrice, &i.Discount, &i.FinalPrice, &i.Description, &i.Status, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (s *Store) CreateItem(item *models.CatalogItem) error {
	table, err := tableFor(item.Kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, photo, original_price, discount, final_price, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, table)
	res, err := s.DB.Exec(query, item.Name, item.Photo, item.OriginalPrice, item.Discount, item.FinalPrice, item.Description, item.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = int(id)
	return nil
}

func (s *Store) UpdateItem(item *models.CatalogItem) error {
	table, err := tableFor(item.Kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = ?, photo = ?, original_price = ?, discount = ?, final_price = ?, description = ?, status = ?
		WHERE id = ?
	`, table)
	_, err = s.DB.Exec(query, item.Name, item.Photo, item.OriginalPrice, item.Discount, item.FinalPrice, item.Description, item.Status, item.ID)
	return err
}

func (s *Store) DeleteItem(ref models.ItemRef) error {
	table, err := tableFor(ref.Kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table)
	_, err = s.DB.Exec(query, ref.ID)
	return err
}
