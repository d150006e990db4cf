package models

import (
	"fmt"
	"time"
)

// ItemKind selects which catalog table an ItemRef points into.
type ItemKind string

const (
	KindService ItemKind = "service"
	KindMenu    ItemKind = "menu"
)

// ParseItemKind validates untrusted form input.
func ParseItemKind(s string) (ItemKind, error) {
	switch ItemKind(s) {
	case KindService, KindMenu:
		return ItemKind(s), nil
	}
	return "", fmt.Errorf("unknown item type %q", s)
}

// ItemRef identifies one catalog row across the two item tables.
type ItemRef struct {
	Kind ItemKind `json:"kind"`
	ID   int      `json:"id"`
}

type User struct {
	ID         int       `json:"id"`
	FullName   string    `json:"full_name"`
	Mobile     string    `json:"mobile"`
	Email      string    `json:"email"`
	Location   string    `json:"location"`
	Latitude   string    `json:"latitude"`
	Longitude  string    `json:"longitude"`
	Password   string    `json:"-"` // bcrypt hash
	ProfilePic string    `json:"profile_pic"`
	CreatedAt  time.Time `json:"created_at"`
}

// CatalogItem is one purchasable row from either the services or the
// menu_items table. FinalPrice is stored, not derived, so it can carry
// manual overrides independent of OriginalPrice - Discount.
type CatalogItem struct {
	ID            int       `json:"id"`
	Kind          ItemKind  `json:"kind"`
	Name          string    `json:"name"`
	Photo         string    `json:"photo"`
	OriginalPrice float64   `json:"original_price"`
	Discount      float64   `json:"discount"`
	FinalPrice    float64   `json:"final_price"`
	Description   string    `json:"description"`
	Status        string    `json:"status"` // "active" or "inactive"
	CreatedAt     time.Time `json:"created_at"`
}

func (c CatalogItem) Ref() ItemRef {
	return ItemRef{Kind: c.Kind, ID: c.ID}
}

// CartLine is the only mutable pre-order state: a pending quantity of one
// catalog item for one user. Unique per (UserID, Ref).
type CartLine struct {
	ID       int       `json:"id"`
	UserID   int       `json:"user_id"`
	Ref      ItemRef   `json:"ref"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// CartViewLine is a cart line resolved against the catalog for display.
type CartViewLine struct {
	Line      CartLine    `json:"line"`
	Item      CatalogItem `json:"item"`
	LineTotal float64     `json:"line_total"`
}

type Order struct {
	ID               int         `json:"id"`
	OrderRef         string      `json:"order_ref"` // public "A7X9..." ID
	UserID           int         `json:"user_id"`
	TotalAmount      float64     `json:"total_amount"`
	PaymentMode      string      `json:"payment_mode"`
	DeliveryLocation string      `json:"delivery_location"`
	Status           string      `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	Lines            []OrderLine `json:"lines"`
}

// OrderLine is an immutable snapshot taken at order placement. UnitPrice is
// copied from CatalogItem.FinalPrice at that moment and never changes, even
// if the catalog row does. ItemName and ItemPhoto are display enrichment
// re-joined at read time and may be empty when the catalog row is gone.
type OrderLine struct {
	ID        int     `json:"id"`
	OrderID   int     `json:"order_id"`
	Ref       ItemRef `json:"ref"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	ItemName  string  `json:"item_name,omitempty"`
	ItemPhoto string  `json:"item_photo,omitempty"`
}
