package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alextreichler/localcart/internal/models"
	"github.com/alextreichler/localcart/internal/requestctx"
	"github.com/alextreichler/localcart/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type CartHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
}

// parseQuantity validates the untrusted quantity field. Absent means 1;
// anything non-numeric or non-positive is rejected before any mutation.
func parseQuantity(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	q, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("quantity must be a number, got %q", raw)
	}
	if q <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %d", q)
	}
	return q, nil
}

// AddToCart handles POST /add_to_cart and answers JSON for the storefront
// scripts. Adding an item already in the cart bumps its quantity.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	kind, err := models.ParseItemKind(r.FormValue("item_type"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid item type")
		return
	}
	itemID, err := strconv.Atoi(r.FormValue("item_id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	quantity, err := parseQuantity(r.FormValue("quantity"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.AddToCart(userID, models.ItemRef{Kind: kind, ID: itemID}, quantity); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to add item to cart")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())

	lines, total, err := h.Store.GetCartView(userID)
	if err != nil {
		http.Error(w, "Error fetching cart", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("cart.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Lines":     lines,
		"Total":     total,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid cart item."})
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	switch err := h.Store.RemoveCartItem(userID, id); {
	case errors.Is(err, store.ErrUnauthorized):
		session.AddFlash(FlashMessage{Type: "error", Message: "That item is not in your cart."})
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	case errors.Is(err, store.ErrNotFound):
		session.AddFlash(FlashMessage{Type: "error", Message: "Cart item not found."})
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	case err != nil:
		session.AddFlash(FlashMessage{Type: "error", Message: "Error removing item."})
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	default:
		session.AddFlash(FlashMessage{Type: "success", Message: "Item removed from cart!"})
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}
