package handlers

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alextreichler/localcart/internal/requestctx"
	"github.com/alextreichler/localcart/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type OrderHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
}

func generateOrderRef() string {
	// 8 chars alphanumeric (uppercase); I, O, 1, 0 removed to avoid confusion
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "ORD" + strconv.FormatInt(time.Now().Unix(), 10)
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

func (h *OrderHandler) CheckoutForm(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())

	user, err := h.Store.GetUserByID(userID)
	if err != nil || user == nil {
		http.Error(w, "Error fetching user", http.StatusInternalServerError)
		return
	}
	lines, total, err := h.Store.GetCartView(userID)
	if err != nil {
		http.Error(w, "Error fetching cart", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("order_form.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"User":      user,
		"Lines":     lines,
		"Total":     total,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	if err := r.ParseForm(); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid form data."})
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	deliveryLocation := r.FormValue("delivery_location")
	paymentMode := r.FormValue("payment_mode")

	formErrors := make(map[string]string)
	if deliveryLocation == "" {
		formErrors["delivery_location"] = "Delivery location is required."
	}
	if paymentMode == "" {
		formErrors["payment_mode"] = "Payment mode is required."
	}
	if len(formErrors) > 0 {
		for _, msg := range formErrors {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	order, err := h.Store.PlaceOrder(userID, generateOrderRef(), deliveryLocation, paymentMode)
	if errors.Is(err, store.ErrEmptyCart) {
		session.AddFlash(FlashMessage{Type: "error", Message: "Your cart is empty!"})
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("Failed to place order", "user_id", userID, "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Failed to place order. Please try again."})
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	slog.Info("Order placed", "user_id", userID, "order_ref", order.OrderRef, "total", order.TotalAmount, "lines", len(order.Lines))
	session.AddFlash(FlashMessage{Type: "success", Message: "Order placed successfully!"})
	http.Redirect(w, r, "/order_history", http.StatusSeeOther)
}

func (h *OrderHandler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())

	orders, err := h.Store.GetOrders(userID)
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("order_history.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Orders":  orders,
		"Flashes": GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
