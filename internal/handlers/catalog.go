package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/alextreichler/localcart/internal/models"
	"github.com/alextreichler/localcart/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type CatalogHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
}

func (h *CatalogHandler) Services(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, models.KindService, "services.html")
}

func (h *CatalogHandler) Menu(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, models.KindMenu, "menu.html")
}

func (h *CatalogHandler) listing(w http.ResponseWriter, r *http.Request, kind models.ItemKind, templateName string) {
	items, err := h.Store.GetActiveItems(kind)
	if err != nil {
		http.Error(w, "Error fetching items", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get(templateName)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Items":     items,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// ItemDetails serves /get_item_details/{kind}/{id} as JSON. Lookup here is
// unfiltered: an inactive item still resolves, only a deleted one 404s.
func (h *CatalogHandler) ItemDetails(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseItemKind(r.PathValue("kind"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid item type")
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Store.ResolveItem(models.ItemRef{Kind: kind, ID: id})
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":           item.Name,
		"photo":          item.Photo,
		"original_price": item.OriginalPrice,
		"discount":       item.Discount,
		"final_price":    item.FinalPrice,
		"description":    item.Description,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
