package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CurrentMenu handles GET /api/menu
func (h *APIHandlers) CurrentMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menu.CurrentMenu(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, menu, "")
}

// ClearMenu handles DELETE /api/menu
func (h *APIHandlers) ClearMenu(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.ClearMenu(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, nil, "Menu cleared")
}

// RefreshMenu handles POST /api/menu/refresh
func (h *APIHandlers) RefreshMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menu.RefreshMenu(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, menu, "Menu refreshed")
}

// PreviewOptimizedMenu handles GET /api/menu/optimize/preview
func (h *APIHandlers) PreviewOptimizedMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menu.PreviewOptimizedMenu(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, menu, "")
}

// OptimizeMenu handles POST /api/menu/optimize
func (h *APIHandlers) OptimizeMenu(w http.ResponseWriter, r *http.Request) {
	result, err := h.menu.OptimizeMenu(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, result, result.Message)
}

// ReplaceSlot handles POST /api/menu/slots/{slot}/replace
func (h *APIHandlers) ReplaceSlot(w http.ResponseWriter, r *http.Request) {
	result, err := h.menu.ReplaceSlot(r.Context(), chi.URLParam(r, "slot"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, result, result.Message)
}

// ToggleSkip handles POST /api/menu/slots/{slot}/skip
func (h *APIHandlers) ToggleSkip(w http.ResponseWriter, r *http.Request) {
	result, err := h.menu.ToggleSkip(r.Context(), chi.URLParam(r, "slot"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, result, result.Message)
}

// CookMeal handles POST /api/menu/slots/{slot}/cook
func (h *APIHandlers) CookMeal(w http.ResponseWriter, r *http.Request) {
	result, err := h.menu.CookMeal(r.Context(), chi.URLParam(r, "slot"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, result, result.Message)
}

// ShoppingList handles GET /api/menu/shopping-list
func (h *APIHandlers) ShoppingList(w http.ResponseWriter, r *http.Request) {
	list, err := h.menu.ShoppingList(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, list, "")
}
