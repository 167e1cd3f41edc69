package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/multivarka/kitchen/internal/ports/inbound"
)

// ListProducts handles GET /api/pantry
func (h *APIHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	view, err := h.pantry.ListProducts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, view, "")
}

// ImportPantry handles PUT /api/pantry
func (h *APIHandlers) ImportPantry(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.ImportPantryCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	view, err := h.pantry.ImportPantry(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, view, fmt.Sprintf("Pantry replaced with %d products", view.Total))
}

// GetProduct handles GET /api/pantry/products/{name}
func (h *APIHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.pantry.GetProduct(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, product, "")
}

// CreateProduct handles POST /api/pantry/products
func (h *APIHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.CreateProductCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	product, err := h.pantry.CreateProduct(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, product, "Product created")
}

// BuyProduct handles POST /api/pantry/purchases
func (h *APIHandlers) BuyProduct(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.BuyProductCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	product, err := h.pantry.BuyProduct(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, product, "Purchase recorded")
}

// updateProductRequest keeps expiration_date raw so an explicit null can be
// told apart from an absent field
type updateProductRequest struct {
	Quantity       *float64        `json:"quantity"`
	ExpirationDate json.RawMessage `json:"expiration_date"`
}

// UpdateProduct handles PUT /api/pantry/products/{name}
func (h *APIHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	cmd := inbound.UpdateProductCommand{
		Name:     chi.URLParam(r, "name"),
		Quantity: req.Quantity,
	}
	if len(req.ExpirationDate) > 0 {
		cmd.SetExpiration = true
		if string(req.ExpirationDate) != "null" {
			var date string
			if err := json.Unmarshal(req.ExpirationDate, &date); err != nil {
				h.fail(w, r, badRequest("expiration_date must be a string or null", err))
				return
			}
			cmd.ExpirationDate = &date
		}
	}

	product, err := h.pantry.UpdateProduct(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, product, "Product updated")
}

// DeleteProduct handles DELETE /api/pantry/products/{name}
func (h *APIHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.pantry.DeleteProduct(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, nil, "Product deleted")
}

// SyncPantry handles POST /api/pantry/sync
func (h *APIHandlers) SyncPantry(w http.ResponseWriter, r *http.Request) {
	report, err := h.pantry.SyncWithRecipes(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	message := "Pantry already matches the recipes"
	if report.Changed() {
		message = fmt.Sprintf("Pantry synced: %d added, %d removed, %d units changed, %d kinds changed",
			len(report.Added), len(report.Removed), len(report.UnitsChanged), len(report.KindsChanged))
	}
	h.ok(w, http.StatusOK, report, message)
}

// SeedPantry handles POST /api/pantry/seed
func (h *APIHandlers) SeedPantry(w http.ResponseWriter, r *http.Request) {
	added, err := h.pantry.SeedDefaults(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, map[string]int{"added": added}, fmt.Sprintf("%d default products added", added))
}
