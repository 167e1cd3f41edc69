package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/multivarka/kitchen/internal/ports/inbound"
	"github.com/multivarka/kitchen/pkg/errors"
)

// ListRecipes handles GET /api/recipes; q or slot switch it to a search
func (h *APIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	query := inbound.SearchRecipesQuery{
		Query:    r.URL.Query().Get("q"),
		MealSlot: r.URL.Query().Get("slot"),
	}

	var (
		recipes []inbound.RecipeSummaryDTO
		err     error
	)
	if query.Query == "" && query.MealSlot == "" {
		recipes, err = h.catalog.ListRecipes(r.Context())
	} else {
		recipes, err = h.catalog.SearchRecipes(r.Context(), query)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, recipes, "")
}

// CreateRecipe handles POST /api/recipes
func (h *APIHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.SaveRecipeCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	recipe, err := h.catalog.CreateRecipe(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, recipe, "Recipe created")
}

// GetRecipe handles GET /api/recipes/{id}
func (h *APIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	recipe, err := h.catalog.GetRecipe(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, recipe, "")
}

// UpdateRecipe handles PUT /api/recipes/{id}
func (h *APIHandlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recipeID(w, r)
	if !ok {
		return
	}
	var cmd inbound.SaveRecipeCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	recipe, err := h.catalog.UpdateRecipe(r.Context(), id, cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, recipe, "Recipe updated")
}

// DeleteRecipe handles DELETE /api/recipes/{id}
func (h *APIHandlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteRecipe(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, nil, "Recipe deleted")
}

// ProductsInUse handles GET /api/recipes/products
func (h *APIHandlers) ProductsInUse(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ProductsInUse(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, products, "")
}

func (h *APIHandlers) recipeID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		h.fail(w, r, badRequest("Invalid recipe id: "+raw, err))
		return 0, false
	}
	return uint(id), true
}

func badRequest(message string, cause error) *errors.AppError {
	appErr := errors.NewBadRequestError(message)
	if cause != nil {
		appErr = appErr.WithCause(cause)
	}
	return appErr
}
