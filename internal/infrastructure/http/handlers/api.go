// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/infrastructure/monitoring"
	"github.com/multivarka/kitchen/internal/ports/inbound"
	"github.com/multivarka/kitchen/pkg/errors"
)

// maxBodyBytes bounds request bodies; a full pantry import is the largest
const maxBodyBytes = 1 << 20

// APIHandlers handles REST API requests
type APIHandlers struct {
	pantry  inbound.PantryService
	catalog inbound.CatalogService
	menu    inbound.MenuService
	logger  *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(
	pantry inbound.PantryService,
	catalog inbound.CatalogService,
	menu inbound.MenuService,
	logger *zap.Logger,
) *APIHandlers {
	return &APIHandlers{
		pantry:  pantry,
		catalog: catalog,
		menu:    menu,
		logger:  logger.Named("api"),
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool                 `json:"success"`
	Data    interface{}          `json:"data,omitempty"`
	Message string               `json:"message,omitempty"`
	Error   *errors.ErrorDetails `json:"error,omitempty"`
}

func (h *APIHandlers) ok(w http.ResponseWriter, status int, data interface{}, message string) {
	h.writeJSON(w, status, APIResponse{Success: true, Data: data, Message: message})
}

// fail maps err onto the envelope; anything that is not an AppError is
// reported as an internal error without leaking its text
func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "Internal server error")
	log := monitoring.LoggerFromContext(r.Context(), h.logger)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.String("path", r.URL.Path), zap.String("code", string(appErr.Code)))
	}

	details := errors.ToErrorResponse(appErr, monitoring.RequestIDFromContext(r.Context())).Error
	h.writeJSON(w, appErr.StatusCode(), APIResponse{Error: &details})
}

// decode reads a JSON body into v, rejecting unknown fields
func (h *APIHandlers) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		msg := "Invalid JSON body"
		if err == io.EOF {
			msg = "Request body is required"
		}
		h.fail(w, r, errors.NewBadRequestError(msg).WithCause(err))
		return false
	}
	return true
}

// writeJSON writes a JSON response
func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// Routes mounts the REST API on r
func (h *APIHandlers) Routes(r chi.Router) {
	r.Route("/pantry", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Put("/", h.ImportPantry)
		r.Post("/purchases", h.BuyProduct)
		r.Post("/sync", h.SyncPantry)
		r.Post("/seed", h.SeedPantry)
		r.Post("/products", h.CreateProduct)
		r.Get("/products/{name}", h.GetProduct)
		r.Put("/products/{name}", h.UpdateProduct)
		r.Delete("/products/{name}", h.DeleteProduct)
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.ListRecipes)
		r.Post("/", h.CreateRecipe)
		r.Get("/products", h.ProductsInUse)
		r.Get("/{id}", h.GetRecipe)
		r.Put("/{id}", h.UpdateRecipe)
		r.Delete("/{id}", h.DeleteRecipe)
	})

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", h.CurrentMenu)
		r.Delete("/", h.ClearMenu)
		r.Post("/refresh", h.RefreshMenu)
		r.Get("/optimize/preview", h.PreviewOptimizedMenu)
		r.Post("/optimize", h.OptimizeMenu)
		r.Get("/shopping-list", h.ShoppingList)
		r.Post("/slots/{slot}/replace", h.ReplaceSlot)
		r.Post("/slots/{slot}/skip", h.ToggleSkip)
		r.Post("/slots/{slot}/cook", h.CookMeal)
	})
}
