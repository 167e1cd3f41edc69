// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import "context"

// PantryService defines the use cases for the household pantry
type PantryService interface {
	// Commands
	CreateProduct(ctx context.Context, cmd CreateProductCommand) (*ProductDTO, error)
	BuyProduct(ctx context.Context, cmd BuyProductCommand) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, name string) error
	ImportPantry(ctx context.Context, cmd ImportPantryCommand) (*PantryView, error)
	SyncWithRecipes(ctx context.Context) (*SyncReport, error)
	SeedDefaults(ctx context.Context) (int, error)

	// Queries
	ListProducts(ctx context.Context) (*PantryView, error)
	GetProduct(ctx context.Context, name string) (*ProductDTO, error)
}

// CreateProductCommand registers a new, empty product
type CreateProductCommand struct {
	Name           string `json:"name" validate:"required,max=100"`
	Unit           string `json:"unit" validate:"required,max=30"`
	Kind           string `json:"kind" validate:"omitempty,product_kind"`
	ExpirationDate string `json:"expiration_date" validate:"omitempty,kitchen_date"`
}

// BuyProductCommand records a purchase; it increments an existing product
// or inserts a new one
type BuyProductCommand struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Quantity       float64 `json:"quantity" validate:"gte=0"`
	Unit           string  `json:"unit" validate:"required,max=30"`
	Kind           string  `json:"kind" validate:"omitempty,product_kind"`
	ExpirationDate string  `json:"expiration_date" validate:"omitempty,kitchen_date"`
}

// UpdateProductCommand overwrites the quantity and/or expiration date
type UpdateProductCommand struct {
	Name     string   `validate:"required"`
	Quantity *float64 `validate:"omitempty,gte=0"`
	// SetExpiration marks ExpirationDate as provided; a nil date clears it
	SetExpiration  bool
	ExpirationDate *string
}

// ImportPantryCommand replaces the whole pantry
type ImportPantryCommand struct {
	Products []ProductInput `json:"products" validate:"dive"`
}

// ProductInput is one product in an import
type ProductInput struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Quantity       float64 `json:"quantity" validate:"gte=0"`
	Unit           string  `json:"unit" validate:"required,max=30"`
	Kind           string  `json:"kind" validate:"omitempty,product_kind"`
	ExpirationDate string  `json:"expiration_date" validate:"omitempty,kitchen_date"`
}

// ProductDTO is a pantry product as shown to clients
type ProductDTO struct {
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	Kind           string  `json:"kind"`
	ExpirationDate string  `json:"expiration_date,omitempty"`
	Status         string  `json:"expiration_status"`
	DaysLeft       *int    `json:"days_left,omitempty"`
}

// PantryView lists products sorted by name
type PantryView struct {
	Products []ProductDTO `json:"products"`
	Total    int          `json:"total"`
}

// SyncReport lists what a pantry sync changed
type SyncReport struct {
	Removed      []string     `json:"removed"`
	Added        []string     `json:"added"`
	UnitsChanged []UnitChange `json:"units_changed"`
	KindsChanged []string     `json:"kinds_changed"`
}

// UnitChange records a unit update made by a sync
type UnitChange struct {
	Product string `json:"product"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// Changed reports whether the sync modified anything
func (r SyncReport) Changed() bool {
	return len(r.Removed)+len(r.Added)+len(r.UnitsChanged)+len(r.KindsChanged) > 0
}
