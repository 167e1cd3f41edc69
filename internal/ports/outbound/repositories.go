// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"

	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/multivarka/kitchen/internal/domain/shared"
)

// PantryRepository persists pantry products. Every mutating method is one
// atomic logical operation; implementations serialize them.
type PantryRepository interface {
	// Load returns a snapshot of every product
	Load(ctx context.Context) (pantry.Snapshot, error)
	// Save replaces the whole pantry with the snapshot
	Save(ctx context.Context, snapshot pantry.Snapshot) error
	// Find returns pantry.ErrProductNotFound when the product is absent
	Find(ctx context.Context, name string) (*pantry.Product, error)
	// Insert returns pantry.ErrProductExists when the product is present
	Insert(ctx context.Context, product pantry.Product) error
	IncrementOrInsert(ctx context.Context, add pantry.Addition) (pantry.Product, error)

	// The following report false when the product does not exist
	SetQuantity(ctx context.Context, name string, quantity float64) (bool, error)
	SetExpiration(ctx context.Context, name string, expiration string) (bool, error)
	Delete(ctx context.Context, name string) (bool, error)

	// Update runs fn against a snapshot inside the store's critical section
	// and persists the snapshot fn leaves behind. Nothing is written when fn
	// fails.
	Update(ctx context.Context, fn func(snapshot pantry.Snapshot) error) error
}

// RecipeRepository persists the recipe catalog
type RecipeRepository interface {
	// ListBySlot returns recipes of a slot, newest first
	ListBySlot(ctx context.Context, slot recipe.MealSlot) ([]recipe.Recipe, error)
	// List returns every recipe, newest first
	List(ctx context.Context) ([]recipe.Recipe, error)
	// FindByID returns recipe.ErrRecipeNotFound when absent
	FindByID(ctx context.Context, id uint) (*recipe.Recipe, error)
	// Create stores the recipe and assigns its ID
	Create(ctx context.Context, r *recipe.Recipe) (uint, error)
	// Update replaces name, ready flag, ingredients and instructions
	Update(ctx context.Context, r *recipe.Recipe) (bool, error)
	// Delete removes the recipe with its ingredients and instructions
	Delete(ctx context.Context, id uint) (bool, error)
	// Search matches name substrings case-insensitively; an empty slot
	// searches every slot
	Search(ctx context.Context, query string, slot recipe.MealSlot) ([]recipe.Recipe, error)
}

// MenuMutation receives the stored menu (nil when none exists) and returns
// the menu to store. Returning nil keeps the stored menu as it is.
type MenuMutation func(current *menu.CurrentMenu) (*menu.CurrentMenu, error)

// MenuRepository persists the singleton current menu as one blob
type MenuRepository interface {
	// Load returns nil without error when no menu exists
	Load(ctx context.Context) (*menu.CurrentMenu, error)
	Save(ctx context.Context, m *menu.CurrentMenu) error
	// Clear reports whether a menu was removed
	Clear(ctx context.Context) (bool, error)
	// Update performs an atomic read-modify-write and returns the menu that
	// is stored afterwards
	Update(ctx context.Context, fn MenuMutation) (*menu.CurrentMenu, error)
}

// EventPublisher delivers domain events after successful writes
type EventPublisher interface {
	Publish(ctx context.Context, events ...shared.DomainEvent)
}
