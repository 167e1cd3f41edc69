package inbound

import (
	"context"
	"time"
)

// MenuService defines the use cases around the current daily menu
type MenuService interface {
	// CurrentMenu returns the stored menu, assembling a random one first
	// when none exists
	CurrentMenu(ctx context.Context) (*MenuDTO, error)
	// RefreshMenu discards the stored menu and assembles a random one
	RefreshMenu(ctx context.Context) (*MenuDTO, error)
	ClearMenu(ctx context.Context) error

	// PreviewOptimizedMenu computes the cheapest menu without storing it
	PreviewOptimizedMenu(ctx context.Context) (*MenuDTO, error)
	// OptimizeMenu computes the cheapest menu and stores it
	OptimizeMenu(ctx context.Context) (*OptimizeResult, error)

	ReplaceSlot(ctx context.Context, slot string) (*SlotResult, error)
	ToggleSkip(ctx context.Context, slot string) (*SlotResult, error)
	CookMeal(ctx context.Context, slot string) (*CookResult, error)

	ShoppingList(ctx context.Context) (*ShoppingListDTO, error)
}

// MenuDTO is the current menu in daily slot order
type MenuDTO struct {
	Meals     []MealDTO `json:"meals"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MealDTO is one slot of the menu
type MealDTO struct {
	MealSlot    string    `json:"meal_slot"`
	Title       string    `json:"title"`
	Recipe      RecipeDTO `json:"recipe"`
	SkipCooking bool      `json:"skip_cooking"`
}

// NeedDTO is one shopping list line
type NeedDTO struct {
	Product string  `json:"product"`
	Need    float64 `json:"need"`
	Unit    string  `json:"unit"`
	Have    float64 `json:"have"`
	Kind    string  `json:"kind"`
}

// ShoppingListDTO lists the purchases the menu requires
type ShoppingListDTO struct {
	Items     []NeedDTO `json:"items"`
	TotalNeed float64   `json:"total_need"`
}

// OptimizeResult is returned after the optimized menu was stored
type OptimizeResult struct {
	Menu         MenuDTO         `json:"menu"`
	ShoppingList ShoppingListDTO `json:"shopping_list"`
	Message      string          `json:"message"`
}

// SlotResult is returned after a single slot changed
type SlotResult struct {
	Meal         MealDTO         `json:"meal"`
	ShoppingList ShoppingListDTO `json:"shopping_list"`
	Message      string          `json:"message"`
}

// CookResult is returned after a meal was cooked
type CookResult struct {
	MealSlot string       `json:"meal_slot"`
	Dish     string       `json:"dish"`
	Skipped  bool         `json:"skipped"`
	Updated  []ProductDTO `json:"updated_products"`
	Message  string       `json:"message"`
}
