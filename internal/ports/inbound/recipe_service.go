package inbound

import (
	"context"
	"time"
)

// CatalogService defines the use cases for recipe management
type CatalogService interface {
	// Commands
	CreateRecipe(ctx context.Context, cmd SaveRecipeCommand) (*RecipeDTO, error)
	UpdateRecipe(ctx context.Context, id uint, cmd SaveRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, id uint) error

	// Queries
	GetRecipe(ctx context.Context, id uint) (*RecipeDTO, error)
	ListRecipes(ctx context.Context) ([]RecipeSummaryDTO, error)
	ListBySlot(ctx context.Context, slot string) ([]RecipeDTO, error)
	SearchRecipes(ctx context.Context, query SearchRecipesQuery) ([]RecipeSummaryDTO, error)
	ProductsInUse(ctx context.Context) (map[string]string, error)
}

// SaveRecipeCommand creates a recipe or fully replaces an existing one.
// The meal slot is ignored on update.
type SaveRecipeCommand struct {
	Name         string            `json:"name" validate:"required,max=200"`
	MealSlot     string            `json:"meal_slot" validate:"omitempty,meal_slot"`
	IsReady      bool              `json:"is_ready"`
	Ingredients  []IngredientInput `json:"ingredients" validate:"required,min=1,dive"`
	Instructions []string          `json:"instructions"`
}

// IngredientInput is one ingredient line of a recipe
type IngredientInput struct {
	Product string  `json:"product" validate:"required,max=100"`
	Amount  float64 `json:"amount" validate:"gte=0"`
	Unit    string  `json:"unit" validate:"required,max=30"`
	Kind    string  `json:"kind" validate:"omitempty,product_kind"`
}

// SearchRecipesQuery filters recipes by name and slot
type SearchRecipesQuery struct {
	Query    string `json:"q" validate:"max=200"`
	MealSlot string `json:"slot" validate:"omitempty,meal_slot"`
}

// RecipeDTO is a recipe as shown to clients
type RecipeDTO struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	MealSlot     string          `json:"meal_slot"`
	IsReady      bool            `json:"is_ready"`
	Ingredients  []IngredientDTO `json:"ingredients"`
	Instructions []string        `json:"instructions"`
	CreatedAt    time.Time       `json:"created_at"`
}

// IngredientDTO is an ingredient as shown to clients
type IngredientDTO struct {
	Product string  `json:"product"`
	Amount  float64 `json:"amount"`
	Unit    string  `json:"unit"`
	Kind    string  `json:"kind"`
}

// RecipeSummaryDTO is the catalog listing entry
type RecipeSummaryDTO struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	MealSlot        string    `json:"meal_slot"`
	IsReady         bool      `json:"is_ready"`
	IngredientCount int       `json:"ingredient_count"`
	CreatedAt       time.Time `json:"created_at"`
}
