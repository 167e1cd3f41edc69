package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrNameRequired     = errors.New("recipe name is required")
	ErrNameTooLong      = errors.New("recipe name must not exceed 200 characters")
	ErrInvalidMealSlot  = errors.New("meal slot must be one of breakfast, second_breakfast, lunch, snack, dinner")
	ErrNoIngredients    = errors.New("recipe must have at least one ingredient")
	ErrNegativeAmount   = errors.New("ingredient amount cannot be negative")
	ErrIngredientName   = errors.New("ingredient product is required")
	ErrIngredientUnit   = errors.New("ingredient unit is required")
	ErrIngredientKind   = errors.New("ingredient kind must be quantity or availability")
	ErrEmptyInstruction = errors.New("instruction text is required")

	// Lookup errors
	ErrRecipeNotFound = errors.New("recipe not found")
)
