// Package recipe contains the recipe catalog domain: recipes tagged by
// meal slot with their ingredient requirements and cooking steps.
package recipe

import (
	"strings"
	"time"
)

const maxNameLength = 200

// Recipe is a dish in the catalog. Recipes change only through explicit
// catalog operations.
type Recipe struct {
	ID           uint         `json:"id"`
	Name         string       `json:"name"`
	MealSlot     MealSlot     `json:"meal_slot"`
	IsReady      bool         `json:"is_ready"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	CreatedAt    time.Time    `json:"created_at"`
}

// NewRecipe creates a validated recipe. Ingredient text is trimmed and
// blank instruction lines are dropped.
func NewRecipe(name string, slot MealSlot, isReady bool, ingredients []Ingredient, instructions []string) (*Recipe, error) {
	r := &Recipe{
		Name:      strings.TrimSpace(name),
		MealSlot:  slot,
		IsReady:   isReady,
		CreatedAt: time.Now(),
	}
	if err := r.Replace(r.Name, isReady, ingredients, instructions); err != nil {
		return nil, err
	}
	return r, nil
}

// Replace overwrites the editable content of the recipe. The meal slot and
// identity are kept.
func (r *Recipe) Replace(name string, isReady bool, ingredients []Ingredient, instructions []string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	if !r.MealSlot.IsValid() {
		return ErrInvalidMealSlot
	}
	if len(ingredients) == 0 {
		return ErrNoIngredients
	}

	cleaned := make([]Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if err := ing.Validate(); err != nil {
			return err
		}
		cleaned = append(cleaned, ing.normalized())
	}

	r.Name = name
	r.IsReady = isReady
	r.Ingredients = cleaned
	r.Instructions = cleanInstructions(instructions)
	return nil
}

// Validate checks the recipe invariants
func (r *Recipe) Validate() error {
	if err := validateName(r.Name); err != nil {
		return err
	}
	if !r.MealSlot.IsValid() {
		return ErrInvalidMealSlot
	}
	if len(r.Ingredients) == 0 {
		return ErrNoIngredients
	}
	for _, ing := range r.Ingredients {
		if err := ing.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy, used when a recipe is snapshotted into a menu
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	out.Instructions = append([]string(nil), r.Instructions...)
	return out
}

// ProductUnits collects the distinct products used across recipes with
// the unit the catalog uses for each. Later recipes win on conflicts.
func ProductUnits(recipes []Recipe) map[string]string {
	units := make(map[string]string)
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			units[ing.Product] = ing.Unit
		}
	}
	return units
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if len([]rune(name)) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func cleanInstructions(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
