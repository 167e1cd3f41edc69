// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/multivarka/kitchen/internal/ports/inbound"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	faker        *gofakeit.Faker
	name         string
	slot         recipe.MealSlot
	isReady      bool
	ingredients  []recipe.Ingredient
	instructions []string
}

// NewRecipeBuilder creates a builder with a random name and two cooking steps
func NewRecipeBuilder(seed int64) *RecipeBuilder {
	faker := gofakeit.New(seed)

	return &RecipeBuilder{
		faker:        faker,
		name:         faker.Dinner(),
		slot:         recipe.MealSlotLunch,
		instructions: []string{faker.Sentence(6), faker.Sentence(4)},
	}
}

// WithName sets the recipe name
func (rb *RecipeBuilder) WithName(name string) *RecipeBuilder {
	rb.name = name
	return rb
}

// WithSlot sets the meal slot
func (rb *RecipeBuilder) WithSlot(slot recipe.MealSlot) *RecipeBuilder {
	rb.slot = slot
	return rb
}

// Ready marks the recipe as ready-made food
func (rb *RecipeBuilder) Ready() *RecipeBuilder {
	rb.isReady = true
	return rb
}

// WithQuantity adds a quantity-tracked ingredient
func (rb *RecipeBuilder) WithQuantity(product string, amount float64, unit string) *RecipeBuilder {
	rb.ingredients = append(rb.ingredients, recipe.Ingredient{
		Product: product, Amount: amount, Unit: unit, Kind: pantry.KindQuantity,
	})
	return rb
}

// WithAvailability adds an availability-tracked ingredient
func (rb *RecipeBuilder) WithAvailability(product, unit string) *RecipeBuilder {
	rb.ingredients = append(rb.ingredients, recipe.Ingredient{
		Product: product, Amount: 1, Unit: unit, Kind: pantry.KindAvailability,
	})
	return rb
}

// WithRandomIngredients adds n quantity ingredients with generated names
func (rb *RecipeBuilder) WithRandomIngredients(n int) *RecipeBuilder {
	for i := 0; i < n; i++ {
		rb.WithQuantity(
			fmt.Sprintf("%s-%d", rb.faker.Vegetable(), i),
			float64(rb.faker.Number(1, 500)),
			rb.faker.RandomString([]string{"g", "ml", "pcs"}),
		)
	}
	return rb
}

// Build creates a validated recipe entity
func (rb *RecipeBuilder) Build() *recipe.Recipe {
	if len(rb.ingredients) == 0 {
		rb.WithRandomIngredients(2)
	}
	r, err := recipe.NewRecipe(rb.name, rb.slot, rb.isReady, rb.ingredients, rb.instructions)
	if err != nil {
		panic(fmt.Sprintf("invalid test recipe: %v", err))
	}
	return r
}

// Command renders the builder as a save command
func (rb *RecipeBuilder) Command() inbound.SaveRecipeCommand {
	r := rb.Build()
	ingredients := make([]inbound.IngredientInput, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, inbound.IngredientInput{
			Product: ing.Product,
			Amount:  ing.Amount,
			Unit:    ing.Unit,
			Kind:    string(ing.Kind),
		})
	}
	return inbound.SaveRecipeCommand{
		Name:         r.Name,
		MealSlot:     string(r.MealSlot),
		IsReady:      r.IsReady,
		Ingredients:  ingredients,
		Instructions: r.Instructions,
	}
}

// ProductFactory creates pantry products
type ProductFactory struct {
	faker *gofakeit.Faker
}

// NewProductFactory creates a new product factory with seeded faker
func NewProductFactory(seed int64) *ProductFactory {
	return &ProductFactory{faker: gofakeit.New(seed)}
}

// Quantity creates an in-stock quantity product with a generated name
func (f *ProductFactory) Quantity() pantry.Product {
	return pantry.Product{
		Name:     fmt.Sprintf("%s %s", f.faker.Adjective(), f.faker.Fruit()),
		Quantity: float64(f.faker.Number(1, 1000)),
		Unit:     f.faker.RandomString([]string{"g", "ml", "pcs"}),
		Kind:     pantry.KindQuantity,
	}
}

// Snapshot creates n products keyed by name
func (f *ProductFactory) Snapshot(n int) pantry.Snapshot {
	snap := make(pantry.Snapshot, n)
	for len(snap) < n {
		p := f.Quantity()
		snap[p.Name] = p
	}
	return snap
}
