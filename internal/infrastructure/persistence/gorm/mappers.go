package gorm

import (
	"sort"

	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
)

// ProductToModel converts a domain product to a GORM model
func ProductToModel(p pantry.Product) *ProductModel {
	model := &ProductModel{
		Name:     p.Name,
		Quantity: p.Quantity,
		Unit:     p.Unit,
		Kind:     string(p.Kind),
	}
	if p.Expiration != "" {
		exp := p.Expiration
		model.ExpirationDate = &exp
	}
	return model
}

// ModelToProduct converts a GORM model to a domain product
func ModelToProduct(model *ProductModel) pantry.Product {
	p := pantry.Product{
		Name:     model.Name,
		Quantity: model.Quantity,
		Unit:     model.Unit,
		Kind:     pantry.Kind(model.Kind),
	}
	if p.Kind == "" {
		p.Kind = pantry.KindQuantity
	}
	if model.ExpirationDate != nil {
		p.Expiration = *model.ExpirationDate
	}
	return p
}

// RecipeToModel converts a domain recipe to a GORM model with its children
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	model := &RecipeModel{
		ID:        r.ID,
		Name:      r.Name,
		MealSlot:  string(r.MealSlot),
		IsReady:   r.IsReady,
		CreatedAt: r.CreatedAt,
	}
	model.Ingredients = ingredientModels(r)
	model.Instructions = instructionModels(r)
	return model
}

func ingredientModels(r *recipe.Recipe) []IngredientModel {
	out := make([]IngredientModel, 0, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		out = append(out, IngredientModel{
			RecipeID: r.ID,
			Position: i,
			Product:  ing.Product,
			Amount:   ing.Amount,
			Unit:     ing.Unit,
			Kind:     string(ing.Kind),
		})
	}
	return out
}

func instructionModels(r *recipe.Recipe) []InstructionModel {
	out := make([]InstructionModel, 0, len(r.Instructions))
	for i, text := range r.Instructions {
		out = append(out, InstructionModel{RecipeID: r.ID, Step: i + 1, Text: text})
	}
	return out
}

// ModelToRecipe converts a GORM model with preloaded children to a domain recipe
func ModelToRecipe(model *RecipeModel) recipe.Recipe {
	ingredients := append([]IngredientModel(nil), model.Ingredients...)
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i].Position < ingredients[j].Position })

	instructions := append([]InstructionModel(nil), model.Instructions...)
	sort.Slice(instructions, func(i, j int) bool { return instructions[i].Step < instructions[j].Step })

	r := recipe.Recipe{
		ID:           model.ID,
		Name:         model.Name,
		MealSlot:     recipe.MealSlot(model.MealSlot),
		IsReady:      model.IsReady,
		Ingredients:  make([]recipe.Ingredient, 0, len(ingredients)),
		Instructions: make([]string, 0, len(instructions)),
		CreatedAt:    model.CreatedAt.UTC(),
	}
	for _, ing := range ingredients {
		kind := pantry.Kind(ing.Kind)
		if kind == "" {
			kind = pantry.KindQuantity
		}
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{
			Product: ing.Product,
			Amount:  ing.Amount,
			Unit:    ing.Unit,
			Kind:    kind,
		})
	}
	for _, step := range instructions {
		r.Instructions = append(r.Instructions, step.Text)
	}
	return r
}
