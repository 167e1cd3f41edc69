package common

import (
	"time"

	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/planning"
	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/multivarka/kitchen/internal/ports/inbound"
)

// ProductToDTO converts a product, computing its expiration status for today
func ProductToDTO(p pantry.Product, today time.Time) inbound.ProductDTO {
	dto := inbound.ProductDTO{
		Name:           p.Name,
		Quantity:       p.Quantity,
		Unit:           p.Unit,
		Kind:           string(p.Kind),
		ExpirationDate: p.Expiration,
		Status:         string(pantry.ExpirationStatus(p.Expiration, today)),
	}
	if days, ok := pantry.DaysUntil(p.Expiration, today); ok {
		dto.DaysLeft = &days
	}
	return dto
}

// ProductsToDTO converts products in order
func ProductsToDTO(products []pantry.Product, today time.Time) []inbound.ProductDTO {
	out := make([]inbound.ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, ProductToDTO(p, today))
	}
	return out
}

// RecipeToDTO converts a recipe with its ingredients and instructions
func RecipeToDTO(r recipe.Recipe) inbound.RecipeDTO {
	ingredients := make([]inbound.IngredientDTO, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, inbound.IngredientDTO{
			Product: ing.Product,
			Amount:  ing.Amount,
			Unit:    ing.Unit,
			Kind:    string(ing.Kind),
		})
	}

	instructions := make([]string, len(r.Instructions))
	copy(instructions, r.Instructions)

	return inbound.RecipeDTO{
		ID:           r.ID,
		Name:         r.Name,
		MealSlot:     string(r.MealSlot),
		IsReady:      r.IsReady,
		Ingredients:  ingredients,
		Instructions: instructions,
		CreatedAt:    r.CreatedAt,
	}
}

// RecipeToSummary converts a recipe to a listing entry
func RecipeToSummary(r recipe.Recipe) inbound.RecipeSummaryDTO {
	return inbound.RecipeSummaryDTO{
		ID:              r.ID,
		Name:            r.Name,
		MealSlot:        string(r.MealSlot),
		IsReady:         r.IsReady,
		IngredientCount: len(r.Ingredients),
		CreatedAt:       r.CreatedAt,
	}
}

// MealToDTO converts one menu selection
func MealToDTO(sel menu.MealSelection) inbound.MealDTO {
	return inbound.MealDTO{
		MealSlot:    string(sel.MealSlot),
		Title:       sel.MealSlot.Title(),
		Recipe:      RecipeToDTO(sel.Recipe),
		SkipCooking: sel.SkipCooking,
	}
}

// MenuToDTO converts a menu, listing meals in daily order
func MenuToDTO(m *menu.CurrentMenu) inbound.MenuDTO {
	meals := make([]inbound.MealDTO, 0, m.Len())
	for _, sel := range m.Ordered() {
		meals = append(meals, MealToDTO(sel))
	}
	dto := inbound.MenuDTO{Meals: meals}
	if m != nil {
		dto.UpdatedAt = m.UpdatedAt
	}
	return dto
}

// ShoppingListToDTO converts needs and sums them
func ShoppingListToDTO(needs []planning.Need) inbound.ShoppingListDTO {
	items := make([]inbound.NeedDTO, 0, len(needs))
	for _, n := range needs {
		items = append(items, inbound.NeedDTO{
			Product: n.Product,
			Need:    n.Need,
			Unit:    n.Unit,
			Have:    n.Have,
			Kind:    string(n.Kind),
		})
	}
	return inbound.ShoppingListDTO{Items: items, TotalNeed: planning.TotalNeed(needs)}
}
