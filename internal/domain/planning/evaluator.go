// Package planning holds the decision logic of the kitchen: scoring
// recipes against the pantry, choosing dishes per meal slot, applying
// consumption and deriving shopping needs.
package planning

import (
	"time"

	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
)

// partialStockWeight dampens the freshness bonus of products that only
// partly cover an ingredient.
const partialStockWeight = 0.3

// Cost is the purchase need of a recipe given the pantry. Lower is better.
type Cost struct {
	Total   float64 `json:"total_cost"`
	Missing int     `json:"missing_count"`
}

// Score folds cost and missing count into the scalar used for ranking
func (c Cost) Score() float64 {
	return c.Total*10 + float64(c.Missing)
}

// Evaluate computes the cost of cooking ingredients from the snapshot.
// It never fails: unreadable expiration dates count as absent.
func Evaluate(ingredients []recipe.Ingredient, snapshot pantry.Snapshot, today time.Time) Cost {
	var cost Cost

	for _, ing := range ingredients {
		product, ok := snapshot.Lookup(ing.Product)
		if !ok {
			cost.Missing++
			if pantry.EffectiveKind(ing.Kind, "") == pantry.KindAvailability {
				cost.Total++
			} else {
				cost.Total += ing.Amount
			}
			continue
		}

		freshness := pantry.ExpirationScore(product.Expiration, today)

		if pantry.EffectiveKind(ing.Kind, product.Kind) == pantry.KindAvailability {
			if product.Quantity == 0 {
				cost.Total++
				cost.Missing++
			} else {
				cost.Total += freshness
			}
			continue
		}

		shortage := ing.Amount - product.Quantity
		if shortage > 0 {
			cost.Total += shortage
			cost.Missing++
			if product.Quantity > 0 {
				cost.Total += partialStockWeight * freshness
			}
			continue
		}
		cost.Total += freshness
	}

	return cost
}
