package planning

import (
	"sort"

	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/domain/pantry"
)

// Consume deducts the ingredients of a cooked meal from the snapshot and
// returns the products that changed. A skipped meal changes nothing.
// Ingredients that are not in the pantry are ignored.
func Consume(sel menu.MealSelection, snapshot pantry.Snapshot) []pantry.Product {
	if sel.SkipCooking {
		return nil
	}

	changed := make(map[string]pantry.Product)
	for _, ing := range sel.Recipe.Ingredients {
		product, ok := snapshot[ing.Product]
		if !ok {
			continue
		}
		product.Consume(ing.Amount, ing.Kind)
		snapshot[ing.Product] = product
		changed[ing.Product] = product
	}

	out := make([]pantry.Product, 0, len(changed))
	for _, p := range changed {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Need is one line of the shopping list
type Need struct {
	Product string      `json:"product"`
	Need    float64     `json:"need"`
	Unit    string      `json:"unit"`
	Have    float64     `json:"have"`
	Kind    pantry.Kind `json:"kind"`
}

// ShoppingList lists what must be bought to cook every non-skipped meal of
// the menu. Needs are computed per ingredient against the pantry, later
// meals overwrite earlier ones for the same product.
func ShoppingList(m *menu.CurrentMenu, snapshot pantry.Snapshot) []Need {
	needs := make(map[string]Need)

	for _, sel := range m.Ordered() {
		if sel.SkipCooking {
			continue
		}
		for _, ing := range sel.Recipe.Ingredients {
			product, ok := snapshot.Lookup(ing.Product)
			if !ok {
				need := Need{Product: ing.Product, Need: ing.Amount, Unit: ing.Unit, Kind: pantry.KindQuantity}
				if ing.Kind == pantry.KindAvailability {
					need.Need = 1
					need.Kind = pantry.KindAvailability
				}
				needs[ing.Product] = need
				continue
			}

			if pantry.EffectiveKind(ing.Kind, product.Kind) == pantry.KindAvailability {
				if product.Quantity == 0 {
					needs[ing.Product] = Need{Product: ing.Product, Need: 1, Unit: ing.Unit, Kind: pantry.KindAvailability}
				}
				continue
			}

			if shortage := ing.Amount - product.Quantity; shortage > 0 {
				needs[ing.Product] = Need{
					Product: ing.Product,
					Need:    shortage,
					Unit:    ing.Unit,
					Have:    product.Quantity,
					Kind:    pantry.KindQuantity,
				}
			}
		}
	}

	out := make([]Need, 0, len(needs))
	for _, n := range needs {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out
}

// TotalNeed sums the needed amounts across the list
func TotalNeed(needs []Need) float64 {
	var total float64
	for _, n := range needs {
		total += n.Need
	}
	return total
}
