package planning

import (
	"time"

	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
)

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// Candidates are the catalog recipes available per slot, newest first
type Candidates map[recipe.MealSlot][]recipe.Recipe

// Scored is a recipe with its evaluated cost
type Scored struct {
	Recipe recipe.Recipe
	Cost   Cost
}

// Cheapest returns the candidate with the minimum score. The first
// candidate wins on exact ties so repeated runs pick the same dish.
func Cheapest(candidates []recipe.Recipe, snapshot pantry.Snapshot, today time.Time) (Scored, bool) {
	var best Scored
	found := false

	for _, r := range candidates {
		cost := Evaluate(r.Ingredients, snapshot, today)
		if !found || cost.Score() < best.Cost.Score() {
			best = Scored{Recipe: r, Cost: cost}
			found = true
		}
	}

	return best, found
}

// Optimize builds a menu that keeps every skipped slot of the previous menu
// and fills every other slot with its cheapest candidate. Each slot is
// decided on its own. The result is not persisted.
func Optimize(previous *menu.CurrentMenu, candidates Candidates, snapshot pantry.Snapshot, today time.Time) (*menu.CurrentMenu, error) {
	result := menu.New()

	for _, slot := range recipe.MealSlots() {
		if sel, ok := previous.Get(slot); ok && sel.SkipCooking {
			result.Set(sel)
			continue
		}

		best, ok := Cheapest(candidates[slot], snapshot, today)
		if !ok {
			continue
		}
		result.Set(menu.NewSelection(slot, best.Recipe, false))
	}

	if result.Len() == 0 {
		return nil, menu.ErrNoCandidates
	}
	return result, nil
}

// Mix builds a menu with one uniformly random recipe per slot. Slots
// without recipes are left out.
func Mix(candidates Candidates, picker Picker) (*menu.CurrentMenu, error) {
	result := menu.New()

	for _, slot := range recipe.MealSlots() {
		options := candidates[slot]
		if len(options) == 0 {
			continue
		}
		result.Set(menu.NewSelection(slot, options[picker.Intn(len(options))], false))
	}

	if result.Len() == 0 {
		return nil, menu.ErrNoCandidates
	}
	return result, nil
}

// Replacement picks a different dish for the slot of current, keeping its
// skip flag. When no other dish exists it falls back to any candidate,
// which may be the current dish again.
func Replacement(current menu.MealSelection, options []recipe.Recipe, picker Picker) (menu.MealSelection, error) {
	if len(options) == 0 {
		return menu.MealSelection{}, menu.ErrNoCandidates
	}

	others := make([]recipe.Recipe, 0, len(options))
	for _, r := range options {
		if r.Name != current.Recipe.Name {
			others = append(others, r)
		}
	}
	if len(others) == 0 {
		others = options
	}

	chosen := others[picker.Intn(len(others))]
	return menu.NewSelection(current.MealSlot, chosen, current.SkipCooking), nil
}
