package planning

import (
	"math/rand"
	"testing"
	"time"

	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var today = time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)

func in(days int) string {
	return today.AddDate(0, 0, days).Format(pantry.DateLayout)
}

func qty(product string, amount float64, unit string) recipe.Ingredient {
	return recipe.Ingredient{Product: product, Amount: amount, Unit: unit, Kind: pantry.KindQuantity}
}

func avail(product, unit string) recipe.Ingredient {
	return recipe.Ingredient{Product: product, Amount: 1, Unit: unit, Kind: pantry.KindAvailability}
}

func dish(id uint, name string, slot recipe.MealSlot, ings ...recipe.Ingredient) recipe.Recipe {
	return recipe.Recipe{ID: id, Name: name, MealSlot: slot, Ingredients: ings}
}

// firstPicker always picks index 0
type firstPicker struct{}

func (firstPicker) Intn(int) int { return 0 }

// lastPicker always picks the last index
type lastPicker struct{}

func (lastPicker) Intn(n int) int { return n - 1 }

type EvaluatorTestSuite struct {
	suite.Suite
}

func TestEvaluatorTestSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func (s *EvaluatorTestSuite) TestEmptyIngredients_ShouldCostNothing() {
	assert.Equal(s.T(), Cost{}, Evaluate(nil, pantry.Snapshot{}, today))
}

func (s *EvaluatorTestSuite) TestAbsentProducts() {
	cost := Evaluate([]recipe.Ingredient{qty("flour", 300, "g"), avail("salt", "pinch")}, pantry.Snapshot{}, today)

	assert.Equal(s.T(), Cost{Total: 301, Missing: 2}, cost)
}

func (s *EvaluatorTestSuite) TestAvailabilityProducts() {
	snap := pantry.Snapshot{
		"tea":   {Name: "tea", Quantity: 1, Kind: pantry.KindAvailability, Expiration: in(2)},
		"sugar": {Name: "sugar", Quantity: 0, Kind: pantry.KindAvailability},
		"salt":  {Name: "salt", Quantity: 250, Kind: pantry.KindQuantity, Expiration: in(30)},
	}

	s.Run("InStock_ShouldApplyFreshness", func() {
		assert.Equal(s.T(), Cost{Total: -50}, Evaluate([]recipe.Ingredient{avail("tea", "bag")}, snap, today))
	})

	s.Run("Empty_ShouldCountAsMissing", func() {
		assert.Equal(s.T(), Cost{Total: 1, Missing: 1}, Evaluate([]recipe.Ingredient{qty("sugar", 5, "tsp")}, snap, today))
	})

	s.Run("IngredientSideAvailability_ShouldOverrideQuantityProduct", func() {
		assert.Equal(s.T(), Cost{Total: -5}, Evaluate([]recipe.Ingredient{avail("salt", "pinch")}, snap, today))
	})
}

func (s *EvaluatorTestSuite) TestQuantityProducts() {
	snap := pantry.Snapshot{
		"milk":   {Name: "milk", Quantity: 200, Kind: pantry.KindQuantity, Expiration: in(0)},
		"cheese": {Name: "cheese", Quantity: 300, Kind: pantry.KindQuantity, Expiration: in(5)},
		"eggs":   {Name: "eggs", Quantity: 0, Kind: pantry.KindQuantity},
	}

	s.Run("Covered_ShouldApplyFullFreshness", func() {
		assert.Equal(s.T(), Cost{Total: -20}, Evaluate([]recipe.Ingredient{qty("cheese", 100, "g")}, snap, today))
	})

	s.Run("PartialStock_ShouldAddShortageAndDampedFreshness", func() {
		cost := Evaluate([]recipe.Ingredient{qty("milk", 500, "ml")}, snap, today)

		assert.Equal(s.T(), 1, cost.Missing)
		assert.InDelta(s.T(), 300-30.0, cost.Total, 1e-9)
	})

	s.Run("ZeroStock_ShouldAddShortageOnly", func() {
		assert.Equal(s.T(), Cost{Total: 2, Missing: 1}, Evaluate([]recipe.Ingredient{qty("eggs", 2, "pcs")}, snap, today))
	})
}

func (s *EvaluatorTestSuite) TestOmeletteScenario() {
	// Arrange
	snap := pantry.Snapshot{"eggs": {Name: "eggs", Quantity: 0, Unit: "pcs", Kind: pantry.KindQuantity}}
	ings := []recipe.Ingredient{qty("eggs", 2, "pcs")}

	// Act + Assert
	assert.Equal(s.T(), Cost{Total: 2, Missing: 1}, Evaluate(ings, snap, today))

	existing := snap["eggs"]
	snap["eggs"] = pantry.AddOrIncrement(&existing, pantry.Addition{Name: "eggs", Amount: 2, Unit: "pcs", Kind: pantry.KindQuantity})

	assert.Equal(s.T(), Cost{}, Evaluate(ings, snap, today))
}

func (s *EvaluatorTestSuite) TestScoreFoldsMissingCount() {
	assert.Equal(s.T(), 23.0, Cost{Total: 2, Missing: 3}.Score())
}

func TestCheapestPrefersFirstOnTies(t *testing.T) {
	candidates := []recipe.Recipe{
		dish(2, "Newest", recipe.MealSlotSnack, qty("nuts", 1, "g")),
		dish(1, "Oldest", recipe.MealSlotSnack, qty("dates", 1, "g")),
	}

	best, ok := Cheapest(candidates, pantry.Snapshot{}, today)

	require.True(t, ok)
	assert.Equal(t, "Newest", best.Recipe.Name)

	_, ok = Cheapest(nil, pantry.Snapshot{}, today)
	assert.False(t, ok)
}

func TestOptimizeChoosesCoveredLunch(t *testing.T) {
	snap := pantry.Snapshot{
		"potatoes": {Name: "potatoes", Quantity: 6, Unit: "pcs", Kind: pantry.KindQuantity, Expiration: in(10)},
	}
	candidates := Candidates{
		recipe.MealSlotLunch: {
			dish(1, "Beef stew", recipe.MealSlotLunch, qty("beef", 1, "kg"), qty("carrots", 3, "pcs")),
			dish(2, "Baked potatoes", recipe.MealSlotLunch, qty("potatoes", 4, "pcs")),
		},
	}

	result, err := Optimize(nil, candidates, snap, today)

	require.NoError(t, err)
	sel, ok := result.Get(recipe.MealSlotLunch)
	require.True(t, ok)
	assert.Equal(t, "Baked potatoes", sel.Recipe.Name)
	assert.Equal(t, 1, result.Len())
}

func TestOptimizeKeepsSkippedSlots(t *testing.T) {
	previous := menu.New()
	previous.Set(menu.NewSelection(recipe.MealSlotDinner, dish(9, "Feast", recipe.MealSlotDinner, qty("lobster", 5, "pcs")), true))
	previous.Set(menu.NewSelection(recipe.MealSlotBreakfast, dish(8, "Pancakes", recipe.MealSlotBreakfast, qty("flour", 200, "g")), false))
	candidates := Candidates{
		recipe.MealSlotDinner:    {dish(3, "Toast", recipe.MealSlotDinner, qty("bread", 1, "pcs"))},
		recipe.MealSlotBreakfast: {dish(4, "Porridge", recipe.MealSlotBreakfast, qty("oats", 50, "g"))},
	}

	result, err := Optimize(previous, candidates, pantry.Snapshot{}, today)

	require.NoError(t, err)
	dinner, _ := result.Get(recipe.MealSlotDinner)
	assert.Equal(t, "Feast", dinner.Recipe.Name)
	assert.True(t, dinner.SkipCooking)
	breakfast, _ := result.Get(recipe.MealSlotBreakfast)
	assert.Equal(t, "Porridge", breakfast.Recipe.Name)
}

func TestOptimizeIsDeterministic(t *testing.T) {
	snap := pantry.Snapshot{"rice": {Name: "rice", Quantity: 100, Kind: pantry.KindQuantity}}
	candidates := Candidates{
		recipe.MealSlotDinner: {
			dish(1, "Fried rice", recipe.MealSlotDinner, qty("rice", 100, "g")),
			dish(2, "Rice bowl", recipe.MealSlotDinner, qty("rice", 100, "g")),
			dish(3, "Pilaf", recipe.MealSlotDinner, qty("rice", 300, "g")),
		},
	}

	first, err := Optimize(nil, candidates, snap, today)
	require.NoError(t, err)
	second, err := Optimize(nil, candidates, snap, today)
	require.NoError(t, err)

	assert.Equal(t, first.Selections, second.Selections)
	sel, _ := first.Get(recipe.MealSlotDinner)
	assert.Equal(t, "Fried rice", sel.Recipe.Name)
}

func TestOptimizeWithoutCandidates(t *testing.T) {
	_, err := Optimize(menu.New(), Candidates{}, pantry.Snapshot{}, today)
	assert.ErrorIs(t, err, menu.ErrNoCandidates)
}

func TestMix(t *testing.T) {
	candidates := Candidates{
		recipe.MealSlotBreakfast: {dish(1, "Porridge", recipe.MealSlotBreakfast), dish(2, "Toast", recipe.MealSlotBreakfast)},
		recipe.MealSlotDinner:    {dish(3, "Soup", recipe.MealSlotDinner)},
	}

	result, err := Mix(candidates, lastPicker{})

	require.NoError(t, err)
	assert.Equal(t, []recipe.MealSlot{recipe.MealSlotBreakfast, recipe.MealSlotDinner}, result.Slots())
	breakfast, _ := result.Get(recipe.MealSlotBreakfast)
	assert.Equal(t, "Toast", breakfast.Recipe.Name)

	_, err = Mix(Candidates{}, firstPicker{})
	assert.ErrorIs(t, err, menu.ErrNoCandidates)
}

func TestReplacement(t *testing.T) {
	current := menu.NewSelection(recipe.MealSlotSnack, dish(1, "Apple", recipe.MealSlotSnack), true)

	t.Run("ExcludesCurrentDish", func(t *testing.T) {
		options := []recipe.Recipe{dish(1, "Apple", recipe.MealSlotSnack), dish(2, "Yogurt", recipe.MealSlotSnack)}
		rng := rand.New(rand.NewSource(42))

		for i := 0; i < 20; i++ {
			sel, err := Replacement(current, options, rng)
			require.NoError(t, err)
			assert.Equal(t, "Yogurt", sel.Recipe.Name)
			assert.True(t, sel.SkipCooking)
		}
	})

	t.Run("SingleDish_ShouldFallBackToSameRecipe", func(t *testing.T) {
		sel, err := Replacement(current, []recipe.Recipe{dish(1, "Apple", recipe.MealSlotSnack)}, firstPicker{})

		require.NoError(t, err)
		assert.Equal(t, "Apple", sel.Recipe.Name)
	})

	t.Run("NoOptions_ShouldFail", func(t *testing.T) {
		_, err := Replacement(current, nil, firstPicker{})
		assert.ErrorIs(t, err, menu.ErrNoCandidates)
	})
}

func TestConsume(t *testing.T) {
	snapshot := func() pantry.Snapshot {
		return pantry.Snapshot{
			"eggs":  {Name: "eggs", Quantity: 3, Unit: "pcs", Kind: pantry.KindQuantity, Expiration: in(4)},
			"sugar": {Name: "sugar", Quantity: 1, Unit: "tsp", Kind: pantry.KindAvailability, Expiration: in(90)},
		}
	}
	meal := dish(1, "Sweet omelette", recipe.MealSlotBreakfast, qty("eggs", 5, "pcs"), qty("sugar", 2, "tsp"), qty("ham", 1, "pcs"))

	t.Run("Cooked_ShouldDeduct", func(t *testing.T) {
		snap := snapshot()

		changed := Consume(menu.NewSelection(recipe.MealSlotBreakfast, meal, false), snap)

		assert.Len(t, changed, 2)
		assert.Equal(t, 0.0, snap["eggs"].Quantity)
		assert.Equal(t, 0.0, snap["sugar"].Quantity)
		assert.Empty(t, snap["sugar"].Expiration)
		_, hasHam := snap["ham"]
		assert.False(t, hasHam)
	})

	t.Run("Skipped_ShouldLeavePantryUnchanged", func(t *testing.T) {
		snap := snapshot()

		changed := Consume(menu.NewSelection(recipe.MealSlotBreakfast, meal, true), snap)

		assert.Empty(t, changed)
		assert.Equal(t, snapshot(), snap)
	})
}

func TestShoppingList(t *testing.T) {
	snap := pantry.Snapshot{
		"milk":  {Name: "milk", Quantity: 200, Unit: "ml", Kind: pantry.KindQuantity},
		"tea":   {Name: "tea", Quantity: 0, Unit: "bag", Kind: pantry.KindAvailability},
		"bread": {Name: "bread", Quantity: 2, Unit: "pcs", Kind: pantry.KindQuantity},
	}
	m := menu.New()
	m.Set(menu.NewSelection(recipe.MealSlotBreakfast, dish(1, "Tea with milk", recipe.MealSlotBreakfast,
		qty("milk", 500, "ml"), avail("tea", "bag"), qty("bread", 1, "pcs")), false))
	m.Set(menu.NewSelection(recipe.MealSlotLunch, dish(2, "Sandwich", recipe.MealSlotLunch,
		avail("butter", "g"), qty("ham", 100, "g")), false))
	m.Set(menu.NewSelection(recipe.MealSlotDinner, dish(3, "Steak", recipe.MealSlotDinner,
		qty("beef", 1, "kg")), true))

	needs := ShoppingList(m, snap)

	assert.Equal(t, []Need{
		{Product: "butter", Need: 1, Unit: "g", Kind: pantry.KindAvailability},
		{Product: "ham", Need: 100, Unit: "g", Kind: pantry.KindQuantity},
		{Product: "milk", Need: 300, Unit: "ml", Have: 200, Kind: pantry.KindQuantity},
		{Product: "tea", Need: 1, Unit: "bag", Kind: pantry.KindAvailability},
	}, needs)
	assert.Equal(t, 402.0, TotalNeed(needs))
}
