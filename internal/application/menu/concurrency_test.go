package menu

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/application/common"
	"github.com/multivarka/kitchen/internal/domain/recipe"
	gormrepo "github.com/multivarka/kitchen/internal/infrastructure/persistence/gorm"
	"github.com/multivarka/kitchen/internal/infrastructure/persistence/memory"
	"github.com/multivarka/kitchen/internal/ports/outbound"
	"github.com/multivarka/kitchen/test/testutils"
)

type menuStores struct {
	menus   outbound.MenuRepository
	recipes outbound.RecipeRepository
	pantry  outbound.PantryRepository
}

func TestConcurrentMenuUpdates(t *testing.T) {
	stores := map[string]func(t *testing.T) menuStores{
		"Memory": func(t *testing.T) menuStores {
			return menuStores{
				menus:   memory.NewMenuRepository(),
				recipes: memory.NewRecipeRepository(),
				pantry:  memory.NewPantryRepository(),
			}
		},
		"SQLite": func(t *testing.T) menuStores {
			db := testutils.NewSQLiteDB(t)
			return menuStores{
				menus:   gormrepo.NewMenuRepository(db),
				recipes: gormrepo.NewRecipeRepository(db),
				pantry:  gormrepo.NewPantryRepository(db),
			}
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := open(t)
			for i, dish := range []string{"Soup", "Salad"} {
				_, err := st.recipes.Create(ctx, testutils.NewRecipeBuilder(int64(i+1)).
					WithName(dish).
					WithSlot(recipe.MealSlotLunch).
					WithQuantity("potatoes", 200, "g").
					Build())
				require.NoError(t, err)
			}

			service := NewMenuService(st.menus, st.recipes, st.pantry,
				testutils.NewMockEventPublisher(), common.NewRandomPicker(7),
				common.FixedClock(today), zap.NewNop())
			_, err := service.CurrentMenu(ctx)
			require.NoError(t, err)

			const toggles, replacements = 41, 40
			var wg sync.WaitGroup
			errs := make(chan error, toggles+replacements)
			for i := 0; i < toggles; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := service.ToggleSkip(ctx, "lunch")
					errs <- err
				}()
			}
			for i := 0; i < replacements; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := service.ReplaceSlot(ctx, "lunch")
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				assert.NoError(t, err)
			}

			current, err := service.CurrentMenu(ctx)
			require.NoError(t, err)
			require.Len(t, current.Meals, 1)
			meal := current.Meals[0]
			assert.Equal(t, toggles%2 == 1, meal.SkipCooking, "every toggle is applied exactly once")
			assert.Contains(t, []string{"Soup", "Salad"}, meal.Recipe.Name)
		})
	}
}
