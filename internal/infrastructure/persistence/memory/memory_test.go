package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
)

func TestPantryRepository_UpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := NewPantryRepository()
	require.NoError(t, repo.Insert(ctx, pantry.Product{Name: "milk", Quantity: 1, Unit: "l", Kind: pantry.KindQuantity}))

	boom := errors.New("boom")
	err := repo.Update(ctx, func(s pantry.Snapshot) error {
		delete(s, "milk")
		s["bread"] = pantry.Product{Name: "bread", Quantity: 1, Unit: "pcs", Kind: pantry.KindQuantity}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot, 1)
	assert.Contains(t, snapshot, "milk")
}

func TestPantryRepository_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	repo := NewPantryRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementOrInsert(ctx, pantry.Addition{Name: "rice", Amount: 10, Unit: "g"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := repo.Find(ctx, "rice")
	require.NoError(t, err)
	assert.Equal(t, 500.0, p.Quantity)
}

func TestPantryRepository_MissingProducts(t *testing.T) {
	ctx := context.Background()
	repo := NewPantryRepository()

	_, err := repo.Find(ctx, "salt")
	assert.ErrorIs(t, err, pantry.ErrProductNotFound)

	found, err := repo.SetQuantity(ctx, "salt", 1)
	require.NoError(t, err)
	assert.False(t, found)

	removed, err := repo.Delete(ctx, "salt")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPantryRepository_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewPantryRepository()
	require.NoError(t, repo.Insert(ctx, pantry.Product{Name: "tea", Quantity: 1, Unit: "bag", Kind: pantry.KindAvailability}))

	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)
	delete(snapshot, "tea")

	_, err = repo.Find(ctx, "tea")
	assert.NoError(t, err)
}

func TestRecipeRepository_AssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipeRepository()

	first := &recipe.Recipe{Name: "Soup", MealSlot: recipe.MealSlotLunch}
	second := &recipe.Recipe{Name: "Tea", MealSlot: recipe.MealSlotSnack}
	id1, err := repo.Create(ctx, first)
	require.NoError(t, err)
	id2, err := repo.Create(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, uint(1), id1)
	assert.Equal(t, uint(2), id2)

	_, err = repo.FindByID(ctx, 3)
	assert.ErrorIs(t, err, recipe.ErrRecipeNotFound)

	removed, err := repo.Delete(ctx, id1)
	require.NoError(t, err)
	assert.True(t, removed)

	lunch, err := repo.ListBySlot(ctx, recipe.MealSlotLunch)
	require.NoError(t, err)
	assert.Empty(t, lunch)
}

func TestMenuRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMenuRepository()
	soup := recipe.Recipe{ID: 1, Name: "Soup", MealSlot: recipe.MealSlotLunch}

	t.Run("NilResultKeepsStoredMenu", func(t *testing.T) {
		got, err := repo.Update(ctx, func(current *menu.CurrentMenu) (*menu.CurrentMenu, error) {
			assert.Nil(t, current)
			return nil, nil
		})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("StoresReturnedMenu", func(t *testing.T) {
		_, err := repo.Update(ctx, func(*menu.CurrentMenu) (*menu.CurrentMenu, error) {
			m := menu.New()
			m.Set(menu.NewSelection(recipe.MealSlotLunch, soup, false))
			return m, nil
		})
		require.NoError(t, err)

		stored, err := repo.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, 1, stored.Len())
	})

	t.Run("ErrorLeavesMenuUntouched", func(t *testing.T) {
		_, err := repo.Update(ctx, func(current *menu.CurrentMenu) (*menu.CurrentMenu, error) {
			current.Set(menu.NewSelection(recipe.MealSlotDinner, soup, true))
			return nil, menu.ErrNoCandidates
		})
		assert.ErrorIs(t, err, menu.ErrNoCandidates)

		stored, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Len())
	})

	t.Run("Clear", func(t *testing.T) {
		existed, err := repo.Clear(ctx)
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = repo.Clear(ctx)
		require.NoError(t, err)
		assert.False(t, existed)
	})
}

func TestMenuRepository_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewMenuRepository()
	m := menu.New()
	m.Set(menu.NewSelection(recipe.MealSlotLunch, recipe.Recipe{ID: 1, Name: "Soup", MealSlot: recipe.MealSlotLunch}, false))
	require.NoError(t, repo.Save(ctx, m))

	const writers = 41
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, func(current *menu.CurrentMenu) (*menu.CurrentMenu, error) {
				next := current.Clone()
				_, err := next.ToggleSkip(recipe.MealSlotLunch)
				return next, err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := repo.Load(ctx)
	require.NoError(t, err)
	sel, ok := stored.Get(recipe.MealSlotLunch)
	require.True(t, ok)
	assert.True(t, sel.SkipCooking)
}
