package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/multivarka/kitchen/internal/ports/outbound"
)

// RecipeRepository keeps the catalog in memory with sequential IDs
type RecipeRepository struct {
	data   map[uint]recipe.Recipe
	nextID uint
	mutex  sync.RWMutex
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{data: make(map[uint]recipe.Recipe), nextID: 1}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// ListBySlot returns recipes of one slot, newest first
func (r *RecipeRepository) ListBySlot(ctx context.Context, slot recipe.MealSlot) ([]recipe.Recipe, error) {
	return r.filter(func(rec recipe.Recipe) bool { return rec.MealSlot == slot }), nil
}

// List returns every recipe, newest first
func (r *RecipeRepository) List(ctx context.Context) ([]recipe.Recipe, error) {
	return r.filter(func(recipe.Recipe) bool { return true }), nil
}

// FindByID returns a copy of one recipe
func (r *RecipeRepository) FindByID(ctx context.Context, id uint) (*recipe.Recipe, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rec, ok := r.data[id]
	if !ok {
		return nil, recipe.ErrRecipeNotFound
	}
	out := rec.Clone()
	return &out, nil
}

// Create stores a recipe under the next ID
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) (uint, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	rec.ID = r.nextID
	r.nextID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	// Match what a database round trip returns
	rec.CreatedAt = rec.CreatedAt.UTC().Round(0)
	r.data[rec.ID] = rec.Clone()
	return rec.ID, nil
}

// Update replaces the editable content of a recipe
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.data[rec.ID]
	if !ok {
		return false, nil
	}
	updated := rec.Clone()
	updated.MealSlot = stored.MealSlot
	updated.CreatedAt = stored.CreatedAt
	r.data[rec.ID] = updated
	return true, nil
}

// Delete removes a recipe
func (r *RecipeRepository) Delete(ctx context.Context, id uint) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.data[id]; !ok {
		return false, nil
	}
	delete(r.data, id)
	return true, nil
}

// Search matches name substrings case-insensitively
func (r *RecipeRepository) Search(ctx context.Context, query string, slot recipe.MealSlot) ([]recipe.Recipe, error) {
	query = strings.ToLower(query)
	return r.filter(func(rec recipe.Recipe) bool {
		if slot != "" && rec.MealSlot != slot {
			return false
		}
		return strings.Contains(strings.ToLower(rec.Name), query)
	}), nil
}

// filter returns matching recipes ordered by creation time then ID, newest first
func (r *RecipeRepository) filter(keep func(recipe.Recipe) bool) []recipe.Recipe {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]recipe.Recipe, 0, len(r.data))
	for _, rec := range r.data {
		if keep(rec) {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
