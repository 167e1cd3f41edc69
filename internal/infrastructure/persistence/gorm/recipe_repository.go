package gorm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/multivarka/kitchen/internal/ports/outbound"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// ListBySlot returns the recipes of a slot, newest first
func (r *RecipeRepository) ListBySlot(ctx context.Context, slot recipe.MealSlot) ([]recipe.Recipe, error) {
	return r.find(r.db.WithContext(ctx).Where("meal_slot = ?", string(slot)))
}

// List returns every recipe, newest first
func (r *RecipeRepository) List(ctx context.Context) ([]recipe.Recipe, error) {
	return r.find(r.db.WithContext(ctx))
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uint) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Instructions").
		First(&model, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, result.Error
	}

	out := ModelToRecipe(&model)
	return &out, nil
}

// Create creates a new recipe with its ingredients and instructions
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC().Round(0)
	rec.ID = 0

	model := RecipeToModel(rec)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return 0, err
	}

	rec.ID = model.ID
	return model.ID, nil
}

// Update replaces name, ready flag, ingredients and instructions. The
// children are deleted and inserted again.
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&RecipeModel{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"name":       rec.Name,
				"is_ready":   rec.IsReady,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		found = true

		if err := deleteChildren(tx, rec.ID); err != nil {
			return err
		}
		if ingredients := ingredientModels(rec); len(ingredients) > 0 {
			if err := tx.Create(&ingredients).Error; err != nil {
				return err
			}
		}
		if instructions := instructionModels(rec); len(instructions) > 0 {
			if err := tx.Create(&instructions).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return found, err
}

// Delete deletes a recipe with its ingredients and instructions
func (r *RecipeRepository) Delete(ctx context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		result := tx.Delete(&RecipeModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		found = result.RowsAffected > 0
		return nil
	})
	return found, err
}

// Search matches name substrings case-insensitively. Matching happens in Go
// because SQLite's LOWER only folds ASCII.
func (r *RecipeRepository) Search(ctx context.Context, query string, slot recipe.MealSlot) ([]recipe.Recipe, error) {
	db := r.db.WithContext(ctx)
	if slot != "" {
		db = db.Where("meal_slot = ?", string(slot))
	}

	candidates, err := r.find(db)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return candidates, nil
	}

	out := make([]recipe.Recipe, 0, len(candidates))
	for _, rec := range candidates {
		if strings.Contains(strings.ToLower(rec.Name), query) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *RecipeRepository) find(db *gorm.DB) ([]recipe.Recipe, error) {
	var models []RecipeModel

	result := db.
		Preload("Ingredients").
		Preload("Instructions").
		Order("created_at DESC").
		Order("id DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	recipes := make([]recipe.Recipe, 0, len(models))
	for i := range models {
		recipes = append(recipes, ModelToRecipe(&models[i]))
	}
	return recipes, nil
}

func deleteChildren(tx *gorm.DB, recipeID uint) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&IngredientModel{}).Error; err != nil {
		return err
	}
	return tx.Where("recipe_id = ?", recipeID).Delete(&InstructionModel{}).Error
}
