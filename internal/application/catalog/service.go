// Package catalog provides the application layer for recipe management
// This implements the use cases defined in the inbound ports
package catalog

import (
	"context"
	stderrors "errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/application/common"
	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/multivarka/kitchen/internal/infrastructure/security"
	"github.com/multivarka/kitchen/internal/ports/inbound"
	"github.com/multivarka/kitchen/internal/ports/outbound"
	"github.com/multivarka/kitchen/pkg/errors"
)

// CatalogService implements the recipe use cases
type CatalogService struct {
	recipeRepo outbound.RecipeRepository
	events     outbound.EventPublisher
	validator  *security.ValidationService
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	recipeRepo outbound.RecipeRepository,
	events outbound.EventPublisher,
	validator *security.ValidationService,
	logger *zap.Logger,
) inbound.CatalogService {
	if events == nil {
		events = common.NopPublisher{}
	}
	return &CatalogService{
		recipeRepo: recipeRepo,
		events:     events,
		validator:  validator,
		logger:     logger.Named("catalog-service"),
	}
}

// CreateRecipe adds a recipe to the catalog
func (s *CatalogService) CreateRecipe(ctx context.Context, cmd inbound.SaveRecipeCommand) (dto *inbound.RecipeDTO, err error) {
	ctx, span := common.StartSpan(ctx, "catalog.CreateRecipe", trace.WithAttributes(
		attribute.String("meal_slot", cmd.MealSlot),
	))
	defer func() { common.EndSpan(span, err) }()

	s.logger.Info("Creating recipe",
		zap.String("name", cmd.Name),
		zap.String("meal_slot", cmd.MealSlot),
		zap.Int("ingredients", len(cmd.Ingredients)),
	)

	if err := s.validator.Validate(cmd); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd.MealSlot) == "" {
		return nil, errors.NewValidationErrors([]errors.ValidationError{{
			Field:   "meal_slot",
			Tag:     "required",
			Message: "meal_slot is required",
		}})
	}

	slot, err := recipe.ParseMealSlot(cmd.MealSlot)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	entity, err := recipe.NewRecipe(cmd.Name, slot, cmd.IsReady, toIngredients(cmd.Ingredients), cmd.Instructions)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	id, err := s.recipeRepo.Create(ctx, entity)
	if err != nil {
		s.logger.Error("Failed to create recipe", zap.String("name", entity.Name), zap.Error(err))
		return nil, common.PersistenceError("create recipe", err)
	}
	entity.ID = id

	s.logger.Info("Recipe created", zap.Uint("recipe_id", entity.ID))
	s.events.Publish(ctx, recipe.NewRecipeChanged(entity.ID, entity.Name, recipe.ActionCreated))

	out := common.RecipeToDTO(*entity)
	return &out, nil
}

// UpdateRecipe fully replaces the content of an existing recipe. Its meal
// slot does not change.
func (s *CatalogService) UpdateRecipe(ctx context.Context, id uint, cmd inbound.SaveRecipeCommand) (dto *inbound.RecipeDTO, err error) {
	ctx, span := common.StartSpan(ctx, "catalog.UpdateRecipe", recipeAttr(id))
	defer func() { common.EndSpan(span, err) }()

	s.logger.Info("Updating recipe", zap.Uint("recipe_id", id))

	if err := s.validator.Validate(cmd); err != nil {
		return nil, err
	}

	entity, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := entity.Replace(cmd.Name, cmd.IsReady, toIngredients(cmd.Ingredients), cmd.Instructions); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	found, err := s.recipeRepo.Update(ctx, entity)
	if err != nil {
		s.logger.Error("Failed to update recipe", zap.Uint("recipe_id", id), zap.Error(err))
		return nil, common.PersistenceError("update recipe", err)
	}
	if !found {
		return nil, errors.NewRecipeNotFoundError(id)
	}

	s.events.Publish(ctx, recipe.NewRecipeChanged(entity.ID, entity.Name, recipe.ActionUpdated))

	out := common.RecipeToDTO(*entity)
	return &out, nil
}

// DeleteRecipe removes a recipe with its ingredients and instructions
func (s *CatalogService) DeleteRecipe(ctx context.Context, id uint) (err error) {
	ctx, span := common.StartSpan(ctx, "catalog.DeleteRecipe", recipeAttr(id))
	defer func() { common.EndSpan(span, err) }()

	s.logger.Info("Deleting recipe", zap.Uint("recipe_id", id))

	found, err := s.recipeRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete recipe", zap.Uint("recipe_id", id), zap.Error(err))
		return common.PersistenceError("delete recipe", err)
	}
	if !found {
		return errors.NewRecipeNotFoundError(id)
	}

	s.events.Publish(ctx, recipe.NewRecipeChanged(id, "", recipe.ActionDeleted))
	return nil
}

// GetRecipe returns a recipe by ID
func (s *CatalogService) GetRecipe(ctx context.Context, id uint) (*inbound.RecipeDTO, error) {
	ctx, span := common.StartSpan(ctx, "catalog.GetRecipe", recipeAttr(id))
	defer span.End()

	entity, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	out := common.RecipeToDTO(*entity)
	return &out, nil
}

// ListRecipes returns the whole catalog, newest first, with ingredient counts
func (s *CatalogService) ListRecipes(ctx context.Context) ([]inbound.RecipeSummaryDTO, error) {
	ctx, span := common.StartSpan(ctx, "catalog.ListRecipes")
	defer span.End()

	recipes, err := s.recipeRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list recipes", zap.Error(err))
		return nil, common.PersistenceError("list recipes", err)
	}
	return summaries(recipes), nil
}

// ListBySlot returns the recipes of one meal slot, newest first
func (s *CatalogService) ListBySlot(ctx context.Context, slotName string) ([]inbound.RecipeDTO, error) {
	ctx, span := common.StartSpan(ctx, "catalog.ListBySlot")
	defer span.End()

	slot, err := recipe.ParseMealSlot(slotName)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	recipes, err := s.recipeRepo.ListBySlot(ctx, slot)
	if err != nil {
		s.logger.Error("Failed to list recipes by slot", zap.String("meal_slot", string(slot)), zap.Error(err))
		return nil, common.PersistenceError("list recipes by slot", err)
	}

	out := make([]inbound.RecipeDTO, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, common.RecipeToDTO(r))
	}
	return out, nil
}

// SearchRecipes filters the catalog by name substring and optional slot
func (s *CatalogService) SearchRecipes(ctx context.Context, query inbound.SearchRecipesQuery) ([]inbound.RecipeSummaryDTO, error) {
	ctx, span := common.StartSpan(ctx, "catalog.SearchRecipes", trace.WithAttributes(
		attribute.String("query", query.Query),
		attribute.String("meal_slot", query.MealSlot),
	))
	defer span.End()

	if err := s.validator.Validate(query); err != nil {
		return nil, err
	}

	var slot recipe.MealSlot
	if query.MealSlot != "" {
		slot, _ = recipe.ParseMealSlot(query.MealSlot)
	}

	recipes, err := s.recipeRepo.Search(ctx, strings.TrimSpace(query.Query), slot)
	if err != nil {
		s.logger.Error("Failed to search recipes", zap.String("query", query.Query), zap.Error(err))
		return nil, common.PersistenceError("search recipes", err)
	}
	return summaries(recipes), nil
}

// ProductsInUse returns every product the catalog references with the unit
// the newest recipe uses for it
func (s *CatalogService) ProductsInUse(ctx context.Context) (map[string]string, error) {
	ctx, span := common.StartSpan(ctx, "catalog.ProductsInUse")
	defer span.End()

	recipes, err := s.recipeRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list recipes", zap.Error(err))
		return nil, common.PersistenceError("list recipes", err)
	}

	// ProductUnits lets later entries win, the list is newest first
	reversed := make([]recipe.Recipe, len(recipes))
	for i, r := range recipes {
		reversed[len(recipes)-1-i] = r
	}
	return recipe.ProductUnits(reversed), nil
}

func (s *CatalogService) find(ctx context.Context, id uint) (*recipe.Recipe, error) {
	entity, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(id)
		}
		s.logger.Error("Failed to find recipe", zap.Uint("recipe_id", id), zap.Error(err))
		return nil, common.PersistenceError("find recipe", err)
	}
	return entity, nil
}

func toIngredients(in []inbound.IngredientInput) []recipe.Ingredient {
	out := make([]recipe.Ingredient, 0, len(in))
	for _, i := range in {
		kind, err := pantry.ParseKind(i.Kind)
		if err != nil {
			kind = pantry.Kind(i.Kind)
		}
		out = append(out, recipe.Ingredient{
			Product: i.Product,
			Amount:  i.Amount,
			Unit:    i.Unit,
			Kind:    kind,
		})
	}
	return out
}

func summaries(recipes []recipe.Recipe) []inbound.RecipeSummaryDTO {
	out := make([]inbound.RecipeSummaryDTO, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, common.RecipeToSummary(r))
	}
	return out
}

func recipeAttr(id uint) trace.SpanStartOption {
	return trace.WithAttributes(attribute.Int64("recipe_id", int64(id)))
}
