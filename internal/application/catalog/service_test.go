package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/multivarka/kitchen/internal/infrastructure/persistence/memory"
	"github.com/multivarka/kitchen/internal/infrastructure/security"
	"github.com/multivarka/kitchen/internal/ports/inbound"
	"github.com/multivarka/kitchen/pkg/errors"
	"github.com/multivarka/kitchen/test/testutils"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	recipes *memory.RecipeRepository
	events  *testutils.MockEventPublisher
	service inbound.CatalogService
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func (s *CatalogServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.recipes = memory.NewRecipeRepository()
	s.events = testutils.NewMockEventPublisher()
	logger := zap.NewNop()
	s.service = NewCatalogService(s.recipes, s.events, security.NewValidationService(logger), logger)
}

func omelette() inbound.SaveRecipeCommand {
	return inbound.SaveRecipeCommand{
		Name:     "  Omelette ",
		MealSlot: "breakfast",
		Ingredients: []inbound.IngredientInput{
			{Product: "eggs", Amount: 3, Unit: "pcs"},
			{Product: "salt", Amount: 1, Unit: "pinch", Kind: "availability"},
		},
		Instructions: []string{"Beat the eggs", "  ", "Fry"},
	}
}

func (s *CatalogServiceTestSuite) TestCreateRecipe_ShouldNormalizeAndStore() {
	// Act
	created, err := s.service.CreateRecipe(s.ctx, omelette())

	// Assert
	s.Require().NoError(err)
	s.NotZero(created.ID)
	s.Equal("Omelette", created.Name)
	s.Equal([]string{"Beat the eggs", "Fry"}, created.Instructions)
	s.Equal("quantity", created.Ingredients[0].Kind)

	fetched, err := s.service.GetRecipe(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.Name, fetched.Name)
	s.Len(fetched.Ingredients, 2)
	s.Equal([]string{"recipe.changed"}, s.events.Names())
}

func (s *CatalogServiceTestSuite) TestCreateRecipe_Validation() {
	cases := map[string]func(cmd *inbound.SaveRecipeCommand){
		"MissingSlot":        func(cmd *inbound.SaveRecipeCommand) { cmd.MealSlot = "" },
		"UnknownSlot":        func(cmd *inbound.SaveRecipeCommand) { cmd.MealSlot = "brunch" },
		"BlankName":          func(cmd *inbound.SaveRecipeCommand) { cmd.Name = "" },
		"NoIngredients":      func(cmd *inbound.SaveRecipeCommand) { cmd.Ingredients = nil },
		"NegativeAmount":     func(cmd *inbound.SaveRecipeCommand) { cmd.Ingredients[0].Amount = -1 },
		"IngredientNoUnit":   func(cmd *inbound.SaveRecipeCommand) { cmd.Ingredients[0].Unit = "" },
		"IngredientBadKind":  func(cmd *inbound.SaveRecipeCommand) { cmd.Ingredients[1].Kind = "boolean" },
		"WhitespaceOnlyName": func(cmd *inbound.SaveRecipeCommand) { cmd.Name = "   " },
	}

	for name, mutate := range cases {
		s.Run(name, func() {
			cmd := omelette()
			mutate(&cmd)

			_, err := s.service.CreateRecipe(s.ctx, cmd)

			testutils.AssertErrorCode(s.T(), err, errors.CodeValidationFailed)
		})
	}

	all, err := s.service.ListRecipes(s.ctx)
	s.Require().NoError(err)
	s.Empty(all, "rejected recipes are not stored")
}

func (s *CatalogServiceTestSuite) TestUpdateRecipe_ShouldReplaceContentAndKeepSlot() {
	created, err := s.service.CreateRecipe(s.ctx, omelette())
	s.Require().NoError(err)

	updated, err := s.service.UpdateRecipe(s.ctx, created.ID, inbound.SaveRecipeCommand{
		Name:         "Cheese omelette",
		MealSlot:     "dinner",
		IsReady:      true,
		Ingredients:  []inbound.IngredientInput{{Product: "cheese", Amount: 50, Unit: "g"}},
		Instructions: []string{"Grate"},
	})

	s.Require().NoError(err)
	s.Equal("breakfast", updated.MealSlot)

	fetched, err := s.service.GetRecipe(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Cheese omelette", fetched.Name)
	s.True(fetched.IsReady)
	s.Equal([]inbound.IngredientDTO{{Product: "cheese", Amount: 50, Unit: "g", Kind: "quantity"}}, fetched.Ingredients)
	s.Equal([]string{"Grate"}, fetched.Instructions)
}

func (s *CatalogServiceTestSuite) TestMissingRecipe_ShouldFailWithNotFound() {
	_, err := s.service.GetRecipe(s.ctx, 42)
	testutils.AssertErrorCode(s.T(), err, errors.CodeNotFound)

	_, err = s.service.UpdateRecipe(s.ctx, 42, omelette())
	testutils.AssertErrorCode(s.T(), err, errors.CodeNotFound)

	err = s.service.DeleteRecipe(s.ctx, 42)
	testutils.AssertErrorCode(s.T(), err, errors.CodeNotFound)
}

func (s *CatalogServiceTestSuite) TestDeleteRecipe() {
	created, err := s.service.CreateRecipe(s.ctx, omelette())
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteRecipe(s.ctx, created.ID))

	_, err = s.service.GetRecipe(s.ctx, created.ID)
	testutils.AssertErrorCode(s.T(), err, errors.CodeNotFound)
}

func (s *CatalogServiceTestSuite) TestListingAndSearch() {
	// Arrange
	for i, b := range []*testutils.RecipeBuilder{
		testutils.NewRecipeBuilder(1).WithName("Chicken soup").WithSlot(recipe.MealSlotLunch).WithQuantity("chicken", 0.5, "kg"),
		testutils.NewRecipeBuilder(2).WithName("Rice with chicken").WithSlot(recipe.MealSlotDinner).WithQuantity("rice", 200, "g").WithQuantity("chicken", 300, "g"),
		testutils.NewRecipeBuilder(3).WithName("Tea").WithSlot(recipe.MealSlotSnack).WithAvailability("tea", "bag"),
	} {
		_, err := s.service.CreateRecipe(s.ctx, b.Command())
		s.Require().NoError(err, "recipe %d", i)
	}

	s.Run("List_ShouldCountIngredientsNewestFirst", func() {
		all, err := s.service.ListRecipes(s.ctx)

		s.Require().NoError(err)
		s.Require().Len(all, 3)
		s.Equal("Tea", all[0].Name)
		s.Equal(2, all[1].IngredientCount)
	})

	s.Run("BySlot", func() {
		lunch, err := s.service.ListBySlot(s.ctx, "lunch")

		s.Require().NoError(err)
		s.Require().Len(lunch, 1)
		s.Equal("Chicken soup", lunch[0].Name)
	})

	s.Run("Search_ShouldIgnoreCase", func() {
		found, err := s.service.SearchRecipes(s.ctx, inbound.SearchRecipesQuery{Query: "CHICKEN"})
		s.Require().NoError(err)
		s.Len(found, 2)

		found, err = s.service.SearchRecipes(s.ctx, inbound.SearchRecipesQuery{Query: "chicken", MealSlot: "dinner"})
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal("Rice with chicken", found[0].Name)
	})

	s.Run("Search_UnknownSlot_ShouldFailValidation", func() {
		_, err := s.service.SearchRecipes(s.ctx, inbound.SearchRecipesQuery{MealSlot: "brunch"})
		testutils.AssertErrorCode(s.T(), err, errors.CodeValidationFailed)
	})

	s.Run("ProductsInUse_ShouldPreferNewestUnit", func() {
		products, err := s.service.ProductsInUse(s.ctx)

		s.Require().NoError(err)
		s.Equal(map[string]string{"chicken": "g", "rice": "g", "tea": "bag"}, products)
	})
}
