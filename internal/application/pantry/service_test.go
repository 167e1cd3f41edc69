package pantry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/application/common"
	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/multivarka/kitchen/internal/infrastructure/persistence/memory"
	"github.com/multivarka/kitchen/internal/infrastructure/security"
	"github.com/multivarka/kitchen/internal/ports/inbound"
	"github.com/multivarka/kitchen/pkg/errors"
	"github.com/multivarka/kitchen/test/testutils"
)

var today = time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

type PantryServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	pantry  *memory.PantryRepository
	recipes *memory.RecipeRepository
	events  *testutils.MockEventPublisher
	service inbound.PantryService
}

func TestPantryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PantryServiceTestSuite))
}

func (s *PantryServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.pantry = memory.NewPantryRepository()
	s.recipes = memory.NewRecipeRepository()
	s.events = testutils.NewMockEventPublisher()
	logger := zap.NewNop()
	s.service = NewPantryService(
		s.pantry, s.recipes, s.events,
		security.NewValidationService(logger),
		common.FixedClock(today),
		logger,
	)
}

func (s *PantryServiceTestSuite) product(name string) pantry.Product {
	p, err := s.pantry.Find(s.ctx, name)
	s.Require().NoError(err)
	return *p
}

func (s *PantryServiceTestSuite) TestCreateProduct() {
	s.Run("Valid_ShouldInsertEmptyProduct", func() {
		dto, err := s.service.CreateProduct(s.ctx, inbound.CreateProductCommand{
			Name: "milk", Unit: "ml", ExpirationDate: "2025-05-02",
		})

		s.Require().NoError(err)
		s.Zero(dto.Quantity)
		s.Equal("quantity", dto.Kind)
		s.Equal("expiring_soon", dto.Status)
		s.Equal(1, *dto.DaysLeft)
		s.Equal("2025-05-02", s.product("milk").Expiration)
	})

	s.Run("Duplicate_ShouldConflict", func() {
		_, err := s.service.CreateProduct(s.ctx, inbound.CreateProductCommand{Name: "milk", Unit: "l"})
		testutils.AssertErrorCode(s.T(), err, errors.CodeConflict)
		s.Equal("ml", s.product("milk").Unit)
	})

	s.Run("InvalidKind_ShouldFailValidation", func() {
		_, err := s.service.CreateProduct(s.ctx, inbound.CreateProductCommand{Name: "tea", Unit: "bag", Kind: "boolean"})
		testutils.AssertErrorCode(s.T(), err, errors.CodeValidationFailed)
	})

	s.Run("MalformedDate_ShouldFailValidation", func() {
		_, err := s.service.CreateProduct(s.ctx, inbound.CreateProductCommand{Name: "tea", Unit: "bag", ExpirationDate: "01.05.2025"})
		testutils.AssertErrorCode(s.T(), err, errors.CodeValidationFailed)
	})
}

func (s *PantryServiceTestSuite) TestBuyProduct() {
	s.Run("Absent_ShouldInsert", func() {
		dto, err := s.service.BuyProduct(s.ctx, inbound.BuyProductCommand{
			Name: "eggs", Quantity: 10, Unit: "pcs", ExpirationDate: "2025-05-06",
		})

		s.Require().NoError(err)
		s.Equal(10.0, dto.Quantity)
		s.Equal("expiring_week", dto.Status)
	})

	s.Run("Present_ShouldAccumulateAndOverwriteDate", func() {
		dto, err := s.service.BuyProduct(s.ctx, inbound.BuyProductCommand{Name: "eggs", Quantity: 6, Unit: "pcs"})

		s.Require().NoError(err)
		s.Equal(16.0, dto.Quantity)
		s.Empty(dto.ExpirationDate)
		s.Equal("none", dto.Status)
	})

	s.Run("Availability_ShouldSaturateAtOne", func() {
		for i := 0; i < 3; i++ {
			_, err := s.service.BuyProduct(s.ctx, inbound.BuyProductCommand{
				Name: "tea", Quantity: 25, Unit: "bag", Kind: "availability",
			})
			s.Require().NoError(err)
		}
		s.Equal(1.0, s.product("tea").Quantity)
	})

	s.Run("NegativeQuantity_ShouldFailValidation", func() {
		_, err := s.service.BuyProduct(s.ctx, inbound.BuyProductCommand{Name: "eggs", Quantity: -1, Unit: "pcs"})
		testutils.AssertErrorCode(s.T(), err, errors.CodeValidationFailed)
		s.Equal(16.0, s.product("eggs").Quantity)
	})

	s.Run("MissingUnit_ShouldFailValidation", func() {
		_, err := s.service.BuyProduct(s.ctx, inbound.BuyProductCommand{Name: "eggs", Quantity: 1})
		testutils.AssertErrorCode(s.T(), err, errors.CodeValidationFailed)
	})
}

func (s *PantryServiceTestSuite) TestUpdateProduct() {
	s.Require().NoError(s.pantry.Save(s.ctx, pantry.Snapshot{
		"eggs": {Name: "eggs", Quantity: 6, Unit: "pcs", Kind: pantry.KindQuantity, Expiration: "2025-05-03"},
		"tea":  {Name: "tea", Quantity: 1, Unit: "bag", Kind: pantry.KindAvailability, Expiration: "2025-09-01"},
	}))

	s.Run("Quantity_ShouldKeepDate", func() {
		dto, err := s.service.UpdateProduct(s.ctx, inbound.UpdateProductCommand{Name: "eggs", Quantity: ptr(4.0)})

		s.Require().NoError(err)
		s.Equal(4.0, dto.Quantity)
		s.Equal("2025-05-03", dto.ExpirationDate)
	})

	s.Run("ExpirationOnly_ShouldOverwrite", func() {
		dto, err := s.service.UpdateProduct(s.ctx, inbound.UpdateProductCommand{
			Name: "eggs", SetExpiration: true, ExpirationDate: ptr("2025-04-30"),
		})

		s.Require().NoError(err)
		s.Equal("expired", dto.Status)
		s.Equal(4.0, dto.Quantity)
	})

	s.Run("NullExpiration_ShouldClear", func() {
		dto, err := s.service.UpdateProduct(s.ctx, inbound.UpdateProductCommand{Name: "eggs", SetExpiration: true})

		s.Require().NoError(err)
		s.Empty(dto.ExpirationDate)
		s.Nil(dto.DaysLeft)
	})

	s.Run("AvailabilityToZero_ShouldClearDate", func() {
		dto, err := s.service.UpdateProduct(s.ctx, inbound.UpdateProductCommand{Name: "tea", Quantity: ptr(0.0)})

		s.Require().NoError(err)
		s.Zero(dto.Quantity)
		s.Empty(dto.ExpirationDate)
	})

	s.Run("AvailabilityAboveOne_ShouldNormalize", func() {
		dto, err := s.service.UpdateProduct(s.ctx, inbound.UpdateProductCommand{
			Name: "tea", Quantity: ptr(5.0), SetExpiration: true, ExpirationDate: ptr("2025-06-01"),
		})

		s.Require().NoError(err)
		s.Equal(1.0, dto.Quantity)
		s.Equal("2025-06-01", dto.ExpirationDate)
	})

	s.Run("Absent_ShouldFailWithNotFound", func() {
		_, err := s.service.UpdateProduct(s.ctx, inbound.UpdateProductCommand{Name: "caviar", Quantity: ptr(1.0)})
		testutils.AssertErrorCode(s.T(), err, errors.CodeNotFound)

		_, err = s.service.UpdateProduct(s.ctx, inbound.UpdateProductCommand{
			Name: "caviar", Quantity: ptr(1.0), SetExpiration: true,
		})
		testutils.AssertErrorCode(s.T(), err, errors.CodeNotFound)
	})

	s.Run("Nothing_ShouldFailValidation", func() {
		_, err := s.service.UpdateProduct(s.ctx, inbound.UpdateProductCommand{Name: "eggs"})
		testutils.AssertErrorCode(s.T(), err, errors.CodeValidationFailed)
	})

	s.Run("NegativeQuantity_ShouldFailValidation", func() {
		_, err := s.service.UpdateProduct(s.ctx, inbound.UpdateProductCommand{Name: "eggs", Quantity: ptr(-2.0)})
		testutils.AssertErrorCode(s.T(), err, errors.CodeValidationFailed)
	})
}

func (s *PantryServiceTestSuite) TestDeleteProduct() {
	s.Require().NoError(s.pantry.Insert(s.ctx, pantry.Product{Name: "rice", Unit: "g", Kind: pantry.KindQuantity}))

	s.Require().NoError(s.service.DeleteProduct(s.ctx, "rice"))

	err := s.service.DeleteProduct(s.ctx, "rice")
	testutils.AssertErrorCode(s.T(), err, errors.CodeNotFound)

	_, err = s.service.GetProduct(s.ctx, "rice")
	testutils.AssertErrorCode(s.T(), err, errors.CodeNotFound)
}

func (s *PantryServiceTestSuite) TestImportAndList_ShouldReplaceAndSortCaseInsensitively() {
	s.Require().NoError(s.pantry.Insert(s.ctx, pantry.Product{Name: "old", Unit: "g", Kind: pantry.KindQuantity}))

	_, err := s.service.ImportPantry(s.ctx, inbound.ImportPantryCommand{Products: []inbound.ProductInput{
		{Name: "carrots", Quantity: 3, Unit: "pcs"},
		{Name: "Beef", Quantity: 1.5, Unit: "kg", ExpirationDate: "2025-05-01"},
		{Name: "water", Quantity: 7, Unit: "l", Kind: "availability"},
	}})
	s.Require().NoError(err)

	view, err := s.service.ListProducts(s.ctx)

	s.Require().NoError(err)
	s.Equal(3, view.Total)
	names := []string{view.Products[0].Name, view.Products[1].Name, view.Products[2].Name}
	s.Equal([]string{"Beef", "carrots", "water"}, names)
	s.Equal("expires_today", view.Products[0].Status)
	s.Equal(1.0, view.Products[2].Quantity)
}

func (s *PantryServiceTestSuite) TestImport_InvalidProduct_ShouldKeepPantry() {
	s.Require().NoError(s.pantry.Insert(s.ctx, pantry.Product{Name: "old", Unit: "g", Kind: pantry.KindQuantity}))

	_, err := s.service.ImportPantry(s.ctx, inbound.ImportPantryCommand{Products: []inbound.ProductInput{
		{Name: "carrots", Quantity: 3, Unit: "pcs"},
		{Name: "", Quantity: 1, Unit: "kg"},
	}})

	testutils.AssertErrorCode(s.T(), err, errors.CodeValidationFailed)
	s.Equal("old", s.product("old").Name)
}

func (s *PantryServiceTestSuite) TestSyncWithRecipes() {
	s.Run("EmptyCatalog_ShouldReportNoCandidates", func() {
		_, err := s.service.SyncWithRecipes(s.ctx)
		testutils.AssertErrorCode(s.T(), err, errors.CodeNoCandidates)
	})

	// Arrange
	s.Require().NoError(s.pantry.Save(s.ctx, pantry.Snapshot{
		"eggs":   {Name: "eggs", Quantity: 6, Unit: "piece", Kind: pantry.KindQuantity},
		"caviar": {Name: "caviar", Quantity: 1, Unit: "jar", Kind: pantry.KindQuantity},
	}))
	_, err := s.recipes.Create(s.ctx, testutils.NewRecipeBuilder(1).
		WithName("Omelette").
		WithSlot(recipe.MealSlotBreakfast).
		WithQuantity("eggs", 3, "pcs").
		WithAvailability("salt", "pinch").
		Build())
	s.Require().NoError(err)

	// Act
	report, err := s.service.SyncWithRecipes(s.ctx)

	// Assert
	s.Require().NoError(err)
	s.Equal([]string{"caviar"}, report.Removed)
	s.Equal([]string{"salt"}, report.Added)
	s.Equal([]inbound.UnitChange{{Product: "eggs", From: "piece", To: "pcs"}}, report.UnitsChanged)

	snap, err := s.pantry.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(6.0, snap["eggs"].Quantity, "quantity survives a unit change")
	s.Equal(pantry.KindAvailability, snap["salt"].Kind)
	s.Zero(snap["salt"].Quantity)
}

func (s *PantryServiceTestSuite) TestSyncWithRecipes_ShouldPromoteAvailabilityKind() {
	// Arrange
	s.Require().NoError(s.pantry.Save(s.ctx, pantry.Snapshot{
		"sugar": {Name: "sugar", Quantity: 500, Unit: "g", Kind: pantry.KindQuantity, Expiration: "2026-01-01"},
		"milk":  {Name: "milk", Quantity: 0, Unit: "ml", Kind: pantry.KindQuantity},
		"flour": {Name: "flour", Quantity: 300, Unit: "g", Kind: pantry.KindQuantity},
	}))
	_, err := s.recipes.Create(s.ctx, testutils.NewRecipeBuilder(1).
		WithName("Pancakes").
		WithSlot(recipe.MealSlotBreakfast).
		WithQuantity("flour", 200, "g").
		WithAvailability("sugar", "g").
		WithAvailability("milk", "ml").
		Build())
	s.Require().NoError(err)

	// Act
	report, err := s.service.SyncWithRecipes(s.ctx)

	// Assert
	s.Require().NoError(err)
	s.True(report.Changed())
	s.Equal([]string{"milk", "sugar"}, report.KindsChanged)
	s.Empty(report.UnitsChanged)

	sugar := s.product("sugar")
	s.Equal(pantry.KindAvailability, sugar.Kind)
	s.Equal(1.0, sugar.Quantity, "stocked product stays in stock")
	s.Equal("2026-01-01", sugar.Expiration)

	milk := s.product("milk")
	s.Equal(pantry.KindAvailability, milk.Kind)
	s.Zero(milk.Quantity)

	flour := s.product("flour")
	s.Equal(pantry.KindQuantity, flour.Kind)
	s.Equal(300.0, flour.Quantity)
}

func (s *PantryServiceTestSuite) TestSeedDefaults_ShouldOnlyFillEmptyPantry() {
	n, err := s.service.SeedDefaults(s.ctx)
	s.Require().NoError(err)
	s.Equal(len(pantry.DefaultProducts()), n)

	again, err := s.service.SeedDefaults(s.ctx)
	s.Require().NoError(err)
	s.Zero(again)

	s.Equal(pantry.KindAvailability, s.product("water").Kind)
	s.Zero(s.product("eggs").Quantity)
}
