// Package pantry provides the application layer for the household pantry
// This implements the use cases defined in the inbound ports
package pantry

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/application/common"
	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/multivarka/kitchen/internal/domain/shared"
	"github.com/multivarka/kitchen/internal/infrastructure/security"
	"github.com/multivarka/kitchen/internal/ports/inbound"
	"github.com/multivarka/kitchen/internal/ports/outbound"
	"github.com/multivarka/kitchen/pkg/errors"
)

// PantryService implements the pantry use cases
type PantryService struct {
	pantryRepo outbound.PantryRepository
	recipeRepo outbound.RecipeRepository
	events     outbound.EventPublisher
	validator  *security.ValidationService
	clock      common.Clock
	logger     *zap.Logger
}

// NewPantryService creates a new pantry service
func NewPantryService(
	pantryRepo outbound.PantryRepository,
	recipeRepo outbound.RecipeRepository,
	events outbound.EventPublisher,
	validator *security.ValidationService,
	clock common.Clock,
	logger *zap.Logger,
) inbound.PantryService {
	if events == nil {
		events = common.NopPublisher{}
	}
	if clock == nil {
		clock = common.SystemClock
	}
	return &PantryService{
		pantryRepo: pantryRepo,
		recipeRepo: recipeRepo,
		events:     events,
		validator:  validator,
		clock:      clock,
		logger:     logger.Named("pantry-service"),
	}
}

// ListProducts returns every product sorted by name with its expiration status
func (s *PantryService) ListProducts(ctx context.Context) (*inbound.PantryView, error) {
	ctx, span := common.StartSpan(ctx, "pantry.ListProducts")
	defer span.End()

	snapshot, err := s.pantryRepo.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load pantry", zap.Error(err))
		return nil, common.PersistenceError("load pantry", err)
	}

	products := common.ProductsToDTO(snapshot.Sorted(), s.clock())
	return &inbound.PantryView{Products: products, Total: len(products)}, nil
}

// GetProduct returns a single product
func (s *PantryService) GetProduct(ctx context.Context, name string) (*inbound.ProductDTO, error) {
	ctx, span := common.StartSpan(ctx, "pantry.GetProduct", productAttr(name))
	defer span.End()

	product, err := s.pantryRepo.Find(ctx, name)
	if err != nil {
		return nil, s.lookupError("find product", name, err)
	}

	dto := common.ProductToDTO(*product, s.clock())
	return &dto, nil
}

// CreateProduct registers a new, empty product
func (s *PantryService) CreateProduct(ctx context.Context, cmd inbound.CreateProductCommand) (dto *inbound.ProductDTO, err error) {
	ctx, span := common.StartSpan(ctx, "pantry.CreateProduct", productAttr(cmd.Name))
	defer func() { common.EndSpan(span, err) }()

	s.logger.Info("Creating product", zap.String("product", cmd.Name), zap.String("unit", cmd.Unit))

	if err := s.validator.Validate(cmd); err != nil {
		return nil, err
	}

	kind, _ := pantry.ParseKind(cmd.Kind)
	product, err := pantry.NewProduct(cmd.Name, 0, cmd.Unit, kind, cmd.ExpirationDate)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.pantryRepo.Insert(ctx, product); err != nil {
		if stderrors.Is(err, pantry.ErrProductExists) {
			s.logger.Warn("Product already exists", zap.String("product", product.Name))
			return nil, errors.NewProductExistsError(product.Name)
		}
		s.logger.Error("Failed to insert product", zap.String("product", product.Name), zap.Error(err))
		return nil, common.PersistenceError("insert product", err)
	}

	s.publish(ctx, pantry.NewProductChanged(product.Name, pantry.ActionCreated, product.Quantity))

	out := common.ProductToDTO(product, s.clock())
	return &out, nil
}

// BuyProduct records a purchase, adding to an existing product or
// inserting a new one
func (s *PantryService) BuyProduct(ctx context.Context, cmd inbound.BuyProductCommand) (dto *inbound.ProductDTO, err error) {
	ctx, span := common.StartSpan(ctx, "pantry.BuyProduct", productAttr(cmd.Name))
	defer func() { common.EndSpan(span, err) }()

	s.logger.Info("Recording purchase",
		zap.String("product", cmd.Name),
		zap.Float64("quantity", cmd.Quantity),
		zap.String("unit", cmd.Unit),
	)

	if err := s.validator.Validate(cmd); err != nil {
		return nil, err
	}

	kind, _ := pantry.ParseKind(cmd.Kind)
	product, err := s.pantryRepo.IncrementOrInsert(ctx, pantry.Addition{
		Name:       strings.TrimSpace(cmd.Name),
		Amount:     cmd.Quantity,
		Unit:       strings.TrimSpace(cmd.Unit),
		Kind:       kind,
		Expiration: strings.TrimSpace(cmd.ExpirationDate),
	})
	if err != nil {
		s.logger.Error("Failed to record purchase", zap.String("product", cmd.Name), zap.Error(err))
		return nil, common.PersistenceError("record purchase", err)
	}

	s.publish(ctx, pantry.NewProductChanged(product.Name, pantry.ActionUpdated, product.Quantity))

	out := common.ProductToDTO(product, s.clock())
	return &out, nil
}

// UpdateProduct overwrites the quantity and/or the expiration date
func (s *PantryService) UpdateProduct(ctx context.Context, cmd inbound.UpdateProductCommand) (dto *inbound.ProductDTO, err error) {
	ctx, span := common.StartSpan(ctx, "pantry.UpdateProduct", productAttr(cmd.Name))
	defer func() { common.EndSpan(span, err) }()

	s.logger.Info("Updating product", zap.String("product", cmd.Name))

	if err := s.validator.Validate(cmd); err != nil {
		return nil, err
	}
	if cmd.Quantity == nil && !cmd.SetExpiration {
		return nil, errors.NewValidationError("nothing to update: provide quantity or expiration_date")
	}

	expiration := ""
	if cmd.SetExpiration && cmd.ExpirationDate != nil {
		expiration = strings.TrimSpace(*cmd.ExpirationDate)
		if expiration != "" {
			if _, ok := pantry.ParseDate(expiration); !ok {
				return nil, errors.NewValidationError(pantry.ErrInvalidExpiration.Error())
			}
		}
	}

	switch {
	case cmd.Quantity != nil && cmd.SetExpiration:
		err = s.pantryRepo.Update(ctx, func(snapshot pantry.Snapshot) error {
			product, ok := snapshot.Lookup(cmd.Name)
			if !ok {
				return errors.NewProductNotFoundError(cmd.Name)
			}
			product.SetExpiration(expiration)
			product.SetQuantity(*cmd.Quantity)
			snapshot[cmd.Name] = product
			return nil
		})
	case cmd.Quantity != nil:
		err = s.requireFound(cmd.Name)(s.pantryRepo.SetQuantity(ctx, cmd.Name, *cmd.Quantity))
	default:
		err = s.requireFound(cmd.Name)(s.pantryRepo.SetExpiration(ctx, cmd.Name, expiration))
	}
	if err != nil {
		return nil, s.lookupError("update product", cmd.Name, err)
	}

	product, err := s.pantryRepo.Find(ctx, cmd.Name)
	if err != nil {
		return nil, s.lookupError("find product", cmd.Name, err)
	}

	s.publish(ctx, pantry.NewProductChanged(product.Name, pantry.ActionUpdated, product.Quantity))

	out := common.ProductToDTO(*product, s.clock())
	return &out, nil
}

// DeleteProduct removes a product from the pantry
func (s *PantryService) DeleteProduct(ctx context.Context, name string) (err error) {
	ctx, span := common.StartSpan(ctx, "pantry.DeleteProduct", productAttr(name))
	defer func() { common.EndSpan(span, err) }()

	s.logger.Info("Deleting product", zap.String("product", name))

	if err := s.requireFound(name)(s.pantryRepo.Delete(ctx, name)); err != nil {
		return s.lookupError("delete product", name, err)
	}

	s.publish(ctx, pantry.NewProductChanged(name, pantry.ActionDeleted, 0))
	return nil
}

// ImportPantry replaces the whole pantry with the given products
func (s *PantryService) ImportPantry(ctx context.Context, cmd inbound.ImportPantryCommand) (view *inbound.PantryView, err error) {
	ctx, span := common.StartSpan(ctx, "pantry.ImportPantry")
	defer func() { common.EndSpan(span, err) }()

	s.logger.Info("Importing pantry", zap.Int("products", len(cmd.Products)))

	if err := s.validator.Validate(cmd); err != nil {
		return nil, err
	}

	snapshot := make(pantry.Snapshot, len(cmd.Products))
	for _, in := range cmd.Products {
		kind, _ := pantry.ParseKind(in.Kind)
		product, err := pantry.NewProduct(in.Name, in.Quantity, in.Unit, kind, in.ExpirationDate)
		if err != nil {
			return nil, errors.NewValidationError(err.Error()).WithMetadata("product", in.Name)
		}
		snapshot[product.Name] = product
	}

	if err := s.pantryRepo.Save(ctx, snapshot); err != nil {
		s.logger.Error("Failed to save pantry", zap.Error(err))
		return nil, common.PersistenceError("save pantry", err)
	}

	events := make([]shared.DomainEvent, 0, len(snapshot))
	for _, p := range snapshot.Sorted() {
		events = append(events, pantry.NewProductChanged(p.Name, pantry.ActionSynced, p.Quantity))
	}
	s.publish(ctx, events...)

	products := common.ProductsToDTO(snapshot.Sorted(), s.clock())
	return &inbound.PantryView{Products: products, Total: len(products)}, nil
}

// SyncWithRecipes aligns the pantry with the products the catalog uses:
// unused products are removed, missing ones are added empty and units
// follow the recipes.
func (s *PantryService) SyncWithRecipes(ctx context.Context) (report *inbound.SyncReport, err error) {
	ctx, span := common.StartSpan(ctx, "pantry.SyncWithRecipes")
	defer func() { common.EndSpan(span, err) }()

	s.logger.Info("Syncing pantry with recipes")

	recipes, err := s.recipeRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list recipes", zap.Error(err))
		return nil, common.PersistenceError("list recipes", err)
	}

	used := usedProducts(recipes)
	if len(used) == 0 {
		return nil, errors.NewNoCandidatesError("recipe ingredients")
	}

	report = &inbound.SyncReport{
		Removed:      []string{},
		Added:        []string{},
		UnitsChanged: []inbound.UnitChange{},
		KindsChanged: []string{},
	}
	err = s.pantryRepo.Update(ctx, func(snapshot pantry.Snapshot) error {
		for name := range snapshot {
			if _, ok := used[name]; !ok {
				delete(snapshot, name)
				report.Removed = append(report.Removed, name)
			}
		}
		for name, u := range used {
			product, ok := snapshot[name]
			if !ok {
				snapshot[name] = pantry.Product{Name: name, Unit: u.unit, Kind: u.kind}
				report.Added = append(report.Added, name)
				continue
			}
			if product.Unit != u.unit {
				report.UnitsChanged = append(report.UnitsChanged, inbound.UnitChange{
					Product: name,
					From:    product.Unit,
					To:      u.unit,
				})
				product.Unit = u.unit
			}
			if u.kind == pantry.KindAvailability && product.Kind != pantry.KindAvailability {
				product.Kind = pantry.KindAvailability
				product.SetQuantity(product.Quantity)
				report.KindsChanged = append(report.KindsChanged, name)
			}
			snapshot[name] = product
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to sync pantry", zap.Error(err))
		return nil, common.PersistenceError("sync pantry", err)
	}

	sort.Strings(report.Removed)
	sort.Strings(report.Added)
	sort.Strings(report.KindsChanged)
	sort.Slice(report.UnitsChanged, func(i, j int) bool {
		return report.UnitsChanged[i].Product < report.UnitsChanged[j].Product
	})

	s.logger.Info("Pantry synced",
		zap.Int("removed", len(report.Removed)),
		zap.Int("added", len(report.Added)),
		zap.Int("units_changed", len(report.UnitsChanged)),
		zap.Int("kinds_changed", len(report.KindsChanged)),
	)

	if report.Changed() {
		events := make([]shared.DomainEvent, 0, len(report.Removed)+len(report.Added)+len(report.UnitsChanged)+len(report.KindsChanged))
		for _, name := range report.Removed {
			events = append(events, pantry.NewProductChanged(name, pantry.ActionDeleted, 0))
		}
		for _, name := range report.Added {
			events = append(events, pantry.NewProductChanged(name, pantry.ActionCreated, 0))
		}
		for _, c := range report.UnitsChanged {
			events = append(events, pantry.NewProductChanged(c.Product, pantry.ActionSynced, 0))
		}
		for _, name := range report.KindsChanged {
			events = append(events, pantry.NewProductChanged(name, pantry.ActionSynced, 0))
		}
		s.publish(ctx, events...)
	}

	return report, nil
}

// SeedDefaults fills an empty pantry with the starter products and returns
// how many were inserted
func (s *PantryService) SeedDefaults(ctx context.Context) (n int, err error) {
	ctx, span := common.StartSpan(ctx, "pantry.SeedDefaults")
	defer func() { common.EndSpan(span, err) }()

	var events []shared.DomainEvent
	err = s.pantryRepo.Update(ctx, func(snapshot pantry.Snapshot) error {
		if len(snapshot) > 0 {
			return nil
		}
		for _, p := range pantry.DefaultProducts() {
			snapshot[p.Name] = p
			events = append(events, pantry.NewProductChanged(p.Name, pantry.ActionCreated, 0))
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to seed pantry", zap.Error(err))
		return 0, common.PersistenceError("seed pantry", err)
	}

	if len(events) > 0 {
		s.logger.Info("Seeded default pantry", zap.Int("products", len(events)))
		s.publish(ctx, events...)
	}
	return len(events), nil
}

type usage struct {
	unit string
	kind pantry.Kind
}

// usedProducts collects each product referenced by the catalog. The unit
// of the most recently listed recipe wins; any availability use makes the
// product availability-tracked.
func usedProducts(recipes []recipe.Recipe) map[string]usage {
	used := make(map[string]usage)
	for i := len(recipes) - 1; i >= 0; i-- {
		for _, ing := range recipes[i].Ingredients {
			u := used[ing.Product]
			u.unit = ing.Unit
			if u.kind != pantry.KindAvailability {
				u.kind = pantry.EffectiveKind(ing.Kind, pantry.KindQuantity)
			}
			used[ing.Product] = u
		}
	}
	return used
}

// requireFound turns a false "found" result into a not-found error
func (s *PantryService) requireFound(name string) func(bool, error) error {
	return func(found bool, err error) error {
		if err != nil {
			return err
		}
		if !found {
			return errors.NewProductNotFoundError(name)
		}
		return nil
	}
}

func (s *PantryService) lookupError(operation, name string, err error) error {
	if stderrors.Is(err, pantry.ErrProductNotFound) {
		return errors.NewProductNotFoundError(name)
	}
	if errors.Is(err, errors.CodeNotFound) {
		return err
	}
	s.logger.Error("Pantry operation failed",
		zap.String("operation", operation),
		zap.String("product", name),
		zap.Error(err),
	)
	return common.PersistenceError(operation, err)
}

func (s *PantryService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) > 0 {
		s.events.Publish(ctx, events...)
	}
}

func productAttr(name string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("product", name))
}
