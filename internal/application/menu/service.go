// Package menu provides the application layer for the daily menu: random
// and cost-optimized assembly, single slot edits, cooking and shopping.
package menu

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/application/common"
	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/planning"
	"github.com/multivarka/kitchen/internal/domain/recipe"
	"github.com/multivarka/kitchen/internal/domain/shared"
	"github.com/multivarka/kitchen/internal/ports/inbound"
	"github.com/multivarka/kitchen/internal/ports/outbound"
	"github.com/multivarka/kitchen/pkg/errors"
)

// MenuService implements the menu use cases
type MenuService struct {
	menuRepo   outbound.MenuRepository
	recipeRepo outbound.RecipeRepository
	pantryRepo outbound.PantryRepository
	events     outbound.EventPublisher
	picker     planning.Picker
	clock      common.Clock
	logger     *zap.Logger
}

// NewMenuService creates a new menu service
func NewMenuService(
	menuRepo outbound.MenuRepository,
	recipeRepo outbound.RecipeRepository,
	pantryRepo outbound.PantryRepository,
	events outbound.EventPublisher,
	picker planning.Picker,
	clock common.Clock,
	logger *zap.Logger,
) inbound.MenuService {
	if events == nil {
		events = common.NopPublisher{}
	}
	if clock == nil {
		clock = common.SystemClock
	}
	if picker == nil {
		picker = common.NewRandomPicker(clock().UnixNano())
	}
	return &MenuService{
		menuRepo:   menuRepo,
		recipeRepo: recipeRepo,
		pantryRepo: pantryRepo,
		events:     events,
		picker:     picker,
		clock:      clock,
		logger:     logger.Named("menu-service"),
	}
}

// CurrentMenu returns the stored menu. When none exists a random one is
// assembled and stored first.
func (s *MenuService) CurrentMenu(ctx context.Context) (dto *inbound.MenuDTO, err error) {
	ctx, span := common.StartSpan(ctx, "menu.CurrentMenu")
	defer func() { common.EndSpan(span, err) }()

	current, err := s.menuRepo.Load(ctx)
	if err != nil {
		return nil, s.menuError("load menu", err)
	}
	if current != nil {
		out := common.MenuToDTO(current)
		return &out, nil
	}

	mixed, err := s.assembleMixed(ctx)
	if err != nil {
		return nil, s.menuError("assemble menu", err)
	}

	// another request may have stored a menu meanwhile; it wins
	assembled := false
	stored, err := s.menuRepo.Update(ctx, func(current *menu.CurrentMenu) (*menu.CurrentMenu, error) {
		assembled = current == nil
		if !assembled {
			return nil, nil
		}
		return mixed, nil
	})
	if err != nil {
		return nil, s.menuError("store menu", err)
	}

	if assembled {
		s.logger.Info("Assembled random menu", zap.Int("meals", stored.Len()))
		s.events.Publish(ctx, menu.NewMenuChanged(menu.ActionAssembled, stored.Slots()...))
	}

	out := common.MenuToDTO(stored)
	return &out, nil
}

// RefreshMenu clears the stored menu and assembles a new random one
func (s *MenuService) RefreshMenu(ctx context.Context) (*inbound.MenuDTO, error) {
	s.logger.Info("Refreshing menu")

	if err := s.ClearMenu(ctx); err != nil {
		return nil, err
	}
	return s.CurrentMenu(ctx)
}

// ClearMenu removes the stored menu. Clearing an absent menu succeeds.
func (s *MenuService) ClearMenu(ctx context.Context) (err error) {
	ctx, span := common.StartSpan(ctx, "menu.ClearMenu")
	defer func() { common.EndSpan(span, err) }()

	removed, err := s.menuRepo.Clear(ctx)
	if err != nil {
		s.logger.Error("Failed to clear menu", zap.Error(err))
		return common.PersistenceError("clear menu", err)
	}
	if removed {
		s.logger.Info("Cleared current menu")
		s.events.Publish(ctx, menu.NewMenuChanged(menu.ActionCleared))
	}
	return nil
}

// PreviewOptimizedMenu computes the cheapest menu for the current pantry
// without storing it
func (s *MenuService) PreviewOptimizedMenu(ctx context.Context) (dto *inbound.MenuDTO, err error) {
	ctx, span := common.StartSpan(ctx, "menu.PreviewOptimizedMenu")
	defer func() { common.EndSpan(span, err) }()

	current, err := s.menuRepo.Load(ctx)
	if err != nil {
		return nil, s.menuError("load menu", err)
	}

	candidates, snapshot, err := s.optimizationInputs(ctx)
	if err != nil {
		return nil, err
	}

	optimized, err := s.optimize(current, candidates, snapshot)
	if err != nil {
		return nil, s.menuError("optimize menu", err)
	}

	out := common.MenuToDTO(optimized)
	return &out, nil
}

// OptimizeMenu computes the cheapest menu, stores it and returns it with
// the shopping list it requires
func (s *MenuService) OptimizeMenu(ctx context.Context) (result *inbound.OptimizeResult, err error) {
	ctx, span := common.StartSpan(ctx, "menu.OptimizeMenu")
	defer func() { common.EndSpan(span, err) }()

	s.logger.Info("Optimizing menu")

	candidates, snapshot, err := s.optimizationInputs(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.menuRepo.Update(ctx, func(current *menu.CurrentMenu) (*menu.CurrentMenu, error) {
		return s.optimize(current, candidates, snapshot)
	})
	if err != nil {
		return nil, s.menuError("optimize menu", err)
	}

	shopping := common.ShoppingListToDTO(planning.ShoppingList(stored, snapshot))
	s.logger.Info("Menu optimized",
		zap.Int("meals", stored.Len()),
		zap.Int("items_to_buy", len(shopping.Items)),
		zap.Float64("total_need", shopping.TotalNeed),
	)
	s.events.Publish(ctx, menu.NewMenuChanged(menu.ActionOptimized, stored.Slots()...))

	return &inbound.OptimizeResult{
		Menu:         common.MenuToDTO(stored),
		ShoppingList: shopping,
		Message:      shoppingMessage(shopping),
	}, nil
}

// ReplaceSlot swaps the dish of one slot for a random different one from
// the catalog, keeping the slot's skip flag
func (s *MenuService) ReplaceSlot(ctx context.Context, slotName string) (result *inbound.SlotResult, err error) {
	ctx, span := common.StartSpan(ctx, "menu.ReplaceSlot", slotAttr(slotName))
	defer func() { common.EndSpan(span, err) }()

	slot, err := parseSlot(slotName)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Replacing meal", zap.String("meal_slot", string(slot)))

	options, err := s.recipeRepo.ListBySlot(ctx, slot)
	if err != nil {
		s.logger.Error("Failed to list recipes", zap.String("meal_slot", string(slot)), zap.Error(err))
		return nil, common.PersistenceError("list recipes by slot", err)
	}

	var chosen menu.MealSelection
	stored, err := s.menuRepo.Update(ctx, func(current *menu.CurrentMenu) (*menu.CurrentMenu, error) {
		if current == nil {
			return nil, menu.ErrNoCurrentMenu
		}

		existing, ok := current.Get(slot)
		if !ok {
			existing = menu.MealSelection{MealSlot: slot}
		}

		var err error
		chosen, err = planning.Replacement(existing, options, s.picker)
		if err != nil {
			return nil, err
		}

		next := current.Clone()
		next.Set(chosen)
		next.UpdatedAt = s.clock()
		return next, nil
	})
	if err != nil {
		return nil, s.slotError("replace meal", slot, err)
	}

	s.events.Publish(ctx, menu.NewMenuChanged(menu.ActionReplaced, slot))

	shopping, err := s.shoppingList(ctx, stored)
	if err != nil {
		return nil, err
	}

	return &inbound.SlotResult{
		Meal:         common.MealToDTO(chosen),
		ShoppingList: shopping,
		Message:      fmt.Sprintf("%s replaced with %q", slot.Title(), chosen.Recipe.Name),
	}, nil
}

// ToggleSkip flips the skip-cooking flag of a slot in the current menu
func (s *MenuService) ToggleSkip(ctx context.Context, slotName string) (result *inbound.SlotResult, err error) {
	ctx, span := common.StartSpan(ctx, "menu.ToggleSkip", slotAttr(slotName))
	defer func() { common.EndSpan(span, err) }()

	slot, err := parseSlot(slotName)
	if err != nil {
		return nil, err
	}

	var toggled menu.MealSelection
	stored, err := s.menuRepo.Update(ctx, func(current *menu.CurrentMenu) (*menu.CurrentMenu, error) {
		if current == nil {
			return nil, menu.ErrNoCurrentMenu
		}
		next := current.Clone()
		if _, err := next.ToggleSkip(slot); err != nil {
			return nil, err
		}
		next.UpdatedAt = s.clock()
		toggled, _ = next.Get(slot)
		return next, nil
	})
	if err != nil {
		return nil, s.slotError("toggle skip", slot, err)
	}

	s.logger.Info("Toggled skip cooking",
		zap.String("meal_slot", string(slot)),
		zap.Bool("skip_cooking", toggled.SkipCooking),
	)
	s.events.Publish(ctx, menu.NewMenuChanged(menu.ActionToggled, slot))

	shopping, err := s.shoppingList(ctx, stored)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("%s will be cooked", slot.Title())
	if toggled.SkipCooking {
		message = fmt.Sprintf("%s will not be cooked", slot.Title())
	}

	return &inbound.SlotResult{
		Meal:         common.MealToDTO(toggled),
		ShoppingList: shopping,
		Message:      message,
	}, nil
}

// CookMeal takes the ingredients of a slot's dish out of the pantry. A
// skipped meal leaves the pantry untouched.
func (s *MenuService) CookMeal(ctx context.Context, slotName string) (result *inbound.CookResult, err error) {
	ctx, span := common.StartSpan(ctx, "menu.CookMeal", slotAttr(slotName))
	defer func() { common.EndSpan(span, err) }()

	slot, err := parseSlot(slotName)
	if err != nil {
		return nil, err
	}

	current, err := s.menuRepo.Load(ctx)
	if err != nil {
		return nil, s.menuError("load menu", err)
	}
	if current == nil {
		return nil, errors.NewNoCurrentMenuError()
	}
	sel, ok := current.Get(slot)
	if !ok {
		return nil, errors.NewMealSlotNotFoundError(string(slot))
	}

	s.logger.Info("Cooking meal",
		zap.String("meal_slot", string(slot)),
		zap.String("dish", sel.Recipe.Name),
		zap.Bool("skip_cooking", sel.SkipCooking),
	)

	var changed []pantry.Product
	if !sel.SkipCooking {
		err = s.pantryRepo.Update(ctx, func(snapshot pantry.Snapshot) error {
			changed = planning.Consume(sel, snapshot)
			return nil
		})
		if err != nil {
			s.logger.Error("Failed to consume ingredients", zap.String("meal_slot", string(slot)), zap.Error(err))
			return nil, common.PersistenceError("consume ingredients", err)
		}
	}

	events := make([]shared.DomainEvent, 0, len(changed)+1)
	events = append(events, menu.NewMealCooked(slot, sel.Recipe.Name, sel.SkipCooking))
	for _, p := range changed {
		events = append(events, pantry.NewProductChanged(p.Name, pantry.ActionConsumed, p.Quantity))
	}
	s.events.Publish(ctx, events...)

	message := fmt.Sprintf("%s cooked: %d product(s) updated", sel.Recipe.Name, len(changed))
	if sel.SkipCooking {
		message = fmt.Sprintf("%s is not cooked today, pantry unchanged", slot.Title())
	}

	return &inbound.CookResult{
		MealSlot: string(slot),
		Dish:     sel.Recipe.Name,
		Skipped:  sel.SkipCooking,
		Updated:  common.ProductsToDTO(changed, s.clock()),
		Message:  message,
	}, nil
}

// ShoppingList lists what must be bought to cook the current menu. Without
// a menu the list is empty.
func (s *MenuService) ShoppingList(ctx context.Context) (dto *inbound.ShoppingListDTO, err error) {
	ctx, span := common.StartSpan(ctx, "menu.ShoppingList")
	defer func() { common.EndSpan(span, err) }()

	current, err := s.menuRepo.Load(ctx)
	if err != nil {
		return nil, s.menuError("load menu", err)
	}

	shopping, err := s.shoppingList(ctx, current)
	if err != nil {
		return nil, err
	}
	return &shopping, nil
}

func (s *MenuService) assembleMixed(ctx context.Context) (*menu.CurrentMenu, error) {
	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	mixed, err := planning.Mix(candidates, s.picker)
	if err != nil {
		return nil, err
	}
	mixed.UpdatedAt = s.clock()
	return mixed, nil
}

// optimizationInputs loads the catalog and the pantry the optimizer scores
func (s *MenuService) optimizationInputs(ctx context.Context) (planning.Candidates, pantry.Snapshot, error) {
	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := s.pantryRepo.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load pantry", zap.Error(err))
		return nil, nil, common.PersistenceError("load pantry", err)
	}
	return candidates, snapshot, nil
}

func (s *MenuService) optimize(current *menu.CurrentMenu, candidates planning.Candidates, snapshot pantry.Snapshot) (*menu.CurrentMenu, error) {
	now := s.clock()
	optimized, err := planning.Optimize(current, candidates, snapshot, now)
	if err != nil {
		return nil, err
	}
	optimized.UpdatedAt = now
	return optimized, nil
}

// candidates loads the catalog per slot, newest first
func (s *MenuService) candidates(ctx context.Context) (planning.Candidates, error) {
	out := make(planning.Candidates)
	for _, slot := range recipe.MealSlots() {
		recipes, err := s.recipeRepo.ListBySlot(ctx, slot)
		if err != nil {
			return nil, common.PersistenceError("list recipes by slot", err)
		}
		out[slot] = recipes
	}
	return out, nil
}

func (s *MenuService) shoppingList(ctx context.Context, m *menu.CurrentMenu) (inbound.ShoppingListDTO, error) {
	if m == nil {
		return common.ShoppingListToDTO(nil), nil
	}
	snapshot, err := s.pantryRepo.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load pantry", zap.Error(err))
		return inbound.ShoppingListDTO{}, common.PersistenceError("load pantry", err)
	}
	return common.ShoppingListToDTO(planning.ShoppingList(m, snapshot)), nil
}

// menuError translates domain failures of whole-menu operations
func (s *MenuService) menuError(operation string, err error) error {
	switch {
	case stderrors.Is(err, menu.ErrNoCandidates):
		s.logger.Warn("No recipes to choose from", zap.String("operation", operation))
		return errors.NewNoCandidatesError("menu")
	case stderrors.Is(err, menu.ErrNoCurrentMenu):
		return errors.NewNoCurrentMenuError()
	}
	s.logger.Error("Menu operation failed", zap.String("operation", operation), zap.Error(err))
	return common.PersistenceError(operation, err)
}

// slotError translates domain failures of single slot operations
func (s *MenuService) slotError(operation string, slot recipe.MealSlot, err error) error {
	switch {
	case stderrors.Is(err, menu.ErrSlotNotFound):
		return errors.NewMealSlotNotFoundError(string(slot))
	case stderrors.Is(err, menu.ErrNoCandidates):
		s.logger.Warn("No recipes for slot", zap.String("meal_slot", string(slot)))
		return errors.NewNoCandidatesError(string(slot))
	}
	return s.menuError(operation, err)
}

func parseSlot(name string) (recipe.MealSlot, error) {
	slot, err := recipe.ParseMealSlot(name)
	if err != nil {
		return "", errors.NewValidationError(err.Error()).WithMetadata("meal_slot", name)
	}
	return slot, nil
}

func shoppingMessage(list inbound.ShoppingListDTO) string {
	if list.TotalNeed == 0 {
		return "Everything for the menu is in stock"
	}
	return fmt.Sprintf("Menu optimized, %d product(s) to buy", len(list.Items))
}

func slotAttr(slot string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("meal_slot", slot))
}
