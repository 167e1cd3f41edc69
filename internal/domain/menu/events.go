package menu

import (
	"time"

	"github.com/multivarka/kitchen/internal/domain/recipe"
)

// Menu change actions
const (
	ActionAssembled = "assembled"
	ActionOptimized = "optimized"
	ActionReplaced  = "replaced"
	ActionToggled   = "skip_toggled"
	ActionCleared   = "cleared"
)

// MenuChanged is raised whenever the current menu is written or cleared
type MenuChanged struct {
	Action     string            `json:"action"`
	Slots      []recipe.MealSlot `json:"slots,omitempty"`
	occurredAt time.Time
}

// NewMenuChanged creates a menu change event
func NewMenuChanged(action string, slots ...recipe.MealSlot) MenuChanged {
	return MenuChanged{Action: action, Slots: slots, occurredAt: time.Now()}
}

func (e MenuChanged) EventName() string     { return "menu.changed" }
func (e MenuChanged) OccurredAt() time.Time { return e.occurredAt }

// MealCooked is raised after a meal's ingredients were taken from the pantry
type MealCooked struct {
	MealSlot   recipe.MealSlot `json:"meal_slot"`
	Dish       string          `json:"dish"`
	Skipped    bool            `json:"skipped"`
	occurredAt time.Time
}

// NewMealCooked creates a meal cooked event
func NewMealCooked(slot recipe.MealSlot, dish string, skipped bool) MealCooked {
	return MealCooked{MealSlot: slot, Dish: dish, Skipped: skipped, occurredAt: time.Now()}
}

func (e MealCooked) EventName() string     { return "menu.meal_cooked" }
func (e MealCooked) OccurredAt() time.Time { return e.occurredAt }
