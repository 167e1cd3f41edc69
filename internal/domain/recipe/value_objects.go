package recipe

import (
	"fmt"
	"strings"

	"github.com/multivarka/kitchen/internal/domain/pantry"
)

// MealSlot is one of the fixed daily meal categories
type MealSlot string

const (
	MealSlotBreakfast       MealSlot = "breakfast"
	MealSlotSecondBreakfast MealSlot = "second_breakfast"
	MealSlotLunch           MealSlot = "lunch"
	MealSlotSnack           MealSlot = "snack"
	MealSlotDinner          MealSlot = "dinner"
)

// MealSlots lists every slot in the order meals happen during the day
func MealSlots() []MealSlot {
	return []MealSlot{
		MealSlotBreakfast,
		MealSlotSecondBreakfast,
		MealSlotLunch,
		MealSlotSnack,
		MealSlotDinner,
	}
}

// IsValid reports whether the slot is known
func (s MealSlot) IsValid() bool {
	switch s {
	case MealSlotBreakfast, MealSlotSecondBreakfast, MealSlotLunch, MealSlotSnack, MealSlotDinner:
		return true
	}
	return false
}

// Title returns a human readable slot name
func (s MealSlot) Title() string {
	switch s {
	case MealSlotBreakfast:
		return "Breakfast"
	case MealSlotSecondBreakfast:
		return "Second breakfast"
	case MealSlotLunch:
		return "Lunch"
	case MealSlotSnack:
		return "Snack"
	case MealSlotDinner:
		return "Dinner"
	}
	return string(s)
}

// ParseMealSlot parses a slot name, accepting dashes and any casing
func ParseMealSlot(s string) (MealSlot, error) {
	slot := MealSlot(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !slot.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMealSlot, s)
	}
	return slot, nil
}

// Ingredient is a product requirement inside a recipe
type Ingredient struct {
	Product string      `json:"product"`
	Amount  float64     `json:"amount"`
	Unit    string      `json:"unit"`
	Kind    pantry.Kind `json:"kind"`
}

// Validate validates the ingredient
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Product) == "" {
		return ErrIngredientName
	}
	if strings.TrimSpace(i.Unit) == "" {
		return ErrIngredientUnit
	}
	if i.Amount < 0 {
		return ErrNegativeAmount
	}
	if i.Kind != "" && !i.Kind.IsValid() {
		return ErrIngredientKind
	}
	return nil
}

func (i Ingredient) normalized() Ingredient {
	i.Product = strings.TrimSpace(i.Product)
	i.Unit = strings.TrimSpace(i.Unit)
	if i.Kind == "" {
		i.Kind = pantry.KindQuantity
	}
	return i
}
