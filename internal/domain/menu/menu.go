// Package menu models the single active daily menu: one recipe snapshot
// per meal slot with a per-slot skip-cooking flag.
package menu

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/multivarka/kitchen/internal/domain/recipe"
)

// MealSelection is the recipe chosen for one slot. The recipe is a copy
// taken at selection time, later catalog edits do not flow into it.
type MealSelection struct {
	MealSlot    recipe.MealSlot `json:"meal_slot"`
	Recipe      recipe.Recipe   `json:"recipe"`
	SkipCooking bool            `json:"skip_cooking"`
}

// NewSelection snapshots a recipe into a selection for its slot
func NewSelection(slot recipe.MealSlot, r recipe.Recipe, skip bool) MealSelection {
	return MealSelection{MealSlot: slot, Recipe: r.Clone(), SkipCooking: skip}
}

// CurrentMenu maps each slot to at most one selection
type CurrentMenu struct {
	Selections map[recipe.MealSlot]MealSelection `json:"selections"`
	UpdatedAt  time.Time                         `json:"updated_at"`
}

// New creates an empty menu
func New() *CurrentMenu {
	return &CurrentMenu{Selections: make(map[recipe.MealSlot]MealSelection)}
}

// Get returns the selection for a slot
func (m *CurrentMenu) Get(slot recipe.MealSlot) (MealSelection, bool) {
	if m == nil {
		return MealSelection{}, false
	}
	sel, ok := m.Selections[slot]
	return sel, ok
}

// Set stores a selection under its slot, replacing any previous one
func (m *CurrentMenu) Set(sel MealSelection) {
	if m.Selections == nil {
		m.Selections = make(map[recipe.MealSlot]MealSelection)
	}
	m.Selections[sel.MealSlot] = sel
}

// ToggleSkip flips the skip-cooking flag of a slot and returns the new value
func (m *CurrentMenu) ToggleSkip(slot recipe.MealSlot) (bool, error) {
	sel, ok := m.Get(slot)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	sel.SkipCooking = !sel.SkipCooking
	m.Selections[slot] = sel
	return sel.SkipCooking, nil
}

// Len returns the number of filled slots
func (m *CurrentMenu) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Selections)
}

// Ordered returns selections in daily slot order
func (m *CurrentMenu) Ordered() []MealSelection {
	out := make([]MealSelection, 0, m.Len())
	for _, slot := range recipe.MealSlots() {
		if sel, ok := m.Get(slot); ok {
			out = append(out, sel)
		}
	}
	return out
}

// Slots returns the filled slots in daily order
func (m *CurrentMenu) Slots() []recipe.MealSlot {
	sels := m.Ordered()
	slots := make([]recipe.MealSlot, 0, len(sels))
	for _, sel := range sels {
		slots = append(slots, sel.MealSlot)
	}
	return slots
}

// Clone returns a deep copy of the menu
func (m *CurrentMenu) Clone() *CurrentMenu {
	if m == nil {
		return nil
	}
	out := &CurrentMenu{
		Selections: make(map[recipe.MealSlot]MealSelection, len(m.Selections)),
		UpdatedAt:  m.UpdatedAt,
	}
	for slot, sel := range m.Selections {
		sel.Recipe = sel.Recipe.Clone()
		out.Selections[slot] = sel
	}
	return out
}

// Encode serializes the menu into the blob stored by persistence
func Encode(m *CurrentMenu) ([]byte, error) {
	return json.Marshal(m)
}

// Decode restores a menu from its stored blob
func Decode(data []byte) (*CurrentMenu, error) {
	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptMenu, err)
	}
	if m.Selections == nil {
		m.Selections = make(map[recipe.MealSlot]MealSelection)
	}
	for slot := range m.Selections {
		if !slot.IsValid() {
			return nil, fmt.Errorf("%w: unknown slot %q", ErrCorruptMenu, slot)
		}
	}
	return m, nil
}
