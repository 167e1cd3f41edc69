package recipe

import "time"

// RecipeChanged is raised after a recipe is created, updated or deleted
type RecipeChanged struct {
	RecipeID   uint   `json:"recipe_id"`
	Name       string `json:"name"`
	Action     string `json:"action"`
	occurredAt time.Time
}

// Recipe change actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// NewRecipeChanged creates a recipe change event
func NewRecipeChanged(id uint, name, action string) RecipeChanged {
	return RecipeChanged{RecipeID: id, Name: name, Action: action, occurredAt: time.Now()}
}

// EventName returns the event name
func (e RecipeChanged) EventName() string { return "recipe.changed" }

// OccurredAt returns when the event occurred
func (e RecipeChanged) OccurredAt() time.Time { return e.occurredAt }
