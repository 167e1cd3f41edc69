// Package gorm provides GORM model definitions and repository
// implementations for the kitchen stores
package gorm

import (
	"time"
)

// ProductModel represents the GORM model for pantry products
type ProductModel struct {
	Name           string  `gorm:"type:varchar(100);primaryKey"`
	Quantity       float64 `gorm:"not null;default:0"`
	Unit           string  `gorm:"type:varchar(30);not null"`
	Kind           string  `gorm:"type:varchar(20);not null;default:'quantity'"`
	ExpirationDate *string `gorm:"type:varchar(10)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for ProductModel
func (ProductModel) TableName() string {
	return "products"
}

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(200);not null;index"`
	MealSlot  string    `gorm:"type:varchar(32);not null;index"`
	IsReady   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// Relationships
	Ingredients  []IngredientModel  `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Instructions []InstructionModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for RecipeModel
func (RecipeModel) TableName() string {
	return "recipes"
}

// IngredientModel represents one ingredient line of a recipe
type IngredientModel struct {
	ID       uint    `gorm:"primaryKey;autoIncrement"`
	RecipeID uint    `gorm:"not null;index"`
	Position int     `gorm:"not null"`
	Product  string  `gorm:"type:varchar(100);not null;index"`
	Amount   float64 `gorm:"not null;default:0"`
	Unit     string  `gorm:"type:varchar(30);not null"`
	Kind     string  `gorm:"type:varchar(20);not null;default:'quantity'"`
}

// TableName specifies the table name for IngredientModel
func (IngredientModel) TableName() string {
	return "recipe_ingredients"
}

// InstructionModel represents one cooking step of a recipe
type InstructionModel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	RecipeID uint   `gorm:"not null;index"`
	Step     int    `gorm:"not null"`
	Text     string `gorm:"type:text;not null"`
}

// TableName specifies the table name for InstructionModel
func (InstructionModel) TableName() string {
	return "recipe_instructions"
}

// currentMenuID is the key of the only current_menu row
const currentMenuID = 1

// CurrentMenuModel stores the serialized current menu as a singleton row
type CurrentMenuModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement:false"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for CurrentMenuModel
func (CurrentMenuModel) TableName() string {
	return "current_menu"
}

// AllModels returns the models managed by AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&ProductModel{},
		&RecipeModel{},
		&IngredientModel{},
		&InstructionModel{},
		&CurrentMenuModel{},
	}
}
