package shopping

import (
	"context"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	Aggregator interface {
		ShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error)
	}

	aggregator struct {
		db *gorm.DB
	}
)

func NewAggregator(db *gorm.DB) Aggregator {
	return &aggregator{db: db}
}

// ShoppingList sums the ingredient amounts of every recipe in the user's
// cart, one line per (name, measurement unit), ordered by name then unit.
func (a *aggregator) ShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error) {
	cart := a.db.WithContext(ctx).
		Model(&entities.ShoppingCartItem{}).
		Select("recipe_id").
		Where("user_id = ?", userID)

	items := make([]domain.ShoppingListItem, 0)
	err := a.db.WithContext(ctx).
		Model(&entities.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)", cart).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
