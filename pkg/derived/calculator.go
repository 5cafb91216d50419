// Package derived computes per-viewer state over recipes and users: favorite
// and cart flags, subscription flags and the aggregate counts shown next to
// them. Everything is evaluated in SQL with EXISTS and COUNT sub-selects so a
// page of results costs one extra query no matter its size.
package derived

import (
	"context"

	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeState struct {
		IsFavorited      bool
		IsInShoppingCart bool
		FavoritedCount   int64
	}

	UserState struct {
		IsSubscribed bool
		RecipesCount int64
	}

	Calculator interface {
		RecipeStates(ctx context.Context, viewer uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]RecipeState, error)
		UserStates(ctx context.Context, viewer uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]UserState, error)
	}

	calculator struct {
		db *gorm.DB
	}

	recipeStateRow struct {
		ID               uuid.UUID
		IsFavorited      bool
		IsInShoppingCart bool
		FavoritedCount   int64
	}

	userStateRow struct {
		ID           uuid.UUID
		IsSubscribed bool
		RecipesCount int64
	}
)

func NewCalculator(db *gorm.DB) Calculator {
	return &calculator{db: db}
}

// FavoritedBy is true for rows of recipes the viewer has favorited. A nil
// viewer matches nothing. It is meant to be used inside queries on recipes.
func FavoritedBy(viewer uuid.UUID) clause.Expr {
	return gorm.Expr("EXISTS (SELECT 1 FROM favorites WHERE favorites.recipe_id = recipes.id AND favorites.user_id = ?)", viewer)
}

// InShoppingCartOf is true for rows of recipes in the viewer's cart.
func InShoppingCartOf(viewer uuid.UUID) clause.Expr {
	return gorm.Expr("EXISTS (SELECT 1 FROM shopping_cart_items WHERE shopping_cart_items.recipe_id = recipes.id AND shopping_cart_items.user_id = ?)", viewer)
}

func FavoritedCount() clause.Expr {
	return gorm.Expr("(SELECT COUNT(*) FROM favorites WHERE favorites.recipe_id = recipes.id)")
}

// SubscribedBy is true for rows of users the viewer follows. It is meant to
// be used inside queries on users.
func SubscribedBy(viewer uuid.UUID) clause.Expr {
	return gorm.Expr("EXISTS (SELECT 1 FROM follows WHERE follows.author_id = users.id AND follows.user_id = ?)", viewer)
}

func RecipesCount() clause.Expr {
	return gorm.Expr("(SELECT COUNT(*) FROM recipes WHERE recipes.author_id = users.id)")
}

func (c *calculator) RecipeStates(ctx context.Context, viewer uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]RecipeState, error) {
	states := make(map[uuid.UUID]RecipeState, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return states, nil
	}

	var rows []recipeStateRow
	err := c.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select(
			"recipes.id AS id, ? AS is_favorited, ? AS is_in_shopping_cart, ? AS favorited_count",
			FavoritedBy(viewer), InShoppingCartOf(viewer), FavoritedCount(),
		).
		Where("recipes.id IN ?", recipeIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		states[row.ID] = RecipeState{
			IsFavorited:      row.IsFavorited,
			IsInShoppingCart: row.IsInShoppingCart,
			FavoritedCount:   row.FavoritedCount,
		}
	}
	return states, nil
}

func (c *calculator) UserStates(ctx context.Context, viewer uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]UserState, error) {
	states := make(map[uuid.UUID]UserState, len(userIDs))
	if len(userIDs) == 0 {
		return states, nil
	}

	var rows []userStateRow
	err := c.db.WithContext(ctx).
		Model(&entities.User{}).
		Select(
			"users.id AS id, ? AS is_subscribed, ? AS recipes_count",
			SubscribedBy(viewer), RecipesCount(),
		).
		Where("users.id IN ?", userIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		states[row.ID] = UserState{
			IsSubscribed: row.IsSubscribed,
			RecipesCount: row.RecipesCount,
		}
	}
	return states, nil
}

// Viewer turns an optional authenticated user id into the value the
// expressions above expect; anything unparsable is an anonymous viewer.
func Viewer(userID string) uuid.UUID {
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil
	}
	return id
}
