package recipe

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/derived"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// ListFilter is a parsed domain.RecipeFilter.
	ListFilter struct {
		Viewer           uuid.UUID
		AuthorID         *uuid.UUID
		TagSlugs         []string
		IsFavorited      *bool
		IsInShoppingCart *bool
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, replaceIngredients, replaceTags bool) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter ListFilter, page domain.PageRequest) ([]entities.Recipe, int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Preload("Tags.Tag")
}

func createLines(tx *gorm.DB, recipe *entities.Recipe) error {
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].RecipeID = recipe.ID
	}
	for i := range recipe.Tags {
		recipe.Tags[i].RecipeID = recipe.ID
	}
	if len(recipe.Ingredients) > 0 {
		if err := tx.Omit(clause.Associations).Create(&recipe.Ingredients).Error; err != nil {
			return err
		}
	}
	if len(recipe.Tags) > 0 {
		if err := tx.Omit(clause.Associations).Create(&recipe.Tags).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateRecipe stores the recipe with its ingredient and tag lines in a
// single transaction.
func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return createLines(tx, recipe)
	})
}

// UpdateRecipe saves the scalar fields and, when asked, swaps the whole
// ingredient or tag list. Readers never see a half replaced list.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, replaceIngredients, replaceTags bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}

		lines := &entities.Recipe{ID: recipe.ID}
		if replaceIngredients {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
				return err
			}
			lines.Ingredients = recipe.Ingredients
		}
		if replaceTags {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeTag{}).Error; err != nil {
				return err
			}
			lines.Tags = recipe.Tags
		}
		return createLines(tx, lines)
	})
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := withDetails(r.db.WithContext(ctx)).Where("recipes.id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func applyFilter(db *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.AuthorID != nil {
		db = db.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := db.Session(&gorm.Session{NewDB: true}).
			Model(&entities.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		db = db.Where("recipes.id IN (?)", tagged)
	}
	if filter.IsFavorited != nil {
		if *filter.IsFavorited {
			db = db.Where(derived.FavoritedBy(filter.Viewer))
		} else {
			db = db.Where("NOT ?", derived.FavoritedBy(filter.Viewer))
		}
	}
	if filter.IsInShoppingCart != nil {
		if *filter.IsInShoppingCart {
			db = db.Where(derived.InShoppingCartOf(filter.Viewer))
		} else {
			db = db.Where("NOT ?", derived.InShoppingCartOf(filter.Viewer))
		}
	}
	return db
}

// GetRecipes returns one page of recipes, newest first, and the number of
// recipes matching the filter.
func (r *recipeRepository) GetRecipes(ctx context.Context, filter ListFilter, page domain.PageRequest) ([]entities.Recipe, int64, error) {
	var recipes []entities.Recipe
	var count int64

	if err := applyFilter(r.db.WithContext(ctx).Model(&entities.Recipe{}), filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	err := withDetails(applyFilter(r.db.WithContext(ctx), filter)).
		Order("recipes.pub_date desc").
		Order("recipes.id").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}
