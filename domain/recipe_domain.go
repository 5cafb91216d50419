package domain

import (
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessRemoveFavorite  = "recipe removed from favorites"
	MessageSuccessAddShoppingCart = "recipe added to shopping cart"
	MessageSuccessRemoveCart      = "recipe removed from shopping cart"

	MessageFailedGetRecipes       = "failed to get recipes"
	MessageFailedGetRecipeDetail  = "failed to get recipe detail"
	MessageFailedCreateRecipe     = "failed to create recipe"
	MessageFailedUpdateRecipe     = "failed to update recipe"
	MessageFailedDeleteRecipe     = "failed to delete recipe"
	MessageFailedAddFavorite      = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite   = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart  = "failed to add recipe to shopping cart"
	MessageFailedRemoveCart       = "failed to remove recipe from shopping cart"
	MessageFailedDownloadShopping = "failed to generate shopping list"

	ErrRecipeNotFound           = NewError(KindNotFound, "recipe not found")
	ErrUnauthorizedRecipeAccess = NewError(KindPermissionDenied, "only the author can modify this recipe")
	ErrAlreadyFavorited         = NewError(KindConflict, "recipe already in favorites")
	ErrAlreadyUnfavorited       = NewError(KindConflict, "recipe already removed from favorites")
	ErrAlreadyInShoppingCart    = NewError(KindConflict, "recipe already in shopping cart")
	ErrAlreadyOutOfShoppingCart = NewError(KindConflict, "recipe already removed from shopping cart")
	ErrInvalidImage             = NewFieldError(KindValidation, "image", "image must be a base64 data URI of a png, jpeg, gif or webp picture")
	ErrInvalidAmount            = NewFieldError(KindValidation, "ingredients", "ingredient amount must be positive")
	ErrDuplicateIngredient      = NewFieldError(KindValidation, "ingredients", "ingredients must be unique")
	ErrDuplicateTag             = NewFieldError(KindValidation, "tags", "tags must be unique")
	ErrUnsupportedFormat        = NewFieldError(KindValidation, "format", "format must be pdf or txt")
	ErrNoIngredients            = NewFieldError(KindValidation, "ingredients", "at least one ingredient is required")
	ErrNoTags                   = NewFieldError(KindValidation, "tags", "at least one tag is required")
	ErrInvalidCookingTime       = NewFieldError(KindValidation, "cooking_time", "cooking time must be at least one minute")
	ErrInvalidAuthorFilter      = NewFieldError(KindValidation, "author", "author must be a valid id")
	ErrInvalidFavoritedFilter   = NewFieldError(KindValidation, "is_favorited", "is_favorited must be 0 or 1")
	ErrInvalidCartFilter        = NewFieldError(KindValidation, "is_in_shopping_cart", "is_in_shopping_cart must be 0 or 1")
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1,max=32000"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
		Image       string                    `json:"image" validate:"required"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
	}

	// UpdateRecipeRequest is a partial update: nil fields are left untouched,
	// a non-nil ingredient or tag list replaces the current one.
	UpdateRecipeRequest struct {
		Name        *string                   `json:"name" validate:"omitempty,max=200"`
		Text        *string                   `json:"text" validate:"omitempty"`
		CookingTime *int                      `json:"cooking_time" validate:"omitempty,min=1"`
		Image       *string                   `json:"image" validate:"omitempty"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"omitempty,min=1,dive"`
		Tags        []string                  `json:"tags" validate:"omitempty,min=1,dive,uuid"`
	}

	RecipeFilter struct {
		AuthorID         string
		Tags             []string
		IsFavorited      *bool
		IsInShoppingCart *bool
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Author           UserResponse               `json:"author"`
		Name             string                     `json:"name"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
		Image            string                     `json:"image"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		Tags             []TagResponse              `json:"tags"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		FavoritedCount   int64                      `json:"favorited_count"`
		PubDate          time.Time                  `json:"pub_date"`
	}

	RecipeBrief struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeListResponse struct {
		Recipes    []RecipeResponse `json:"recipes"`
		Pagination Pagination       `json:"pagination"`
	}

	// ShoppingListItem is one consolidated line of a user's shopping list.
	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int64  `json:"amount"`
	}
)
