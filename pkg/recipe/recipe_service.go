package recipe

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/derived"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/relation"
	"foodgram/pkg/shopping"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const imageFolder = "recipes"

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page domain.PageRequest, viewerID string) (*domain.RecipeListResponse, error)
		GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (*domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (*domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (*domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		AddFavorite(ctx context.Context, recipeID string, userID string) (*domain.RecipeBrief, error)
		RemoveFavorite(ctx context.Context, recipeID string, userID string) error
		AddToShoppingCart(ctx context.Context, recipeID string, userID string) (*domain.RecipeBrief, error)
		RemoveFromShoppingCart(ctx context.Context, recipeID string, userID string) error
		DownloadShoppingCart(ctx context.Context, userID string, format string) (*ShoppingListFile, error)
	}

	ShoppingListFile struct {
		Content     []byte
		ContentType string
		FileName    string
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		ingredientRepository ingredient.IngredientRepository
		tagRepository        tag.TagRepository
		calculator           derived.Calculator
		mutator              relation.Mutator
		aggregator           shopping.Aggregator
		storage              storage.Storage
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	ingredientRepository ingredient.IngredientRepository,
	tagRepository tag.TagRepository,
	calculator derived.Calculator,
	mutator relation.Mutator,
	aggregator shopping.Aggregator,
	storage storage.Storage,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		ingredientRepository: ingredientRepository,
		tagRepository:        tagRepository,
		calculator:           calculator,
		mutator:              mutator,
		aggregator:           aggregator,
		storage:              storage,
	}
}

func actorID(userID string) (uuid.UUID, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}

func parseRecipeID(recipeID string) (uuid.UUID, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return uuid.Nil, domain.ErrRecipeNotFound
	}
	return id, nil
}

func parseFilter(filter domain.RecipeFilter, viewer uuid.UUID) (ListFilter, error) {
	parsed := ListFilter{
		Viewer:           viewer,
		IsFavorited:      filter.IsFavorited,
		IsInShoppingCart: filter.IsInShoppingCart,
	}
	if filter.AuthorID != "" {
		id, err := uuid.Parse(filter.AuthorID)
		if err != nil {
			return ListFilter{}, domain.ErrInvalidAuthorFilter
		}
		parsed.AuthorID = &id
	}
	for _, slug := range filter.Tags {
		if slug = strings.TrimSpace(slug); slug != "" {
			parsed.TagSlugs = append(parsed.TagSlugs, slug)
		}
	}
	return parsed, nil
}

func (s *recipeService) parseIngredients(ctx context.Context, lines []domain.RecipeIngredientRequest) ([]entities.RecipeIngredient, error) {
	if len(lines) == 0 {
		return nil, domain.ErrNoIngredients
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	res := make([]entities.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		id, err := uuid.Parse(line.ID)
		if err != nil {
			return nil, domain.ErrIngredientNotFound
		}
		if line.Amount < 1 {
			return nil, domain.ErrInvalidAmount
		}
		if _, dup := seen[id]; dup {
			return nil, domain.ErrDuplicateIngredient
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		res = append(res, entities.RecipeIngredient{IngredientID: id, Amount: line.Amount})
	}

	count, err := s.ingredientRepository.CountIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if count != int64(len(ids)) {
		return nil, domain.ErrIngredientNotFound
	}
	return res, nil
}

func (s *recipeService) parseTags(ctx context.Context, tagIDs []string) ([]entities.RecipeTag, error) {
	if len(tagIDs) == 0 {
		return nil, domain.ErrNoTags
	}

	seen := make(map[uuid.UUID]struct{}, len(tagIDs))
	ids := make([]uuid.UUID, 0, len(tagIDs))
	res := make([]entities.RecipeTag, 0, len(tagIDs))
	for _, raw := range tagIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.ErrTagNotFound
		}
		if _, dup := seen[id]; dup {
			return nil, domain.ErrDuplicateTag
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		res = append(res, entities.RecipeTag{TagID: id})
	}

	count, err := s.tagRepository.CountTagsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if count != int64(len(ids)) {
		return nil, domain.ErrTagNotFound
	}
	return res, nil
}

// storeImage uploads a data URI image and returns its public link.
func (s *recipeService) storeImage(ctx context.Context, dataURI string) (string, error) {
	img, err := storage.DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	key, err := s.storage.UploadFile(ctx, uuid.NewString()+img.Extension, img.Data, imageFolder, storage.AllowImage...)
	if err != nil {
		return "", err
	}
	return s.storage.GetPublicLinkKey(key), nil
}

func (s *recipeService) dropImage(ctx context.Context, link string) {
	key := s.storage.GetObjectKeyFromLink(link)
	if key == "" {
		return
	}
	if err := s.storage.DeleteFile(ctx, key); err != nil {
		zap.L().Warn("failed to delete recipe image", zap.String("key", key), zap.Error(err))
	}
}

func (s *recipeService) toResponses(ctx context.Context, viewer uuid.UUID, recipes []entities.Recipe) ([]domain.RecipeResponse, error) {
	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	recipeStates, err := s.calculator.RecipeStates(ctx, viewer, recipeIDs)
	if err != nil {
		return nil, err
	}
	authorStates, err := s.calculator.UserStates(ctx, viewer, authorIDs)
	if err != nil {
		return nil, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		state := recipeStates[r.ID]
		item := domain.RecipeResponse{
			ID:               r.ID.String(),
			Name:             r.Name,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			Image:            r.Image,
			Ingredients:      make([]domain.RecipeIngredientResponse, 0, len(r.Ingredients)),
			Tags:             make([]domain.TagResponse, 0, len(r.Tags)),
			IsFavorited:      state.IsFavorited,
			IsInShoppingCart: state.IsInShoppingCart,
			FavoritedCount:   state.FavoritedCount,
			PubDate:          r.PubDate,
		}
		if r.Author != nil {
			item.Author = user.ToUserResponse(*r.Author, authorStates[r.AuthorID])
		}
		for _, line := range r.Ingredients {
			if line.Ingredient == nil {
				continue
			}
			item.Ingredients = append(item.Ingredients, domain.RecipeIngredientResponse{
				ID:              line.IngredientID.String(),
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			})
		}
		for _, line := range r.Tags {
			if line.Tag != nil {
				item.Tags = append(item.Tags, tag.ToResponse(*line.Tag))
			}
		}
		sort.Slice(item.Ingredients, func(i, j int) bool { return item.Ingredients[i].Name < item.Ingredients[j].Name })
		sort.Slice(item.Tags, func(i, j int) bool { return item.Tags[i].Name < item.Tags[j].Name })
		res = append(res, item)
	}
	return res, nil
}

func (s *recipeService) detail(ctx context.Context, viewer uuid.UUID, id uuid.UUID) (*domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.toResponses(ctx, viewer, []entities.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &res[0], nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page domain.PageRequest, viewerID string) (*domain.RecipeListResponse, error) {
	viewer := derived.Viewer(viewerID)
	parsed, err := parseFilter(filter, viewer)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	recipes, total, err := s.recipeRepository.GetRecipes(ctx, parsed, page)
	if err != nil {
		return nil, err
	}

	res, err := s.toResponses(ctx, viewer, recipes)
	if err != nil {
		return nil, err
	}
	return &domain.RecipeListResponse{
		Recipes:    res,
		Pagination: domain.NewPagination(page, total),
	}, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (*domain.RecipeResponse, error) {
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, derived.Viewer(viewerID), id)
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (*domain.RecipeResponse, error) {
	author, err := actorID(userID)
	if err != nil {
		return nil, err
	}
	if req.CookingTime < 1 {
		return nil, domain.ErrInvalidCookingTime
	}
	ingredients, err := s.parseIngredients(ctx, req.Ingredients)
	if err != nil {
		return nil, err
	}
	tags, err := s.parseTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	image, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &entities.Recipe{
		AuthorID:    author,
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       image,
		Ingredients: ingredients,
		Tags:        tags,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		s.dropImage(ctx, image)
		return nil, err
	}

	return s.detail(ctx, author, recipe.ID)
}

func (s *recipeService) authoredRecipe(ctx context.Context, recipeID string, userID string) (*entities.Recipe, uuid.UUID, error) {
	actor, err := actorID(userID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if recipe.AuthorID != actor {
		return nil, uuid.Nil, domain.ErrUnauthorizedRecipeAccess
	}
	return recipe, actor, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (*domain.RecipeResponse, error) {
	recipe, actor, err := s.authoredRecipe(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		recipe.Name = strings.TrimSpace(*req.Name)
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.CookingTime != nil {
		if *req.CookingTime < 1 {
			return nil, domain.ErrInvalidCookingTime
		}
		recipe.CookingTime = *req.CookingTime
	}

	replaceIngredients := req.Ingredients != nil
	if replaceIngredients {
		if recipe.Ingredients, err = s.parseIngredients(ctx, req.Ingredients); err != nil {
			return nil, err
		}
	}
	replaceTags := req.Tags != nil
	if replaceTags {
		if recipe.Tags, err = s.parseTags(ctx, req.Tags); err != nil {
			return nil, err
		}
	}

	oldImage := ""
	if req.Image != nil {
		image, err := s.storeImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		oldImage, recipe.Image = recipe.Image, image
	}

	recipe.Author = nil
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, replaceIngredients, replaceTags); err != nil {
		if oldImage != "" {
			s.dropImage(ctx, recipe.Image)
		}
		return nil, err
	}
	if oldImage != "" {
		s.dropImage(ctx, oldImage)
	}

	return s.detail(ctx, actor, recipe.ID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	recipe, _, err := s.authoredRecipe(ctx, recipeID, userID)
	if err != nil {
		return err
	}
	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		return err
	}
	s.dropImage(ctx, recipe.Image)
	return nil
}

func (s *recipeService) toggle(ctx context.Context, kind relation.Kind, recipeID string, userID string, activate bool) (*domain.RecipeBrief, error) {
	actor, err := actorID(userID)
	if err != nil {
		return nil, err
	}
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return nil, err
	}

	if !activate {
		return nil, s.mutator.Deactivate(ctx, kind, actor, id)
	}
	if err := s.mutator.Activate(ctx, kind, actor, id); err != nil {
		return nil, err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.RecipeBrief{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID string, userID string) (*domain.RecipeBrief, error) {
	return s.toggle(ctx, relation.Favorite, recipeID, userID, true)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID string, userID string) error {
	_, err := s.toggle(ctx, relation.Favorite, recipeID, userID, false)
	return err
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, recipeID string, userID string) (*domain.RecipeBrief, error) {
	return s.toggle(ctx, relation.ShoppingCart, recipeID, userID, true)
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, recipeID string, userID string) error {
	_, err := s.toggle(ctx, relation.ShoppingCart, recipeID, userID, false)
	return err
}

func (s *recipeService) DownloadShoppingCart(ctx context.Context, userID string, format string) (*ShoppingListFile, error) {
	actor, err := actorID(userID)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = shopping.FormatPDF
	}
	contentType, fileName, err := shopping.ContentType(format)
	if err != nil {
		return nil, err
	}

	items, err := s.aggregator.ShoppingList(ctx, actor)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := shopping.Render(&buf, format, items); err != nil {
		return nil, err
	}
	metrics.ShoppingListDownloads.WithLabelValues(format).Inc()

	return &ShoppingListFile{
		Content:     buf.Bytes(),
		ContentType: contentType,
		FileName:    fileName,
	}, nil
}
