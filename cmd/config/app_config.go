package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"foodgram/domain"
	"foodgram/internal/api/handlers"
	"foodgram/internal/api/presenters"
	"foodgram/internal/api/routes"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/derived"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/relation"
	"foodgram/pkg/shopping"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// errorHandler catches errors that escape handlers, mostly fiber's own
// 404/405 and recovered panics.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return presenters.ErrorResponse(c, fe.Code, fe.Message, err)
	}
	return presenters.ServiceErrorResponse(c, domain.MessageFailedProcessRequest, err)
}

func NewApp(db *gorm.DB, store storage.Storage, mailer mailing.Mailer) (*fiber.App, error) {
	utils.InitValidator()
	validator := utils.Validate

	secret := utils.GetConfig("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	ttl := time.Duration(utils.GetConfigInt("JWT_TTL_MINUTES", 1440)) * time.Minute
	appURL := utils.GetConfig("APP_URL")

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		BodyLimit:    16 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware(utils.GetConfig("CORS_ORIGINS"))

	app.Use(recover.New())

	// setting up logging and limiter
	if path := utils.GetConfig("ACCESS_LOG_PATH"); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			return nil, err
		}
		app.Use(logger.New(logger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			Output:     file,
		}))
	}

	if rate := utils.GetConfigInt("RATE_LIMIT_PER_SECOND", 20); rate > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        rate,
			Expiration: 1 * time.Second,
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/metrics")
			},
		}))
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	tagRepository := tag.NewTagRepository(db)

	// Core
	calculator := derived.NewCalculator(db)
	mutator := relation.NewMutator(db)
	aggregator := shopping.NewAggregator(db)

	// Service
	jwtService := jwt.NewJWTService(secret, ttl)
	userService := user.NewUserService(userRepository, calculator, mutator, jwtService, mailer, appURL)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		ingredientRepository,
		tagRepository,
		calculator,
		mutator,
		aggregator,
		store,
	)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	tagService := tag.NewTagService(tagRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	tagHandler := handlers.NewTagHandler(tagService)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		RecipeHandler:     recipeHandler,
		IngredientHandler: ingredientHandler,
		TagHandler:        tagHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	if utils.GetConfig("AWS_S3_BUCKET") == "" {
		routesConfig.MediaDir = utils.GetConfig("MEDIA_DIR")
	}
	routesConfig.Setup()

	zap.L().Info("application wired",
		zap.Duration("jwt_ttl", ttl),
		zap.String("app_url", appURL),
	)
	return app, nil
}
