package routes

import (
	"foodgram/domain"
	"foodgram/internal/api/handlers"
	"foodgram/internal/middleware"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	RecipeHandler     handlers.RecipeHandler
	IngredientHandler handlers.IngredientHandler
	TagHandler        handlers.TagHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
	// MediaDir is served under /media/ when images are kept on local disk.
	MediaDir string
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(c.Middleware.MetricsMiddleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Recipe()
	c.Reference()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	if c.MediaDir != "" {
		c.App.Static(storage.MediaPrefix, c.MediaDir)
	}
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth")
	auth.Post("/token/login", c.UserHandler.Login)
}

// User registers the fixed paths ahead of /:id so they are not captured by it.
func (c *Config) User() {
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)
	required := c.Middleware.AuthMiddleware(c.JWTService)

	user := c.App.Group("/api/users")
	{
		user.Post("", c.UserHandler.Register)
		user.Get("", optional, c.UserHandler.GetUsers)
		user.Get("/me", required, c.UserHandler.Me)
		user.Get("/subscriptions", required, c.UserHandler.GetSubscriptions)
		user.Post("/set_password", required, c.UserHandler.SetPassword)

		user.Get("/:id", optional, c.UserHandler.GetUser)
		user.Delete("/:id", required, c.Middleware.OnlyAllowRoles(domain.RoleAdmin), c.UserHandler.DeleteUser)

		user.Get("/:id/subscribe", required, c.UserHandler.Subscribe)
		user.Post("/:id/subscribe", required, c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", required, c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Recipe() {
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)
	required := c.Middleware.AuthMiddleware(c.JWTService)

	recipe := c.App.Group("/api/recipes")
	{
		recipe.Get("", optional, c.RecipeHandler.GetRecipes)
		recipe.Post("", required, c.RecipeHandler.CreateRecipe)
		recipe.Get("/download_shopping_cart", required, c.RecipeHandler.DownloadShoppingCart)

		recipe.Get("/:id", optional, c.RecipeHandler.GetRecipeDetail)
		recipe.Patch("/:id", required, c.RecipeHandler.UpdateRecipe)
		recipe.Delete("/:id", required, c.RecipeHandler.DeleteRecipe)

		recipe.Get("/:id/favorite", required, c.RecipeHandler.AddFavorite)
		recipe.Post("/:id/favorite", required, c.RecipeHandler.AddFavorite)
		recipe.Delete("/:id/favorite", required, c.RecipeHandler.RemoveFavorite)

		recipe.Get("/:id/shopping_cart", required, c.RecipeHandler.AddToShoppingCart)
		recipe.Post("/:id/shopping_cart", required, c.RecipeHandler.AddToShoppingCart)
		recipe.Delete("/:id/shopping_cart", required, c.RecipeHandler.RemoveFromShoppingCart)
	}
}

func (c *Config) Reference() {
	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("", c.IngredientHandler.GetIngredients)
	ingredients.Get("/:id", c.IngredientHandler.GetIngredient)

	tags := c.App.Group("/api/tags")
	tags.Get("", c.TagHandler.GetTags)
	tags.Get("/:id", c.TagHandler.GetTag)
}
