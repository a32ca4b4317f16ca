package routes

import (
	"github.com/gofiber/fiber/v2"

	"foodshare/internal/api/handlers"
	"foodshare/internal/middleware"
	"foodshare/pkg/jwt"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	SubscriptionHandler handlers.SubscriptionHandler
	TagHandler          handlers.TagHandler
	IngredientHandler   handlers.IngredientHandler
	RecipeHandler       handlers.RecipeHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Auth()
	c.Users()
	c.Tags()
	c.Ingredients()
	c.Recipes()
	c.ShortLinks()
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth/token")
	{
		auth.Post("/login", c.UserHandler.Login)
	}
}

func (c *Config) Users() {
	users := c.App.Group("/api/users")
	{
		users.Post("", c.UserHandler.Register)
		users.Get("", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.UserHandler.GetUsers)
		users.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		users.Put("/me/avatar", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateAvatar)
		users.Delete("/me/avatar", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.DeleteAvatar)
		users.Post("/set_password", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.SetPassword)
		users.Get("/subscriptions", c.Middleware.AuthMiddleware(c.JWTService), c.SubscriptionHandler.GetSubscriptions)
		users.Get("/:id", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.UserHandler.GetUserByID)
		users.Post("/:id/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.SubscriptionHandler.Subscribe)
		users.Delete("/:id/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.SubscriptionHandler.Unsubscribe)
	}
}

func (c *Config) Tags() {
	tags := c.App.Group("/api/tags")
	{
		tags.Get("", c.TagHandler.GetTags)
		tags.Get("/:id", c.TagHandler.GetTagDetail)
	}
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/ingredients")
	{
		ingredients.Get("", c.IngredientHandler.GetIngredients)
		ingredients.Get("/:id", c.IngredientHandler.GetIngredientDetail)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/recipes")
	{
		recipes.Get("", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.RecipeHandler.GetRecipes)
		recipes.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.CreateRecipe)

		// download_shopping_cart must register before the :id routes
		recipes.Get("/download_shopping_cart", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.DownloadShoppingCart)

		recipes.Get("/:id", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.RecipeHandler.GetRecipeDetail)
		recipes.Patch("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.DeleteRecipe)

		recipes.Get("/:id/get-link", c.RecipeHandler.GetShortLink)
		recipes.Post("/:id/favorite", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.AddFavorite)
		recipes.Delete("/:id/favorite", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.RemoveFavorite)
		recipes.Post("/:id/shopping_cart", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.AddToCart)
		recipes.Delete("/:id/shopping_cart", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.RemoveFromCart)
	}
}

func (c *Config) ShortLinks() {
	c.App.Get("/s/:hash", c.RecipeHandler.RedirectShortLink)
}
