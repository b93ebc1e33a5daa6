package router

import (
	"log"

	"github.com/anonto42/foodgram/backend/internal/handlers"
	"github.com/anonto42/foodgram/backend/internal/middleware"
	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/anonto42/foodgram/backend/internal/serializers"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
		&models.Subscription{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	tagRepo := repositories.NewPostgresTagRepository(pgdb)
	ingredientRepo := repositories.NewPostgresIngredientRepository(pgdb)
	recipeRepo := repositories.NewPostgresRecipeRepository(pgdb)
	relationRepo := repositories.NewPostgresRelationRepository(pgdb)
	shoppingListRepo := repositories.NewPostgresShoppingListRepository(pgdb)

	serializer := serializers.New(relationRepo, recipeRepo)

	// Reads are open to anonymous viewers; handlers require an
	// authenticated viewer on every mutation.
	api := e.Group("/api")
	api.Use(middleware.OptionalJWTAuthMiddleware())

	// User and subscription routes
	userHandler := handlers.NewUserHandler(userRepo, relationRepo, serializer)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Tag routes
	tagHandler := handlers.NewTagHandler(tagRepo)
	tagHandler.RegisterTagRoutes(api)
	log.Println("Tag routes configured.")

	// Ingredient routes
	ingredientHandler := handlers.NewIngredientHandler(ingredientRepo)
	ingredientHandler.RegisterIngredientRoutes(api)
	log.Println("Ingredient routes configured.")

	// Recipe routes (incl. favorites, shopping cart, shopping-list download)
	recipeHandler := handlers.NewRecipeHandler(recipeRepo, relationRepo, shoppingListRepo, serializer)
	recipeHandler.RegisterRecipeRoutes(api)
	e.GET("/media/recipes/:id", recipeHandler.ServeImage)
	log.Println("Recipe routes configured.")

	log.Println("All routes configured.")
}
