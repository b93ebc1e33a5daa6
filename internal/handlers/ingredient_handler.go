package handlers

import (
	"net/http"

	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// IngredientHandler handles ingredient HTTP requests
type IngredientHandler struct {
	ingredientRepository repositories.IngredientRepository
}

// NewIngredientHandler creates a new IngredientHandler
func NewIngredientHandler(ingredientRepo repositories.IngredientRepository) *IngredientHandler {
	return &IngredientHandler{ingredientRepository: ingredientRepo}
}

// RegisterIngredientRoutes registers ingredient routes
func (h *IngredientHandler) RegisterIngredientRoutes(g *echo.Group) {
	g.GET("/ingredients", h.ListIngredients)
	g.GET("/ingredients/:id", h.GetIngredient)
}

// ListIngredients lists ingredients, narrowed by the name query param as a
// prefix search.
func (h *IngredientHandler) ListIngredients(c echo.Context) error {
	ingredients, err := h.ingredientRepository.GetIngredients(c.QueryParam("name"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) GetIngredient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	ingredient, err := h.ingredientRepository.GetIngredientByID(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ingredient)
}
