package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/anonto42/foodgram/backend/internal/serializers"
	"github.com/anonto42/foodgram/backend/pkg/images"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RecipeHandler handles recipe HTTP requests, including the favorite and
// shopping-cart sub-resources and the shopping-list download.
type RecipeHandler struct {
	recipeRepository       repositories.RecipeRepository
	relationRepository     repositories.RelationRepository
	shoppingListRepository repositories.ShoppingListRepository
	serializer             *serializers.Serializer
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(
	recipeRepo repositories.RecipeRepository,
	relationRepo repositories.RelationRepository,
	shoppingListRepo repositories.ShoppingListRepository,
	serializer *serializers.Serializer,
) *RecipeHandler {
	return &RecipeHandler{
		recipeRepository:       recipeRepo,
		relationRepository:     relationRepo,
		shoppingListRepository: shoppingListRepo,
		serializer:             serializer,
	}
}

// RegisterRecipeRoutes registers recipe-related routes
func (h *RecipeHandler) RegisterRecipeRoutes(g *echo.Group) {
	g.GET("/recipes", h.ListRecipes)
	g.POST("/recipes", h.CreateRecipe)
	g.GET("/recipes/download_shopping_cart", h.DownloadShoppingCart)
	g.GET("/recipes/:id", h.GetRecipe)
	g.PUT("/recipes/:id", h.ReplaceRecipe)
	g.DELETE("/recipes/:id", h.DeleteRecipe)
	g.POST("/recipes/:id/favorite", h.AddFavorite)
	g.DELETE("/recipes/:id/favorite", h.RemoveFavorite)
	g.POST("/recipes/:id/shopping_cart", h.AddToShoppingCart)
	g.DELETE("/recipes/:id/shopping_cart", h.RemoveFromShoppingCart)
}

// ListRecipes returns a paginated recipe listing. Filters: author (user id),
// tags (slug, repeatable), is_favorited and is_in_shopping_cart (viewer-
// relative, ignored for anonymous viewers).
func (h *RecipeHandler) ListRecipes(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	page, limit, offset := paginationParams(c)

	filter := repositories.RecipeFilter{
		TagSlugs: c.QueryParams()["tags"],
	}
	if author := c.QueryParam("author"); author != "" {
		id, err := strconv.ParseUint(author, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid author")
		}
		filter.AuthorID = uint(id)
	}
	if flagParam(c, "is_favorited") {
		filter.FavoritedBy = viewerID
	}
	if flagParam(c, "is_in_shopping_cart") {
		filter.InCartOf = viewerID
	}

	recipes, total, err := h.recipeRepository.GetRecipes(filter, offset, limit)
	if err != nil {
		return httpError(err)
	}

	rendered := make([]*serializers.RecipeResponse, len(recipes))
	for i := range recipes {
		rendered[i], err = h.serializer.Recipe(&recipes[i], viewerID)
		if err != nil {
			return httpError(err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"recipes": rendered},
		"meta":    paginationMeta(page, limit, total),
	})
}

func flagParam(c echo.Context, name string) bool {
	v := c.QueryParam(name)
	return v == "1" || v == "true"
}

// CreateRecipe creates a recipe for the authenticated viewer. The response
// is always the full rendered recipe, never an echo of the payload.
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	req, recipe, err := h.bindRecipePayload(c)
	if err != nil {
		return err
	}
	recipe.AuthorID = viewerID

	if err := h.recipeRepository.CreateRecipe(recipe, req.Ingredients, req.Tags); err != nil {
		return httpError(err)
	}

	return h.renderRecipe(c, http.StatusCreated, recipe.ID, viewerID)
}

// ReplaceRecipe fully replaces a recipe: scalar fields, the ingredient set
// and the tag set. Only the author may replace it.
func (h *RecipeHandler) ReplaceRecipe(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	existing, err := h.recipeRepository.GetRecipeByID(id)
	if err != nil {
		return httpError(err)
	}
	if existing.AuthorID != viewerID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can modify this recipe")
	}

	req, recipe, err := h.bindRecipePayload(c)
	if err != nil {
		return err
	}
	recipe.ID = existing.ID

	if err := h.recipeRepository.ReplaceRecipe(recipe, req.Ingredients, req.Tags); err != nil {
		return httpError(err)
	}

	return h.renderRecipe(c, http.StatusOK, recipe.ID, viewerID)
}

// DeleteRecipe deletes a recipe. Only the author may delete it.
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	recipe, err := h.recipeRepository.GetRecipeByID(id)
	if err != nil {
		return httpError(err)
	}
	if recipe.AuthorID != viewerID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete this recipe")
	}

	if err := h.recipeRepository.DeleteRecipe(id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	return h.renderRecipe(c, http.StatusOK, id, getUserIDFromContext(c))
}

// AddFavorite adds the recipe to the viewer's favorites
func (h *RecipeHandler) AddFavorite(c echo.Context) error {
	return h.addRelation(c, repositories.RelationFavorite)
}

// RemoveFavorite removes the recipe from the viewer's favorites
func (h *RecipeHandler) RemoveFavorite(c echo.Context) error {
	return h.removeRelation(c, repositories.RelationFavorite)
}

// AddToShoppingCart puts the recipe into the viewer's shopping cart
func (h *RecipeHandler) AddToShoppingCart(c echo.Context) error {
	return h.addRelation(c, repositories.RelationShoppingCart)
}

// RemoveFromShoppingCart removes the recipe from the viewer's shopping cart
func (h *RecipeHandler) RemoveFromShoppingCart(c echo.Context) error {
	return h.removeRelation(c, repositories.RelationShoppingCart)
}

// addRelation implements the shared add contract for the two recipe-target
// relation kinds: 404 for an unknown recipe, 400 for a duplicate, otherwise
// 201 with the rendered recipe.
func (h *RecipeHandler) addRelation(c echo.Context, kind repositories.RelationKind) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.recipeRepository.GetRecipeByID(id); err != nil {
		return httpError(err)
	}

	if err := h.relationRepository.Add(kind, viewerID, id); err != nil {
		return httpError(err)
	}
	return h.renderRecipe(c, http.StatusCreated, id, viewerID)
}

func (h *RecipeHandler) removeRelation(c echo.Context, kind repositories.RelationKind) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.recipeRepository.GetRecipeByID(id); err != nil {
		return httpError(err)
	}

	if err := h.relationRepository.Remove(kind, viewerID, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadShoppingCart returns the viewer's consolidated shopping list as a
// plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	items, err := h.shoppingListRepository.BuildShoppingList(viewerID)
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="shopping_list.txt"`)
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(serializers.ShoppingListText(items)))
}

// ServeImage serves a recipe's stored image blob with its mime type.
func (h *RecipeHandler) ServeImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	recipe, err := h.recipeRepository.GetRecipeByID(id)
	if err != nil {
		return httpError(err)
	}
	mime := recipe.ImageMime
	if mime == "" {
		mime = "application/octet-stream"
	}
	return c.Blob(http.StatusOK, mime, recipe.Image)
}

// bindRecipePayload binds and validates a recipe write payload and decodes
// the image data URI into a recipe with its scalar fields set.
func (h *RecipeHandler) bindRecipePayload(c echo.Context) (*models.WriteRecipeRequest, *models.Recipe, error) {
	var req models.WriteRecipeRequest
	if err := c.Bind(&req); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	mime, data, err := images.ParseDataURI(req.Image)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "image must be a base64 data URI")
	}

	recipe := &models.Recipe{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       data,
		ImageMime:   mime,
	}
	return &req, recipe, nil
}

// renderRecipe reloads the recipe with its associations and responds with
// the viewer-relative rendering.
func (h *RecipeHandler) renderRecipe(c echo.Context, status int, recipeID, viewerID uint) error {
	recipe, err := h.recipeRepository.GetRecipeByID(recipeID)
	if err != nil {
		return httpError(err)
	}
	resp, err := h.serializer.Recipe(recipe, viewerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(status, resp)
}
