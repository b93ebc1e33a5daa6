package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/anonto42/foodgram/backend/internal/serializers"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	e             *echo.Echo
	db            *gorm.DB
	recipeHandler *RecipeHandler
	userHandler   *UserHandler
	recipes       repositories.RecipeRepository
	relations     repositories.RelationRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
		&models.Subscription{},
	))

	userRepo := repositories.NewPostgresUserRepository(db)
	recipeRepo := repositories.NewPostgresRecipeRepository(db)
	relationRepo := repositories.NewPostgresRelationRepository(db)
	shoppingListRepo := repositories.NewPostgresShoppingListRepository(db)
	serializer := serializers.New(relationRepo, recipeRepo)

	return &testEnv{
		e:             echo.New(),
		db:            db,
		recipeHandler: NewRecipeHandler(recipeRepo, relationRepo, shoppingListRepo, serializer),
		userHandler:   NewUserHandler(userRepo, relationRepo, serializer),
		recipes:       recipeRepo,
		relations:     relationRepo,
	}
}

func (env *testEnv) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *testEnv) seedRecipe(t *testing.T, author *models.User, name string) *models.Recipe {
	t.Helper()
	ingredient := &models.Ingredient{Name: "Salt " + name, MeasurementUnit: "g"}
	require.NoError(t, env.db.Create(ingredient).Error)
	tag := &models.Tag{Name: "Tag " + name, Color: "#00" + name[:4], Slug: "tag-" + name}
	require.NoError(t, env.db.Create(tag).Error)

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "text",
		CookingTime: 20,
		Image:       []byte("png"),
		ImageMime:   "image/png",
	}
	err := env.recipes.CreateRecipe(recipe, []models.RecipeIngredientInput{{ID: ingredient.ID, Amount: 100}}, []uint{tag.ID})
	require.NoError(t, err)
	return recipe
}

// request builds an echo context for a handler invocation. viewerID 0 means
// an anonymous request.
func (env *testEnv) request(method, target, body string, viewerID uint) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if viewerID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: viewerID})
	}
	return c, rec
}

func withID(c echo.Context, id uint) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(uint64(id), 10))
	return c
}

func TestFavoriteLifecycle(t *testing.T) {
	env := setupEnv(t)
	author := env.seedUser(t, "chef")
	reader := env.seedUser(t, "reader")
	recipe := env.seedRecipe(t, author, "bread")

	// First add succeeds with the rendered recipe.
	c, rec := env.request(http.MethodPost, "/api/recipes/1/favorite", "", reader.ID)
	require.NoError(t, env.recipeHandler.AddFavorite(withID(c, recipe.ID)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp serializers.RecipeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, recipe.ID, resp.ID)
	assert.True(t, resp.IsFavorited)

	// Duplicate add conflicts.
	c, _ = env.request(http.MethodPost, "/api/recipes/1/favorite", "", reader.ID)
	err := env.recipeHandler.AddFavorite(withID(c, recipe.ID))
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)

	// Remove succeeds once, then the relation is gone.
	c, rec = env.request(http.MethodDelete, "/api/recipes/1/favorite", "", reader.ID)
	require.NoError(t, env.recipeHandler.RemoveFavorite(withID(c, recipe.ID)))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, _ = env.request(http.MethodDelete, "/api/recipes/1/favorite", "", reader.ID)
	err = env.recipeHandler.RemoveFavorite(withID(c, recipe.ID))
	assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)
}

func TestFavorite_UnknownRecipeAndAnonymous(t *testing.T) {
	env := setupEnv(t)
	reader := env.seedUser(t, "reader")

	c, _ := env.request(http.MethodPost, "/api/recipes/999/favorite", "", reader.ID)
	err := env.recipeHandler.AddFavorite(withID(c, 999))
	assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)

	c, _ = env.request(http.MethodPost, "/api/recipes/1/favorite", "", 0)
	err = env.recipeHandler.AddFavorite(withID(c, 1))
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestSubscribeLifecycle(t *testing.T) {
	env := setupEnv(t)
	follower := env.seedUser(t, "follower")
	author := env.seedUser(t, "author")
	env.seedRecipe(t, author, "bread")
	env.seedRecipe(t, author, "soup1")

	c, rec := env.request(http.MethodPost, "/api/users/2/subscribe?recipes_limit=1", "", follower.ID)
	require.NoError(t, env.userHandler.Subscribe(withID(c, author.ID)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp serializers.SubscriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsSubscribed)
	assert.Len(t, resp.Recipes, 1)
	assert.EqualValues(t, 2, resp.RecipesCount)

	// Duplicate subscription conflicts.
	c, _ = env.request(http.MethodPost, "/api/users/2/subscribe", "", follower.ID)
	err := env.userHandler.Subscribe(withID(c, author.ID))
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)

	// Unsubscribe, then the relation is gone.
	c, rec = env.request(http.MethodDelete, "/api/users/2/subscribe", "", follower.ID)
	require.NoError(t, env.userHandler.Unsubscribe(withID(c, author.ID)))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, _ = env.request(http.MethodDelete, "/api/users/2/subscribe", "", follower.ID)
	err = env.userHandler.Unsubscribe(withID(c, author.ID))
	assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)
}

func TestSubscribe_SelfAndUnknown(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t, "loner")

	c, _ := env.request(http.MethodPost, "/api/users/1/subscribe", "", user.ID)
	err := env.userHandler.Subscribe(withID(c, user.ID))
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)

	c, _ = env.request(http.MethodPost, "/api/users/999/subscribe", "", user.ID)
	err = env.userHandler.Subscribe(withID(c, 999))
	assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)
}

func TestCreateRecipe_RespondsWithComputedState(t *testing.T) {
	env := setupEnv(t)
	chef := env.seedUser(t, "chef")
	ingredient := &models.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	require.NoError(t, env.db.Create(ingredient).Error)
	tag := &models.Tag{Name: "Dinner", Color: "#E26C2D", Slug: "dinner"}
	require.NoError(t, env.db.Create(tag).Error)

	body := `{
		"name": "Soup",
		"text": "Boil water, add salt",
		"cooking_time": 25,
		"image": "data:image/png;base64,aW1hZ2U=",
		"ingredients": [{"id": 1, "amount": 10}],
		"tags": [1]
	}`
	c, rec := env.request(http.MethodPost, "/api/recipes", body, chef.ID)
	require.NoError(t, env.recipeHandler.CreateRecipe(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp serializers.RecipeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Soup", resp.Name)
	assert.Equal(t, chef.Username, resp.Author.Username)
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, "Salt", resp.Ingredients[0].Name)
	assert.Equal(t, 10, resp.Ingredients[0].Amount)
	assert.False(t, resp.IsFavorited)
	assert.Equal(t, "/media/recipes/1", resp.Image)
}

func TestCreateRecipe_RejectsBadImage(t *testing.T) {
	env := setupEnv(t)
	chef := env.seedUser(t, "chef")

	body := `{
		"name": "Soup",
		"text": "x",
		"cooking_time": 25,
		"image": "not-a-data-uri",
		"ingredients": [{"id": 1, "amount": 10}],
		"tags": [1]
	}`
	c, _ := env.request(http.MethodPost, "/api/recipes", body, chef.ID)
	err := env.recipeHandler.CreateRecipe(c)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestReplaceRecipe_AuthorOnly(t *testing.T) {
	env := setupEnv(t)
	chef := env.seedUser(t, "chef")
	intruder := env.seedUser(t, "intruder")
	recipe := env.seedRecipe(t, chef, "bread")

	body := `{
		"name": "Stolen",
		"text": "x",
		"cooking_time": 5,
		"image": "data:image/png;base64,aW1hZ2U=",
		"ingredients": [{"id": 1, "amount": 1}],
		"tags": [1]
	}`
	c, _ := env.request(http.MethodPut, "/api/recipes/1", body, intruder.ID)
	err := env.recipeHandler.ReplaceRecipe(withID(c, recipe.ID))
	assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	env := setupEnv(t)
	chef := env.seedUser(t, "chef")
	shopper := env.seedUser(t, "shopper")
	recipe := env.seedRecipe(t, chef, "soup1")
	require.NoError(t, env.relations.Add(repositories.RelationShoppingCart, shopper.ID, recipe.ID))

	c, rec := env.request(http.MethodGet, "/api/recipes/download_shopping_cart", "", shopper.ID)
	require.NoError(t, env.recipeHandler.DownloadShoppingCart(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "shopping_list.txt")
	assert.Contains(t, rec.Body.String(), "Shopping list:")
	assert.Contains(t, rec.Body.String(), "Salt soup1 (g) - 100")

	// Anonymous download is rejected.
	c, _ = env.request(http.MethodGet, "/api/recipes/download_shopping_cart", "", 0)
	err := env.recipeHandler.DownloadShoppingCart(c)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	env := setupEnv(t)
	env.seedUser(t, "taken")

	body := `{
		"email": "taken@example.com",
		"username": "someone",
		"first_name": "A",
		"last_name": "B",
		"password": "longenough"
	}`
	c, _ := env.request(http.MethodPost, "/api/users", body, 0)
	err := env.userHandler.CreateUser(c)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)

	body = `{
		"email": "fresh@example.com",
		"username": "fresh",
		"first_name": "A",
		"last_name": "B",
		"password": "longenough"
	}`
	c, rec := env.request(http.MethodPost, "/api/users", body, 0)
	require.NoError(t, env.userHandler.CreateUser(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp serializers.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fresh", resp.Username)
	assert.False(t, resp.IsSubscribed)
}
