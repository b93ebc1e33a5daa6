package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/anonto42/foodgram/backend/internal/serializers"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles user and subscription HTTP requests
type UserHandler struct {
	userRepository     repositories.UserRepository
	relationRepository repositories.RelationRepository
	serializer         *serializers.Serializer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	relationRepo repositories.RelationRepository,
	serializer *serializers.Serializer,
) *UserHandler {
	return &UserHandler{
		userRepository:     userRepo,
		relationRepository: relationRepo,
		serializer:         serializer,
	}
}

// RegisterUserRoutes registers user and subscription routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/users", h.CreateUser)
	g.GET("/users", h.ListUsers)
	g.GET("/users/me", h.Me)
	g.GET("/users/subscriptions", h.ListSubscriptions)
	g.GET("/users/:id", h.GetUser)
	g.POST("/users/:id/subscribe", h.Subscribe)
	g.DELETE("/users/:id/subscribe", h.Unsubscribe)
}

// CreateUser registers a new account. Token issuance is handled by the
// external auth service; this endpoint only persists the account with a
// hashed password.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "A user with this email already exists")
	}
	if _, err := h.userRepository.GetUserByUsername(req.Username); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "A user with this username already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp, err := h.serializer.User(user, getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListUsers returns a paginated user listing
func (h *UserHandler) ListUsers(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	page, limit, offset := paginationParams(c)

	users, total, err := h.userRepository.GetUsers(offset, limit)
	if err != nil {
		return httpError(err)
	}

	rendered := make([]*serializers.UserResponse, len(users))
	for i := range users {
		rendered[i], err = h.serializer.User(&users[i], viewerID)
		if err != nil {
			return httpError(err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"users": rendered},
		"meta":    paginationMeta(page, limit, total),
	})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		return httpError(err)
	}
	resp, err := h.serializer.User(user, getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated viewer's own profile
func (h *UserHandler) Me(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	user, err := h.userRepository.GetUserByID(viewerID)
	if err != nil {
		return httpError(err)
	}
	resp, err := h.serializer.User(user, viewerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Subscribe subscribes the viewer to an author. Duplicates and
// self-subscription fail with 400, an unknown author with 404.
func (h *UserHandler) Subscribe(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	author, err := h.userRepository.GetUserByID(id)
	if err != nil {
		return httpError(err)
	}

	if err := h.relationRepository.Add(repositories.RelationSubscription, viewerID, id); err != nil {
		return httpError(err)
	}

	resp, err := h.serializer.Subscription(author, viewerID, recipesLimitParam(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Unsubscribe removes the viewer's subscription to an author
func (h *UserHandler) Unsubscribe(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.userRepository.GetUserByID(id); err != nil {
		return httpError(err)
	}

	if err := h.relationRepository.Remove(repositories.RelationSubscription, viewerID, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSubscriptions returns a paginated listing of all authors the viewer
// follows, each with their abbreviated recipe list.
func (h *UserHandler) ListSubscriptions(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, limit, offset := paginationParams(c)
	authors, total, err := h.userRepository.GetSubscribedAuthors(viewerID, offset, limit)
	if err != nil {
		return httpError(err)
	}

	recipesLimit := recipesLimitParam(c)
	rendered := make([]*serializers.SubscriptionResponse, len(authors))
	for i := range authors {
		rendered[i], err = h.serializer.Subscription(&authors[i], viewerID, recipesLimit)
		if err != nil {
			return httpError(err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"subscriptions": rendered},
		"meta":    paginationMeta(page, limit, total),
	})
}

// recipesLimitParam reads the recipes_limit query param used to truncate the
// nested recipe list in subscription responses. 0 means no truncation.
func recipesLimitParam(c echo.Context) int {
	limit, _ := strconv.Atoi(c.QueryParam("recipes_limit"))
	if limit < 0 {
		return 0
	}
	return limit
}
