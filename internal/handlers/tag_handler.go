package handlers

import (
	"net/http"

	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// TagHandler handles tag HTTP requests
type TagHandler struct {
	tagRepository repositories.TagRepository
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagRepo repositories.TagRepository) *TagHandler {
	return &TagHandler{tagRepository: tagRepo}
}

// RegisterTagRoutes registers tag routes. Tags are read-mostly reference
// data and are not paginated.
func (h *TagHandler) RegisterTagRoutes(g *echo.Group) {
	g.GET("/tags", h.ListTags)
	g.GET("/tags/:id", h.GetTag)
}

func (h *TagHandler) ListTags(c echo.Context) error {
	tags, err := h.tagRepository.GetTags()
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) GetTag(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	tag, err := h.tagRepository.GetTagByID(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tag)
}
