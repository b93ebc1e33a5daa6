package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated viewer's user id,
// or 0 for an anonymous request.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// httpError maps a repository error to the HTTP status its classification
// code calls for. Uncoded errors surface as 500.
func httpError(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.CodeValidation, apperrors.CodeConflict:
			return echo.NewHTTPError(http.StatusBadRequest, appErr.Message)
		case apperrors.CodeNotFound:
			return echo.NewHTTPError(http.StatusNotFound, appErr.Message)
		case apperrors.CodePermissionDenied:
			return echo.NewHTTPError(http.StatusForbidden, appErr.Message)
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// paginationParams reads page/limit query params with the defaults used
// across all paginated listings.
func paginationParams(c echo.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return page, limit, (page - 1) * limit
}

// paginationMeta builds the list response metadata
func paginationMeta(page, limit int, total int64) echo.Map {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return echo.Map{
		"currentPage":  page,
		"totalPages":   totalPages,
		"totalItems":   total,
		"itemsPerPage": limit,
	}
}

func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}
