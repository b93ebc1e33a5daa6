package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// parseBearerToken extracts and verifies the JWT from the Authorization
// header, returning the claims. Tokens are minted by the external auth
// service sharing JWT_SECRET.
func parseBearerToken(c echo.Context) (*models.JwtCustomClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}

	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}
	tokenString := parts[1]

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey" // Must match the secret used for signing
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return claims, nil
}

// JWTAuthMiddleware requires a valid JWT and stores the claims in the context.
func JWTAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseBearerToken(c)
			if err != nil {
				return err
			}
			c.Set("user", claims)
			return next(c)
		}
	}
}

// OptionalJWTAuthMiddleware stores claims when a valid JWT is present and
// lets the request through anonymously otherwise. Handlers treat a missing
// viewer as user id 0.
func OptionalJWTAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := parseBearerToken(c); err == nil {
				c.Set("user", claims)
			}
			return next(c)
		}
	}
}
