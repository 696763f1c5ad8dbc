package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/common/auth"
)

const claimsContextKey = "auth_claims"

// RequireAuth guards a route group with bearer-token authentication.
// Verified claims are stashed in the echo context for handlers.
func RequireAuth(issuer *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "missing bearer token",
				})
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "invalid or expired token",
				})
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// Claims returns the authenticated user's claims, if any
func Claims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*auth.Claims)
	return claims, ok
}
