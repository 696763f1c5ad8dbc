package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/handlers"
	"github.com/sucupira/processmap/cmd/api/middleware"
)

// RegisterAuthRoutes registers signup, login and user listing
func RegisterAuthRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewAuthHandler(c)
	guard := middleware.RequireAuth(c.TokenIssuer)

	authGroup := e.Group("/api/v1/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
	}

	e.GET("/api/v1/usuarios", h.ListUsuarios, guard)
}
