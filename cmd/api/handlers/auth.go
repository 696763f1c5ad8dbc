package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/service"
	"github.com/sucupira/processmap/common/bootstrap"
)

// AuthHandler handles signup, login and user listing
type AuthHandler struct {
	components *bootstrap.Components
	auth       *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(c *container.Container) *AuthHandler {
	return &AuthHandler{
		components: c.Components,
		auth:       c.AuthService,
	}
}

// Signup registers a new user
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	var req service.SignupInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	u, err := h.auth.Signup(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Login verifies credentials and returns an access token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Senha)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListUsuarios lists registered users
// GET /api/v1/usuarios
func (h *AuthHandler) ListUsuarios(c echo.Context) error {
	users, err := h.auth.ListUsuarios(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"usuarios": users,
	})
}
