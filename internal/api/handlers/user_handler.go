package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamehub/internal/services"
	"gamehub/pkg/logger"
)

type UserHandler struct {
	users *services.UserService
	log   logger.Logger
}

type UpdateUsernameRequest struct {
	Username string `json:"username" validate:"required,min=2,max=32"`
}

type MeResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func NewUserHandler(users *services.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, MeResponse{ID: user.ID, Email: user.Email, Username: user.Username})
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req UpdateUsernameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.users.UpdateUsername(c.Request().Context(), UserID(c), req.Username)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, MeResponse{ID: user.ID, Email: user.Email, Username: user.Username})
}
