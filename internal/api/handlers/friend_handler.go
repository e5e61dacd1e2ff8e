package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamehub/internal/domain"
	"gamehub/internal/services"
	"gamehub/pkg/logger"
)

type FriendHandler struct {
	friends *services.FriendService
	log     logger.Logger
}

type SendInviteRequest struct {
	Username string `json:"username" validate:"required_without=UserID"`
	UserID   string `json:"userId" validate:"required_without=Username"`
}

type InviteResponse struct {
	ID     string              `json:"id"`
	Status domain.InviteStatus `json:"status"`
	ToUser domain.PublicUser   `json:"toUser"`
}

func NewFriendHandler(friends *services.FriendService, log logger.Logger) *FriendHandler {
	return &FriendHandler{
		friends: friends,
		log:     log,
	}
}

func (h *FriendHandler) List(c echo.Context) error {
	friends, err := h.friends.ListFriends(c.Request().Context(), UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"friends": friends})
}

func (h *FriendHandler) ListInvites(c echo.Context) error {
	invites, err := h.friends.ListInvites(c.Request().Context(), UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if invites == nil {
		invites = []*domain.PendingInvite{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"invites": invites})
}

func (h *FriendHandler) SendInvite(c echo.Context) error {
	var req SendInviteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "username or userId required"})
	}

	invite, target, err := h.friends.Invite(c.Request().Context(), UserID(c), req.Username, req.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, InviteResponse{
		ID:     invite.ID,
		Status: invite.Status,
		ToUser: target.Public(),
	})
}

func (h *FriendHandler) AcceptInvite(c echo.Context) error {
	friend, err := h.friends.Accept(c.Request().Context(), UserID(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"friend": friend})
}

func (h *FriendHandler) RejectInvite(c echo.Context) error {
	if err := h.friends.Reject(c.Request().Context(), UserID(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *FriendHandler) Remove(c echo.Context) error {
	if err := h.friends.RemoveFriend(c.Request().Context(), UserID(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
