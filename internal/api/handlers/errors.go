package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"gamehub/internal/domain"
	"gamehub/internal/services"
)

var statusByError = map[error]int{
	domain.ErrUserNotFound:         http.StatusNotFound,
	domain.ErrEmailTaken:           http.StatusConflict,
	domain.ErrUsernameTaken:        http.StatusConflict,
	domain.ErrInvalidCredentials:   http.StatusUnauthorized,
	services.ErrInvalidUsername:    http.StatusBadRequest,
	domain.ErrSelfInvite:           http.StatusBadRequest,
	domain.ErrAlreadyFriends:       http.StatusConflict,
	domain.ErrInviteAlreadySent:    http.StatusConflict,
	domain.ErrInviteNotFound:       http.StatusNotFound,
	domain.ErrInviteProcessed:      http.StatusConflict,
	domain.ErrNotFriends:           http.StatusNotFound,
	domain.ErrNotificationNotFound: http.StatusNotFound,
	domain.ErrMatchNotFound:        http.StatusNotFound,
	domain.ErrMatchNotJoinable:     http.StatusConflict,
	domain.ErrNotYourMatch:         http.StatusForbidden,
	domain.ErrNotYourTurn:          http.StatusConflict,
	domain.ErrCellOccupied:         http.StatusConflict,
	domain.ErrMatchNotActive:       http.StatusConflict,
	domain.ErrInvalidPosition:      http.StatusBadRequest,
}

// respondError maps domain errors to HTTP statuses; anything unmapped is a
// 500 with a generic body so internals never leak.
func respondError(c echo.Context, err error) error {
	for sentinel, status := range statusByError {
		if errors.Is(err, sentinel) {
			return c.JSON(status, map[string]string{"error": sentinel.Error()})
		}
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
