package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"gamehub/internal/auth"
	"gamehub/internal/infrastructure/redis"
	"gamehub/pkg/logger"
)

const userIDKey = "user_id"

// UserID returns the authenticated user id set by SessionAuth.
func UserID(c echo.Context) string {
	userID, _ := c.Get(userIDKey).(string)
	return userID
}

// SessionAuth verifies the Bearer session token and stores the user id on
// the request context.
func SessionAuth(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}

			userID, err := tokens.VerifySession(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// RateLimit rejects callers that exhaust their per-IP request budget. A
// Redis failure lets the request through; limiting is protection, not
// correctness.
func RateLimit(limiter *redis.RateLimiter, log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn("Rate limiter unavailable", "error", err)
				return next(c)
			}
			if !allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}
