package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"gamehub/internal/domain"
	"gamehub/internal/services"
	"gamehub/pkg/logger"
)

const defaultListLimit = 20

type MatchHandler struct {
	matches *services.MatchService
	log     logger.Logger
}

type CreateMatchRequest struct {
	OpponentID string `json:"opponentId"`
}

type PlayMoveRequest struct {
	Position *int `json:"position" validate:"required"`
}

type MatchResponse struct {
	ID         string             `json:"id"`
	GameType   string             `json:"gameType"`
	PlayerXID  string             `json:"playerXId"`
	PlayerOID  *string            `json:"playerOId,omitempty"`
	Status     domain.MatchStatus `json:"status"`
	WinnerID   *string            `json:"winnerId,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	FinishedAt *time.Time         `json:"finishedAt,omitempty"`
}

type MoveResponse struct {
	PlayerID  string    `json:"playerId"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewMatchHandler(matches *services.MatchService, log logger.Logger) *MatchHandler {
	return &MatchHandler{
		matches: matches,
		log:     log,
	}
}

func matchResponse(match *domain.Match) MatchResponse {
	return MatchResponse{
		ID:         match.ID,
		GameType:   match.GameType,
		PlayerXID:  match.PlayerXID,
		PlayerOID:  match.PlayerOID,
		Status:     match.Status,
		WinnerID:   match.WinnerID,
		CreatedAt:  match.CreatedAt,
		FinishedAt: match.FinishedAt,
	}
}

func (h *MatchHandler) Create(c echo.Context) error {
	var req CreateMatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	match, err := h.matches.CreateMatch(c.Request().Context(), UserID(c), req.OpponentID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, matchResponse(match))
}

func (h *MatchHandler) Join(c echo.Context) error {
	match, err := h.matches.JoinMatch(c.Request().Context(), c.Param("id"), UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, matchResponse(match))
}

func (h *MatchHandler) PlayMove(c echo.Context) error {
	var req PlayMoveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "position required"})
	}

	match, err := h.matches.PlayMove(c.Request().Context(), c.Param("id"), UserID(c), *req.Position)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, matchResponse(match))
}

func (h *MatchHandler) Forfeit(c echo.Context) error {
	match, err := h.matches.Forfeit(c.Request().Context(), c.Param("id"), UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, matchResponse(match))
}

func (h *MatchHandler) Get(c echo.Context) error {
	match, moves, err := h.matches.GetMatch(c.Request().Context(), c.Param("id"), UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	moveResponses := make([]MoveResponse, 0, len(moves))
	for _, move := range moves {
		moveResponses = append(moveResponses, MoveResponse{
			PlayerID:  move.PlayerID,
			Position:  move.Position,
			CreatedAt: move.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"match": matchResponse(match),
		"moves": moveResponses,
	})
}

func (h *MatchHandler) List(c echo.Context) error {
	status := domain.MatchStatus(c.QueryParam("status"))
	limit := parseLimit(c.QueryParam("limit"))

	matches, err := h.matches.ListMatches(c.Request().Context(), UserID(c), status, limit)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]MatchResponse, 0, len(matches))
	for _, match := range matches {
		responses = append(responses, matchResponse(match))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"matches": responses})
}

func (h *MatchHandler) Leaderboard(c echo.Context) error {
	entries, err := h.matches.Leaderboard(c.Request().Context(), parseLimit(c.QueryParam("limit")))
	if err != nil {
		return respondError(c, err)
	}
	if entries == nil {
		entries = []*domain.LeaderboardEntry{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > 100 {
		return defaultListLimit
	}
	return limit
}
