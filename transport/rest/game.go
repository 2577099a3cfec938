package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type startGameRequest struct {
	PlayerID   string `json:"player_id"`
	HumanFirst *bool  `json:"human_first,omitempty"`
}

type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type hintResponse struct {
	Move tictactoe.Move `json:"move"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleStartGame(ctx echo.Context) error {
	var req startGameRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	game, err := that.gameUseCase.StartGame(ctx.Request().Context(), req.PlayerID, req.HumanFirst)
	if err != nil {
		return that.errorJSON(ctx, "StartGame", err)
	}

	return ctx.JSON(http.StatusCreated, game)
}

func (that *Server) handleGetGame(ctx echo.Context) error {
	game, err := that.gameUseCase.GetGame(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return that.errorJSON(ctx, "GetGame", err)
	}

	return ctx.JSON(http.StatusOK, game)
}

func (that *Server) handleEndGame(ctx echo.Context) error {
	if err := that.gameUseCase.EndGame(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return that.errorJSON(ctx, "EndGame", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (that *Server) handleMakeTurn(ctx echo.Context) error {
	var req turnRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.Row == nil || req.Col == nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "row and col are required"})
	}

	game, err := that.gameUseCase.MakeTurn(ctx.Request().Context(), ctx.Param("id"), *req.Row, *req.Col)
	if err != nil {
		return that.errorJSON(ctx, "MakeTurn", err)
	}

	return ctx.JSON(http.StatusOK, game)
}

func (that *Server) handleAnalyze(ctx echo.Context) error {
	analysis, err := that.gameUseCase.Analyze(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return that.errorJSON(ctx, "Analyze", err)
	}

	return ctx.JSON(http.StatusOK, analysis)
}

func (that *Server) handleHint(ctx echo.Context) error {
	move, err := that.gameUseCase.Hint(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return that.errorJSON(ctx, "Hint", err)
	}

	return ctx.JSON(http.StatusOK, hintResponse{Move: move})
}

func (that *Server) handleGetStats(ctx echo.Context) error {
	stats, err := that.gameUseCase.GetStats(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return that.errorJSON(ctx, "GetStats", err)
	}

	return ctx.JSON(http.StatusOK, stats)
}

func (that *Server) handleResetStats(ctx echo.Context) error {
	if err := that.gameUseCase.ResetStats(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return that.errorJSON(ctx, "ResetStats", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// errorJSON - maps domain errors to HTTP statuses; anything unknown is logged and hidden behind a 500.
func (that *Server) errorJSON(ctx echo.Context, method string, err error) error {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		return ctx.JSON(status, errorResponse{Error: http.StatusText(status)})
	}

	return ctx.JSON(status, errorResponse{Error: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidMark),
		errors.Is(err, apperror.ErrEmptyPlayerID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
