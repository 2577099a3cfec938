package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	StartGame(ctx context.Context, playerID string, humanFirst *bool) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, row, col int) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	EndGame(ctx context.Context, gameID string) error

	Analyze(ctx context.Context, gameID string) (minimax.Analysis, error)
	Hint(ctx context.Context, gameID string) (tictactoe.Move, error)

	GetStats(ctx context.Context, playerID string) (*entity.Stats, error)
	ResetStats(ctx context.Context, playerID string) error
}

type Server struct {
	logger *slog.Logger
	echo   *echo.Echo

	gameUseCase gameUseCase
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	server := &Server{
		logger:      logger.With("component", "rest"),
		echo:        e,
		gameUseCase: gameUseCase,
	}

	e.GET("/ping", server.handlePing)

	games := e.Group("/games")
	games.POST("", server.handleStartGame)
	games.GET("/:id", server.handleGetGame)
	games.DELETE("/:id", server.handleEndGame)
	games.POST("/:id/turn", server.handleMakeTurn)
	games.GET("/:id/analysis", server.handleAnalyze)
	games.GET("/:id/hint", server.handleHint)

	players := e.Group("/players")
	players.GET("/:id/stats", server.handleGetStats)
	players.DELETE("/:id/stats", server.handleResetStats)

	return server
}

func (that *Server) Handler() http.Handler {
	return that.echo
}

// Start - serves until ctx is done, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.echo,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	that.logger.Info("REST server started", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) handlePing(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "pong")
}
