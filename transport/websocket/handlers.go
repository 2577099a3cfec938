package websocket

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// handleConnect - lets a client resume under a known player ID instead of the cookie session.
func (that *Server) handleConnect(_ context.Context, player *entity.Player, req *Payload) (*Payload, error) {
	if req.Player != nil && req.Player.ID != "" && req.Player.ID != player.ID {
		player.ID = req.Player.ID
		player.GameID = req.Player.GameID
	}

	return &Payload{Player: clonePlayer(player)}, nil
}

func (that *Server) handleNewGame(ctx context.Context, player *entity.Player, req *Payload) (*Payload, error) {
	game, err := that.gameUseCase.StartGame(ctx, player.ID, req.HumanFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	player.GameID = game.ID

	that.logger.Info("game created", "game_id", game.ID, "player_id", player.ID)

	return &Payload{Player: clonePlayer(player), Game: game}, nil
}

func (that *Server) handleGameTurn(ctx context.Context, player *entity.Player, req *Payload) (*Payload, error) {
	if req.Row == nil || req.Col == nil {
		return nil, fmt.Errorf("%w: row and col are required", apperror.ErrInvalidCell)
	}

	gameID, err := currentGameID(player, req)
	if err != nil {
		return nil, err
	}

	game, err := that.gameUseCase.MakeTurn(ctx, gameID, *req.Row, *req.Col)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	return &Payload{Game: game, Move: game.LastBotMove}, nil
}

func (that *Server) handleGameState(ctx context.Context, player *entity.Player, req *Payload) (*Payload, error) {
	gameID, err := currentGameID(player, req)
	if err != nil {
		return nil, err
	}

	game, err := that.gameUseCase.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &Payload{Game: game}, nil
}

func (that *Server) handleGameHint(ctx context.Context, player *entity.Player, req *Payload) (*Payload, error) {
	gameID, err := currentGameID(player, req)
	if err != nil {
		return nil, err
	}

	move, err := that.gameUseCase.Hint(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hint: %w", err)
	}

	return &Payload{Move: &move}, nil
}

func (that *Server) handleGameAnalysis(ctx context.Context, player *entity.Player, req *Payload) (*Payload, error) {
	gameID, err := currentGameID(player, req)
	if err != nil {
		return nil, err
	}

	analysis, err := that.gameUseCase.Analyze(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze game: %w", err)
	}

	return &Payload{Analysis: &analysis}, nil
}

func (that *Server) handleGameLeave(ctx context.Context, player *entity.Player, req *Payload) (*Payload, error) {
	gameID, err := currentGameID(player, req)
	if err != nil {
		return nil, err
	}

	if err = that.gameUseCase.EndGame(ctx, gameID); err != nil {
		return nil, fmt.Errorf("failed to leave game: %w", err)
	}

	if player.GameID == gameID {
		player.GameID = ""
	}

	return &Payload{Player: clonePlayer(player)}, nil
}

func (that *Server) handleGetStats(ctx context.Context, player *entity.Player, _ *Payload) (*Payload, error) {
	stats, err := that.gameUseCase.GetStats(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &Payload{Stats: stats}, nil
}

// currentGameID - game named in the request, else the session's current game.
func currentGameID(player *entity.Player, req *Payload) (string, error) {
	if req.Player != nil && req.Player.GameID != "" {
		return req.Player.GameID, nil
	}

	if player.GameID == "" {
		return "", errMissingGame
	}

	return player.GameID, nil
}

func clonePlayer(player *entity.Player) *entity.Player {
	clone := *player
	return &clone
}
