package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type StatsService interface {
	RecordGame(ctx context.Context, game *entity.Game) error
	GetStats(ctx context.Context, playerID string) (*entity.Stats, error)
	ResetStats(ctx context.Context, playerID string) error
}

type statsRepo interface {
	Record(ctx context.Context, playerID, outcome string) error
	GetByPlayerID(ctx context.Context, playerID string) (*entity.Stats, error)
	Reset(ctx context.Context, playerID string) error
}

type statsService struct {
	statsRepo statsRepo
}

func NewStatsService(statsRepo statsRepo) StatsService {
	return &statsService{
		statsRepo: statsRepo,
	}
}

// RecordGame - adds the human's outcome of a finished game to their stats.
func (that *statsService) RecordGame(ctx context.Context, game *entity.Game) error {
	if game.PlayerID == "" {
		return apperror.ErrEmptyPlayerID
	}

	outcome, err := game.Outcome()
	if err != nil {
		return fmt.Errorf("failed to get game outcome: %w", err)
	}

	if err = that.statsRepo.Record(ctx, game.PlayerID, outcome); err != nil {
		return fmt.Errorf("failed to record game: %w", err)
	}

	return nil
}

func (that *statsService) GetStats(ctx context.Context, playerID string) (*entity.Stats, error) {
	if playerID == "" {
		return nil, apperror.ErrEmptyPlayerID
	}

	stats, err := that.statsRepo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve stats from storage: %w", err)
	}

	return stats, nil
}

func (that *statsService) ResetStats(ctx context.Context, playerID string) error {
	if playerID == "" {
		return apperror.ErrEmptyPlayerID
	}

	if err := that.statsRepo.Reset(ctx, playerID); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}

	return nil
}
