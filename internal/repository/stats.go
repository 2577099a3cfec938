package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	fieldWins   = "wins"
	fieldLosses = "losses"
	fieldDraws  = "draws"
)

type StatsRepository interface {
	Record(ctx context.Context, playerID, outcome string) error
	GetByPlayerID(ctx context.Context, playerID string) (*entity.Stats, error)
	Reset(ctx context.Context, playerID string) error
}

type redisStats struct {
	client *redis.Client
}

func NewRedisStatsRepository(client *redis.Client) StatsRepository {
	return &redisStats{
		client: client,
	}
}

func (that *redisStats) Record(ctx context.Context, playerID, outcome string) error {
	field, err := outcomeField(outcome)
	if err != nil {
		return err
	}

	if err = that.client.HIncrBy(ctx, statsKey(playerID), field, 1).Err(); err != nil {
		return fmt.Errorf("failed to record %s for player %s: %w", outcome, playerID, err)
	}

	return nil
}

func (that *redisStats) GetByPlayerID(ctx context.Context, playerID string) (*entity.Stats, error) {
	values, err := that.client.HGetAll(ctx, statsKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats by player id: %w", err)
	}

	stats := &entity.Stats{PlayerID: playerID}
	counters := map[string]*int64{
		fieldWins:   &stats.Wins,
		fieldLosses: &stats.Losses,
		fieldDraws:  &stats.Draws,
	}

	for field, counter := range counters {
		raw, ok := values[field]
		if !ok {
			continue
		}

		if *counter, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse %s counter: %w", field, err)
		}
	}

	return stats, nil
}

func (that *redisStats) Reset(ctx context.Context, playerID string) error {
	if err := that.client.Del(ctx, statsKey(playerID)).Err(); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}

	return nil
}

func statsKey(playerID string) string {
	return "stats:" + playerID
}

func outcomeField(outcome string) (string, error) {
	if err := entity.ValidateOutcome(outcome); err != nil {
		return "", err
	}

	switch outcome {
	case entity.OutcomeWin:
		return fieldWins, nil
	case entity.OutcomeLoss:
		return fieldLosses, nil
	default:
		return fieldDraws, nil
	}
}
