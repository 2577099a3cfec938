package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type memoryStats struct {
	mu    sync.Mutex
	stats map[string]entity.Stats
}

func NewMemoryStatsRepository() StatsRepository {
	return &memoryStats{
		stats: make(map[string]entity.Stats),
	}
}

func (that *memoryStats) Record(_ context.Context, playerID, outcome string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stats := that.stats[playerID]
	stats.PlayerID = playerID
	if err := stats.Apply(outcome); err != nil {
		return err
	}

	that.stats[playerID] = stats

	return nil
}

func (that *memoryStats) GetByPlayerID(_ context.Context, playerID string) (*entity.Stats, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stats := that.stats[playerID]
	stats.PlayerID = playerID

	return &stats, nil
}

func (that *memoryStats) Reset(_ context.Context, playerID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.stats, playerID)

	return nil
}
