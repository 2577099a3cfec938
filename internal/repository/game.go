package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

var ErrGameAlreadyExists = errors.New("game already exists")

// GameRepository - live game sessions. Games are kept in process memory only.
type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error

	// WithLock - runs fn on the stored game while holding that game's lock.
	WithLock(ctx context.Context, id string, fn func(game *entity.Game) error) error
}

type gameEntry struct {
	mu   sync.Mutex
	game *entity.Game
}

type memoryGame struct {
	mu    sync.RWMutex
	games map[string]*gameEntry
}

func NewGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string]*gameEntry),
	}
}

func (that *memoryGame) Create(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[game.ID]; ok {
		return fmt.Errorf("%w: %s", ErrGameAlreadyExists, game.ID)
	}

	that.games[game.ID] = &gameEntry{game: cloneGame(game)}

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	entry, err := that.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return cloneGame(entry.game), nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

func (that *memoryGame) WithLock(ctx context.Context, id string, fn func(game *entity.Game) error) error {
	entry, err := that.entry(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err = ctx.Err(); err != nil {
		return fmt.Errorf("game %s: %w", id, err)
	}

	// changes are committed only when fn succeeds
	game := cloneGame(entry.game)
	if err = fn(game); err != nil {
		return err
	}

	entry.game = game

	return nil
}

func (that *memoryGame) entry(id string) (*gameEntry, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	entry, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return entry, nil
}

func cloneGame(game *entity.Game) *entity.Game {
	clone := *game

	if game.WinningLine != nil {
		clone.WinningLine = append(clone.WinningLine[:0:0], game.WinningLine...)
	}

	if game.LastBotMove != nil {
		move := *game.LastBotMove
		clone.LastBotMove = &move
	}

	return &clone
}
