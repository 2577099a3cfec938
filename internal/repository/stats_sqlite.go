package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type sqliteStats struct {
	conn *sql.DB
}

// NewSQLiteStatsRepository - expects the stats table created by storage.Storage.Init.
func NewSQLiteStatsRepository(conn *sql.DB) StatsRepository {
	return &sqliteStats{
		conn: conn,
	}
}

func (that *sqliteStats) Record(ctx context.Context, playerID, outcome string) error {
	delta := &entity.Stats{PlayerID: playerID}
	if err := delta.Apply(outcome); err != nil {
		return err
	}

	query := `INSERT INTO stats (player_id, wins, losses, draws) VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			wins = wins + excluded.wins,
			losses = losses + excluded.losses,
			draws = draws + excluded.draws`

	_, err := that.conn.ExecContext(ctx, query, playerID, delta.Wins, delta.Losses, delta.Draws)
	if err != nil {
		return fmt.Errorf("can't record %s for player %s: %w", outcome, playerID, err)
	}

	return nil
}

func (that *sqliteStats) GetByPlayerID(ctx context.Context, playerID string) (*entity.Stats, error) {
	query := `SELECT wins, losses, draws FROM stats WHERE player_id = ?`

	stats := &entity.Stats{PlayerID: playerID}

	err := that.conn.QueryRowContext(ctx, query, playerID).Scan(&stats.Wins, &stats.Losses, &stats.Draws)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't find stats: %w", err)
	}

	return stats, nil
}

func (that *sqliteStats) Reset(ctx context.Context, playerID string) error {
	query := `DELETE FROM stats WHERE player_id = ?`

	if _, err := that.conn.ExecContext(ctx, query, playerID); err != nil {
		return fmt.Errorf("can't reset stats: %w", err)
	}

	return nil
}
