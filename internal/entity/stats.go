package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

// Stats - aggregate results of one player against the bot.
type Stats struct {
	PlayerID string `json:"player_id"`
	Wins     int64  `json:"wins"`
	Losses   int64  `json:"losses"`
	Draws    int64  `json:"draws"`
}

func (that *Stats) Total() int64 {
	return that.Wins + that.Losses + that.Draws
}

func (that *Stats) Apply(outcome string) error {
	switch outcome {
	case OutcomeWin:
		that.Wins++
	case OutcomeLoss:
		that.Losses++
	case OutcomeDraw:
		that.Draws++
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownOutcome, outcome)
	}

	return nil
}

// ValidateOutcome - checks that outcome is one of win, loss or draw.
func ValidateOutcome(outcome string) error {
	var probe Stats
	return probe.Apply(outcome)
}
