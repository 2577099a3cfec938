package websocket

import (
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and replies; each action reads or fills only its own fields.
type Payload struct {
	Player     *entity.Player    `json:"player,omitempty"`
	HumanFirst *bool             `json:"human_first,omitempty"`
	Row        *int              `json:"row,omitempty"`
	Col        *int              `json:"col,omitempty"`
	Game       *entity.Game      `json:"game,omitempty"`
	Stats      *entity.Stats     `json:"stats,omitempty"`
	Move       *tictactoe.Move   `json:"move,omitempty"`
	Analysis   *minimax.Analysis `json:"analysis,omitempty"`
	Error      string            `json:"error,omitempty"`
}

var errMissingGame = errors.New("game is required")

var publicErrors = []error{
	apperror.ErrGameNotFound,
	apperror.ErrGameFinished,
	apperror.ErrNotYourTurn,
	apperror.ErrCellOccupied,
	apperror.ErrInvalidCell,
	apperror.ErrInvalidMark,
	apperror.ErrEmptyPlayerID,
	errMissingGame,
}

// publicError - message safe to show the client and whether err was a known one.
func publicError(err error) (string, bool) {
	for _, target := range publicErrors {
		if errors.Is(err, target) {
			return target.Error(), true
		}
	}

	return "internal error", false
}

func errorMessage(action, text string) *Message {
	return &Message{
		Action:  action,
		Payload: mustMarshal(Payload{Error: text}),
	}
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
