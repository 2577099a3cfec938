// Package console is the terminal client: one human against the bot, driven by bubbletea.
package console

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type gameUseCase interface {
	StartGame(ctx context.Context, playerID string, humanFirst *bool) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, row, col int) (*entity.Game, error)
	EndGame(ctx context.Context, gameID string) error
	Hint(ctx context.Context, gameID string) (tictactoe.Move, error)
	GetStats(ctx context.Context, playerID string) (*entity.Stats, error)
}

var (
	humanStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007e50ff", Dark: "#6afd76ff"}).Render
	botStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0003adff", Dark: "#5f61fcff"}).Render
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#960000ff", Dark: "#fc7e7eff"}).Render
	winningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#bb0000ff", Dark: "#df1010ff"}).Render
	bracketStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#414141ff", Dark: "#8f8f8fff"}).Render
	lastStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000ff", Dark: "#ffffffff"}).Render
	statStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8a880fff", Dark: "#ddda1dff"}).Render
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#4204b5ff", Dark: "#8f6cf0ff"}).Render
)

type gameMsg struct {
	game *entity.Game
	err  error
}

type statsMsg struct {
	stats *entity.Stats
	err   error
}

type hintMsg struct {
	move tictactoe.Move
	err  error
}

type Model struct {
	ctx         context.Context
	gameUseCase gameUseCase

	playerID   string
	humanFirst bool

	game    *entity.Game
	stats   *entity.Stats
	hint    *tictactoe.Move
	cursor  tictactoe.Move
	spinner spinner.Model
	waiting bool
	err     error
}

func New(ctx context.Context, gameUseCase gameUseCase, playerID string, humanFirst bool) *Model {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &Model{
		ctx:         ctx,
		gameUseCase: gameUseCase,
		playerID:    playerID,
		humanFirst:  humanFirst,
		spinner:     s,
		cursor:      tictactoe.Move{Row: 1, Col: 1},
	}
}

func (m *Model) Init() tea.Cmd {
	m.waiting = true
	return tea.Batch(m.spinner.Tick, m.startGame(), m.loadStats())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case gameMsg:
		m.waiting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.game = msg.game
		m.snapCursor()

		if m.game.IsFinished() {
			return m, m.loadStats()
		}

		return m, nil

	case statsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.stats = msg.stats
		return m, nil

	case hintMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.hint = &msg.move
		m.cursor = msg.move
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up":
		m.cursor.Row = max(m.cursor.Row-1, 0)
	case "down":
		m.cursor.Row = min(m.cursor.Row+1, tictactoe.Size-1)
	case "left":
		m.cursor.Col = max(m.cursor.Col-1, 0)
	case "right":
		m.cursor.Col = min(m.cursor.Col+1, tictactoe.Size-1)
	case "h":
		if m.canPlay() {
			return m, m.requestHint()
		}
	case "r":
		if m.game != nil && !m.waiting {
			return m, m.replay()
		}
	case "enter", " ":
		if m.game != nil && m.game.IsFinished() && !m.waiting {
			return m, m.replay()
		}

		if !m.canPlay() {
			return m, nil
		}

		m.waiting = true
		m.hint = nil

		return m, tea.Batch(m.spinner.Tick, m.makeTurn(m.cursor))
	}

	return m, nil
}

func (m *Model) canPlay() bool {
	return m.game != nil && m.game.IsOngoing() && !m.waiting
}

// snapCursor - keeps the cursor on a free cell after the board changes.
func (m *Model) snapCursor() {
	if m.game.Board.At(m.cursor.Row, m.cursor.Col) == tictactoe.Empty {
		return
	}

	if moves := m.game.Board.LegalMoves(); len(moves) > 0 {
		m.cursor = moves[0]
	}
}

func (m *Model) startGame() tea.Cmd {
	humanFirst := m.humanFirst

	return func() tea.Msg {
		game, err := m.gameUseCase.StartGame(m.ctx, m.playerID, &humanFirst)
		return gameMsg{game: game, err: err}
	}
}

func (m *Model) replay() tea.Cmd {
	gameID := m.game.ID
	m.waiting = true
	m.hint = nil

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if err := m.gameUseCase.EndGame(m.ctx, gameID); err != nil {
			return gameMsg{err: err}
		}

		return m.startGame()()
	})
}

func (m *Model) makeTurn(move tictactoe.Move) tea.Cmd {
	gameID := m.game.ID

	return func() tea.Msg {
		game, err := m.gameUseCase.MakeTurn(m.ctx, gameID, move.Row, move.Col)
		return gameMsg{game: game, err: err}
	}
}

func (m *Model) requestHint() tea.Cmd {
	gameID := m.game.ID

	return func() tea.Msg {
		move, err := m.gameUseCase.Hint(m.ctx, gameID)
		return hintMsg{move: move, err: err}
	}
}

func (m *Model) loadStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.gameUseCase.GetStats(m.ctx, m.playerID)
		return statsMsg{stats: stats, err: err}
	}
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle("--- Tic Tac Toe ---") + "\n\n")

	if m.game == nil {
		if m.err != nil {
			b.WriteString(cursorStyle("error: "+m.err.Error()) + "\n")
		} else {
			b.WriteString("Starting " + m.spinner.View() + "\n")
		}

		return b.String()
	}

	b.WriteString(m.statusLine() + "\n\n")
	m.renderBoard(&b)

	if m.hint != nil {
		b.WriteString("\nHint: " + statStyle(fmt.Sprintf("row %d, col %d", m.hint.Row, m.hint.Col)) + "\n")
	}

	if m.stats != nil {
		fmt.Fprintf(&b, "\nWins %s  Losses %s  Draws %s\n",
			statStyle(fmt.Sprint(m.stats.Wins)),
			statStyle(fmt.Sprint(m.stats.Losses)),
			statStyle(fmt.Sprint(m.stats.Draws)),
		)
	}

	if m.err != nil {
		b.WriteString("\n" + cursorStyle("error: "+m.err.Error()) + "\n")
	}

	b.WriteString("\n" + helpStyle("arrows move • enter place • h hint • r replay • q quit") + "\n")

	return b.String()
}

func (m *Model) statusLine() string {
	game := m.game

	switch {
	case game.IsOngoing() && m.waiting:
		return "Bot is thinking " + m.spinner.View()
	case game.IsOngoing():
		return "Your turn: " + humanStyle(string(game.HumanMark))
	case game.Winner == entity.PlayerTie:
		return "GAME OVER: draw"
	case game.Winner == string(game.HumanMark):
		return "GAME OVER: " + humanStyle("you win")
	default:
		return "GAME OVER: " + botStyle("bot wins")
	}
}

func (m *Model) renderBoard(b *strings.Builder) {
	game := m.game

	for row := range tictactoe.Size {
		for col := range tictactoe.Size {
			move := tictactoe.Move{Row: row, Col: col}
			mark := game.Board.At(row, col)

			cell := " "
			switch mark {
			case game.HumanMark:
				cell = humanStyle(string(mark))
			case game.BotMark:
				cell = botStyle(string(mark))
			}

			if mark == tictactoe.Empty && game.IsOngoing() && move == m.cursor {
				cell = cursorStyle("*")
			}

			bracket := bracketStyle
			if game.LastBotMove != nil && *game.LastBotMove == move {
				bracket = lastStyle
			}
			if slices.Contains(game.WinningLine, move) {
				bracket = winningStyle
			}

			b.WriteString(bracket("[") + cell + bracket("]"))
		}

		b.WriteString("\n")
	}
}
