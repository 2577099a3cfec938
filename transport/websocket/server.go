package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	sessionCookie   = "user_session"
	maxMessageSize  = 4096
	shutdownTimeout = 5 * time.Second
)

type gameUseCase interface {
	StartGame(ctx context.Context, playerID string, humanFirst *bool) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, row, col int) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	EndGame(ctx context.Context, gameID string) error

	Analyze(ctx context.Context, gameID string) (minimax.Analysis, error)
	Hint(ctx context.Context, gameID string) (tictactoe.Move, error)

	GetStats(ctx context.Context, playerID string) (*entity.Stats, error)
}

type handlerFunc func(ctx context.Context, player *entity.Player, req *Payload) (*Payload, error)

type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	gameUseCase gameUseCase

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		gameUseCase: gameUseCase,
		handlers:    make(map[string]handlerFunc),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["game:new"] = server.handleNewGame
	server.handlers["game:turn"] = server.handleGameTurn
	server.handlers["game:state"] = server.handleGameState
	server.handlers["game:hint"] = server.handleGameHint
	server.handlers["game:analysis"] = server.handleGameAnalysis
	server.handlers["game:leave"] = server.handleGameLeave
	server.handlers["stats:get"] = server.handleGetStats

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - serves WebSocket connections until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	that.logger.Info("WebSocket server started", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and processes messages until the client leaves.
func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	sessionID, header := that.sessionCookie(req)

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	log.Info("WebSocket connection established", "session", sessionID)

	player := &entity.Player{ID: sessionID}

	if err = that.handleMessages(req.Context(), conn, player); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - reads requests one at a time; replies are written from this goroutine only.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, player *entity.Player) error {
	log := that.logger.With("method", "handleMessages")

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var response *Message

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			response = errorMessage("", "invalid message")
		} else {
			response = that.processMessage(ctx, player, &message)
		}

		if err = conn.WriteJSON(response); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
	}
}

func (that *Server) processMessage(ctx context.Context, player *entity.Player, message *Message) *Message {
	log := that.logger.With("method", "processMessage", "action", message.Action, "player_id", player.ID)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		return errorMessage(message.Action, "unknown action")
	}

	var req Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &req); err != nil {
			log.Warn("failed to unmarshal payload", "error", err)
			return errorMessage(message.Action, "invalid payload")
		}
	}

	resp, err := handler(ctx, player, &req)
	if err != nil {
		msg, known := publicError(err)
		if !known {
			log.Error("error processing message", "error", err)
		}

		return errorMessage(message.Action, msg)
	}

	return &Message{Action: message.Action, Payload: mustMarshal(resp)}
}

// sessionCookie - reuses the client's session or issues a new one.
func (that *Server) sessionCookie(req *http.Request) (string, http.Header) {
	cookie, err := req.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	cookie = &http.Cookie{
		Name:    sessionCookie,
		Value:   pkg.GenerateNewSessionID(),
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}

	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())

	that.logger.Info("session cookie not found, new one created", "cookie", cookie.Value)

	return cookie.Value, header
}
