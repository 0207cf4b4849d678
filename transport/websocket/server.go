package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-web/internal/tictactoe"
)

const (
	sessionCookieName = "user_session"
	sessionCookieTTL  = 24 * time.Hour

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	maxMessageSize = 1024
)

type sessionManager interface {
	Attach(ctx context.Context, sessionID string, view tictactoe.View) *tictactoe.Controller
	Detach(sessionID string, view tictactoe.View)
}

type handlerFunc func(ctx context.Context, message *Message, client *client) error

type Server struct {
	logger   *slog.Logger
	sessions sessionManager
	upgrader websocket.Upgrader
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, sessions sessionManager) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxMessageSize,
			WriteBufferSize: maxMessageSize,
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionCellClick] = server.handleCellClick
	server.handlers[actionGameReset] = server.handleGameReset

	return server
}

// Handler - upgrades requests to WebSocket. ctx bounds the games played over the connections
// and must outlive them, so a dropped connection does not cancel the opponent's move.
func (that *Server) Handler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	sessionID, header := that.sessionCookie(req)

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		// the upgrader has already replied to the client
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(that.logger.With("session", sessionID), conn)
	defer client.Close()

	client.controller = that.sessions.Attach(ctx, sessionID, client)
	defer that.sessions.Detach(sessionID, client)

	log.Info("WebSocket connection established", "session", sessionID)

	stopPing := client.keepAlive()
	defer stopPing()

	that.handleMessages(ctx, client)
}

// handleMessages - processes messages from the client until the connection closes.
func (that *Server) handleMessages(ctx context.Context, client *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := client.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("connection closed unexpectedly", "error", err)
			}
			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			client.sendError("unknown action: " + message.Action)
			continue
		}

		if err := handler(ctx, &message, client); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			client.sendError(err.Error())
		}
	}
}

// sessionCookie - returns the browser's session id, issuing a new cookie when it has none.
func (that *Server) sessionCookie(req *http.Request) (string, http.Header) {
	if cookie, err := req.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    uuid.NewString(),
		Expires:  time.Now().Add(sessionCookieTTL),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	that.logger.Info("session cookie not found, new one created", "session", cookie.Value)

	return cookie.Value, http.Header{"Set-Cookie": []string{cookie.String()}}
}
