package game

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const statePushInterval = time.Second

type websocketConnection struct {
	socket *websocket.Conn
}

func newWebsocketConnection(conn *websocket.Conn) websocketConnection {
	conn.SetReadDeadline(time.Now().Add(time.Minute))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(time.Minute))
		return nil
	})
	return websocketConnection{conn}
}

func (wc *websocketConnection) Write(data []byte) error {
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *websocketConnection) Ping() error {
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *websocketConnection) Close(reason string) {
	wc.socket.SetWriteDeadline(time.Now().Add(time.Second * 20))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	wc.socket.Close()
}

// GameSocketHandler upgrades the request and pushes state snapshots
// until the game disappears from the registry or the peer goes away.
// It is a read-only surface: inbound messages are discarded.
func (h *Handler) GameSocketHandler(ctx *gin.Context) {
	gameId, ok := parseGameId(ctx)
	if !ok {
		return
	}
	if _, err := h.games.Game(gameId); err != nil {
		abortWithGameError(ctx, err)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true }, // origin enforced by the server middleware
	}
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Int64("game_id", gameId).Msg("ws upgrade failed")
		return
	}

	wc := newWebsocketConnection(conn)
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(statePushInterval)
	defer ticker.Stop()
	for range ticker.C {
		g, err := h.games.Game(gameId)
		if err != nil {
			wc.Close("game-over")
			return
		}
		data, err := json.Marshal(g.View())
		if err != nil {
			wc.Close("internal-error")
			return
		}
		if err := wc.Write(data); err != nil {
			conn.Close()
			return
		}
		// keepalive; the pong handler extends the read deadline
		if err := wc.Ping(); err != nil {
			conn.Close()
			return
		}
	}
}
