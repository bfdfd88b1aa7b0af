package httpapi

import (
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	streamReadLimit  = 512
)

type streamMessage struct {
	Type    string          `json:"type"`
	Payload boxscore.Change `json:"payload"`
	SentAt  string          `json:"sent_at"`
}

// StreamGameStats upgrades to a websocket and pushes every committed change of one game.
// Clients re-read the affected rows through the REST endpoints.
func (h *Handler) StreamGameStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	if _, err := h.gameService.GetGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	// Subscribed before the handshake completes so no change after it is missed.
	sub := h.feed.Subscribe(gameID)
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "stats stream upgrade failed", "game_id", gameID, "error", err)
		return
	}
	defer conn.Close()
	h.logger.InfoContext(ctx, "stats stream opened", "game_id", gameID, "subscribers", h.feed.SubscriberCount(gameID))

	closed := make(chan struct{})
	go h.readStream(conn, closed)

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case change, ok := <-sub.C():
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscriber dropped"))
				return
			}
			msg := streamMessage{Type: string(change.Kind), Payload: change, SentAt: time.Now().UTC().Format(time.RFC3339Nano)}
			raw, err := sonic.Marshal(msg)
			if err != nil {
				h.logger.ErrorContext(ctx, "stats stream encode failed", "game_id", gameID, "error", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				h.logger.WarnContext(ctx, "stats stream write failed", "game_id", gameID, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readStream drains client frames so pongs and close frames are processed.
func (h *Handler) readStream(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("stats stream closed unexpectedly", "error", err)
			}
			return
		}
	}
}
