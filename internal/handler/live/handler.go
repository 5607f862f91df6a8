package live

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	sentimentmodel "github.com/manamitra/companion/backend/internal/model/sentiment"
	"github.com/manamitra/companion/backend/internal/service/sentiment"
	"github.com/manamitra/companion/backend/pkg/utils"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

type outgoingMessage struct {
	Type         string                  `json:"type"`
	UserID       string                  `json:"userId"`
	Record       *sentimentmodel.Record  `json:"record,omitempty"`
	Presentation *sentiment.Presentation `json:"presentation,omitempty"`
	Timestamp    int64                   `json:"timestamp"`
}

// Handler upgrades dashboard connections and streams sentiment updates.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// New creates the live feed handler.
func New(hub *Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{userID}/sentiment/ws", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userID is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancelSub := h.hub.Subscribe(userID)
	defer cancelSub()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.logger.Debug("live feed connected", zap.String("user_id", userID))

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	// The client never sends data; reading only surfaces close frames and pongs.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("live feed read error", zap.Error(err))
				}
				return
			}
		}
	}()

	if err := h.write(conn, outgoingMessage{Type: "connected", UserID: userID}); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case record, ok := <-updates:
			if !ok {
				return
			}
			presentation := sentiment.Present(record)
			if err := h.write(conn, outgoingMessage{Type: "sentiment", UserID: userID, Record: &record, Presentation: &presentation}); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, msg outgoingMessage) error {
	msg.Timestamp = time.Now().Unix()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debug("live feed write failed", zap.Error(err))
		return err
	}
	return nil
}
