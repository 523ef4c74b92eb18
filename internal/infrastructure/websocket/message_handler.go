package websocket

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"mateswap/internal/domain/entity"
	apperrors "mateswap/pkg/errors"
	"mateswap/pkg/logger"
)

// WebSocket Message Types
const (
	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
	MessageTypeJoinRoom      = "join_room"
	MessageTypeJoinChatRoom  = "join_chat_room"
	MessageTypeLeaveRoom     = "leave_room"
	MessageTypeLeaveChatRoom = "leave_chat_room"
	MessageTypeMessages      = "messages"
	MessageTypeError         = "error"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// InboundMessage is what browsers send: room membership changes and pings.
type InboundMessage struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id,omitempty"`
}

// OutboundMessage carries a full snapshot or an error for one chat.
type OutboundMessage struct {
	Type   string      `json:"type"`
	ChatID string      `json:"chat_id,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Serve registers an upgraded connection and runs its pumps until the
// connection closes or the manager stops.
func (m *Manager) Serve(identity *entity.Identity, conn *websocket.Conn) {
	client := NewClient(identity, conn)
	if !m.register(client) {
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(m)
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error for %s: %v", c.Identity.UID, err)
			}
			return
		}

		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			m.reply(c, OutboundMessage{Type: MessageTypeError, Data: map[string]string{"message": "Invalid message format"}})
			continue
		}
		m.handleInbound(c, msg)
	}
}

func (m *Manager) handleInbound(c *Client, msg InboundMessage) {
	switch msg.Type {
	case MessageTypePing:
		m.reply(c, OutboundMessage{Type: MessageTypePong})

	case MessageTypeJoinRoom, MessageTypeJoinChatRoom:
		if msg.ChatID == "" {
			m.reply(c, OutboundMessage{Type: MessageTypeError, Data: map[string]string{"message": "chat_id is required"}})
			return
		}
		if err := m.Join(m.ctx, c, msg.ChatID); err != nil {
			message := "Failed to load messages"
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Status < 500 {
				message = appErr.Message
			}
			m.reply(c, OutboundMessage{Type: MessageTypeError, ChatID: msg.ChatID, Data: map[string]string{"message": message}})
		}

	case MessageTypeLeaveRoom, MessageTypeLeaveChatRoom:
		m.Leave(c, msg.ChatID)

	default:
		logger.Debug("websocket: ignoring message type %q from %s", msg.Type, c.Identity.UID)
	}
}

func (m *Manager) reply(c *Client, msg OutboundMessage) {
	payload := encode(msg)
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	m.trySend(c, payload)
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("websocket write error for %s: %v", c.Identity.UID, err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
