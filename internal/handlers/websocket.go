package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"casino-minigames/internal/logger"
	"casino-minigames/internal/models"
	"casino-minigames/internal/services"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	gameEngine *services.GameEngine
	hub        *WebSocketHub
}

// WebSocketHub fans settled rounds out to every connection of a session.
type WebSocketHub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	SessionID string
	Conn      *websocket.Conn
	send      chan []byte
}

type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	RoundID   string      `json:"round_id,omitempty"`
	Data      interface{} `json:"data"`
}

func NewWebSocketHub() *WebSocketHub {
	hub := &WebSocketHub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return hub
}

func NewWebSocketHandler(gameEngine *services.GameEngine, hub *WebSocketHub) *WebSocketHandler {
	return &WebSocketHandler{
		gameEngine: gameEngine,
		hub:        hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if _, err := h.gameEngine.GetSession(sessionID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		SessionID: sessionID,
		Conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}

	h.hub.register <- client
	go client.writePump()

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendBalance(client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warnf("WebSocket error: %v", err)
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		client.queue(&Message{
			Type: "PONG",
			Data: gin.H{"timestamp": time.Now().Unix()},
		})
	case "BALANCE":
		h.sendBalance(client)
	}
}

func (h *WebSocketHandler) sendBalance(client *Client) {
	balance, err := h.gameEngine.GetBalance(client.SessionID)
	if err != nil {
		logger.Warnf("Failed to get balance for WS: %v", err)
		return
	}

	client.queue(&Message{
		Type:      "BALANCE_UPDATE",
		SessionID: client.SessionID,
		Data:      balance,
	})
}

// queue never blocks; a client too slow to drain its buffer misses messages.
func (c *Client) queue(msg *Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Errorf("Failed to encode %s message: %v", msg.Type, err)
		return
	}
	select {
	case c.send <- payload:
	default:
		logger.Warnf("dropping %s for session %s", msg.Type, c.SessionID)
	}
}

func (c *Client) writePump() {
	for payload := range c.send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Debugf("websocket write for session %s: %v", c.SessionID, err)
			return
		}
	}
	c.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			conns, ok := hub.clients[client.SessionID]
			if !ok {
				conns = make(map[*Client]bool)
				hub.clients[client.SessionID] = conns
			}
			conns[client] = true
			logger.Debugf("Client registered: %s", client.SessionID)

		case client := <-hub.unregister:
			if conns, ok := hub.clients[client.SessionID]; ok && conns[client] {
				delete(conns, client)
				close(client.send)
				if len(conns) == 0 {
					delete(hub.clients, client.SessionID)
				}
				logger.Debugf("Client unregistered: %s", client.SessionID)
			}

		case message := <-hub.broadcast:
			for client := range hub.clients[message.SessionID] {
				client.queue(message)
			}
		}
	}
}

func (hub *WebSocketHub) publish(msg *Message) {
	select {
	case hub.broadcast <- msg:
	default:
		logger.Warnf("websocket hub full, dropping %s for session %s", msg.Type, msg.SessionID)
	}
}

func (hub *WebSocketHub) BroadcastRoundRevealed(sessionID string, result *models.SettlementResult) {
	hub.publish(&Message{
		Type:      "ROUND_REVEALED",
		SessionID: sessionID,
		RoundID:   result.RoundID,
		Data:      result,
	})
}

func (hub *WebSocketHub) BroadcastBalance(sessionID string, balance decimal.Decimal) {
	hub.publish(&Message{
		Type:      "BALANCE_UPDATE",
		SessionID: sessionID,
		Data: gin.H{
			"session_id": sessionID,
			"balance":    balance,
			"timestamp":  time.Now().Unix(),
		},
	})
}
