// Package gateway owns the real-time channel: WebSocket upgrade,
// handshake-time authentication, and the per-connection event loops.
//
// Each connection moves through Connecting -> Authenticating -> Active ->
// Closed. The token is verified exactly once, before the upgrade; a
// rejected handshake never reaches Active. Room joins are taken at face
// value: they are not validated against the Conversation Directory, so any
// authenticated connection may join any room name (known gap, kept from
// the original behavior).
package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"stunner/auth"
	"stunner/domain"
	"stunner/domain/event"
	"stunner/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const maxInboundBytes = 64 * 1024

type Gateway struct {
	log            *slog.Logger
	chat           services.IChatService
	upgrader       websocket.Upgrader
	sinkBufferSize int
}

func NewGateway(log *slog.Logger, chat services.IChatService, sinkBufferSize int) *Gateway {
	return &Gateway{
		log:  log,
		chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sinkBufferSize: sinkBufferSize,
	}
}

// envelope is the wire format of the realtime channel, both directions.
type envelope struct {
	Event string          `json:"event"`
	Room  string          `json:"room,omitempty"`
	Data  *messagePayload `json:"data,omitempty"`
}

type messagePayload struct {
	Text             string `json:"text"`
	Sender           string `json:"sender"`
	ConversationName string `json:"conversationName"`
}

// Handle authenticates the handshake and runs the connection until
// disconnect. Authentication failure rejects the connection with 401
// before the upgrade; no retry, no partial access.
func (g *Gateway) Handle(c *gin.Context) {
	claims, err := auth.ValidateToken(bearerToken(c.Request))
	if err != nil {
		g.log.Warn("Rejected connection, invalid token", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication error"})
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	connectionID := uuid.NewString()
	sink := NewSink(g.sinkBufferSize)
	g.log.Info("User connected", "username", claims.Username, "connection_id", connectionID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.writePump(ctx, conn, sink)

	g.readLoop(conn, connectionID, sink)

	// Active -> Closed: drop the connection from every room it had joined.
	// An in-flight persistence is not cancelled here.
	g.chat.Disconnect(connectionID)
	g.log.Info("User disconnected", "username", claims.Username, "connection_id", connectionID)
}

// readLoop processes inbound events in arrival order until the transport
// drops. Unknown or malformed events are skipped, never fatal.
func (g *Gateway) readLoop(conn *websocket.Conn, connectionID string, sink *Sink) {
	defer conn.Close()
	conn.SetReadLimit(maxInboundBytes)
	for {
		var inbound envelope
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Event {
		case "join":
			if inbound.Room == "" {
				continue
			}
			g.chat.JoinRoom(connectionID, domain.RoomID(inbound.Room), sink)
		case "sendMessage":
			if inbound.Data == nil {
				continue
			}
			g.chat.SendMessage(domain.SendMessageCommand{
				ConversationName: inbound.Data.ConversationName,
				Sender:           inbound.Data.Sender,
				Text:             inbound.Data.Text,
				CreatedAt:        time.Now().UTC(),
			})
		}
	}
}

// writePump forwards broadcast events to the client. The sink channel is
// never closed; the pump exits when the connection context is cancelled.
func (g *Gateway) writePump(ctx context.Context, conn *websocket.Conn, sink *Sink) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sink.Events:
			stored, ok := evt.(event.MessageStored)
			if !ok {
				continue
			}
			outbound := envelope{
				Event: "message",
				Data: &messagePayload{
					Text:             stored.Text,
					Sender:           stored.Sender,
					ConversationName: stored.ConversationName,
				},
			}
			if err := conn.WriteJSON(outbound); err != nil {
				g.log.Debug("Failed to push event to connection", "error", err)
				return
			}
		}
	}
}

// bearerToken extracts the credential from the handshake metadata: the
// Authorization header when present, the "token" query parameter
// otherwise (browser WebSocket clients cannot set headers).
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
