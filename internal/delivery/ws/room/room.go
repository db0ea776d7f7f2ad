package ws_room

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/RECTo0/PokerPlanning/internal/session"
)

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan Event
	roomID   model.RoomID
	playerID model.ParticipantID
	session  *session.Session
}

// JoinRequest is the first frame a client must send after upgrading.
type JoinRequest struct {
	Room string `json:"room"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Command is every subsequent frame.
type Command struct {
	Action string `json:"action"` // vote | reveal | reset | kick | leave
	Value  string `json:"value,omitempty"`
	Target string `json:"target,omitempty"`
}

type Controller struct {
	hub      *Hub
	manager  *session.Manager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

type ControllerOption func(*Controller)

func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(hub *Hub, manager *session.Manager, opts ...ControllerOption) *Controller {
	c := &Controller{
		hub:     hub,
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/rooms/ws", c.serve)
}

func (c *Controller) serve(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  c.hub,
		conn: conn,
		send: make(chan Event, 16),
	}

	// Track the connection before the session exists so the initial
	// room and roster snapshots are deliverable right away.
	c.hub.register <- client
	go c.startClientWriting(client)

	var req JoinRequest
	if err := conn.ReadJSON(&req); err != nil {
		c.hub.unregister <- client
		return
	}
	if req.Room == "" {
		// Same as the ?room= prefill on the original join form.
		req.Room = ctx.Query("room")
	}

	feed := &clientFeed{hub: c.hub, client: client}
	sess, err := c.manager.Join(ctx.Request.Context(), req.Room, req.Name, model.ParseRole(req.Role),
		session.WithPresenter(feed),
		session.WithListener(feed),
		session.WithNotifier(feed),
	)
	if err != nil {
		c.hub.Send(client, Event{Type: EventError, Payload: err.Error()})
		c.hub.unregister <- client
		return
	}

	client.session = sess
	client.roomID = sess.RoomID()
	client.playerID = sess.PlayerID()

	c.hub.register <- client
	c.readLoop(client)
}

// readLoop processes commands until the connection drops, then tears
// the session down.
func (c *Controller) readLoop(client *Client) {
	defer func() {
		_ = client.session.Leave(context.Background())
		c.hub.unregister <- client
		_ = client.conn.Close()
	}()

	for {
		var cmd Command
		if err := client.conn.ReadJSON(&cmd); err != nil {
			return
		}
		c.handleCommand(client, cmd)
	}
}

func (c *Controller) handleCommand(client *Client, cmd Command) {
	ctx := context.Background()

	switch cmd.Action {
	case "vote":
		if err := client.session.CastVote(ctx, cmd.Value); err != nil {
			c.hub.Send(client, Event{Type: EventError, Payload: err.Error()})
		}
	case "reveal":
		if err := client.session.ToggleReveal(ctx); err != nil {
			c.hub.Send(client, Event{Type: EventError, Payload: err.Error()})
		}
	case "reset":
		if err := client.session.Reset(ctx); err != nil {
			c.hub.Send(client, Event{Type: EventError, Payload: err.Error()})
		}
	case "kick":
		target := model.ParticipantID(cmd.Target)
		if err := client.session.Kick(ctx, target); err != nil {
			c.hub.Send(client, Event{Type: EventError, Payload: err.Error()})
			return
		}
		c.hub.BroadcastToRoom(client.roomID, Event{
			Type:    EventPlayerKicked,
			Payload: map[string]interface{}{"player_id": cmd.Target},
		})
	case "leave":
		_ = client.conn.Close()
	default:
		c.hub.Send(client, Event{Type: EventError, Payload: "unknown action"})
	}
}

func (c *Controller) startClientWriting(client *Client) {
	defer client.conn.Close()

	for event := range client.send {
		if err := client.conn.WriteJSON(event); err != nil {
			break
		}
	}
}
