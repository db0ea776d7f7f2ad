package http_room

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	http_common "github.com/RECTo0/PokerPlanning/internal/delivery/http/common"
	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/RECTo0/PokerPlanning/internal/session"
	"github.com/RECTo0/PokerPlanning/internal/tally"
	usecase_roster "github.com/RECTo0/PokerPlanning/internal/usecase/roster"
	usecase_vote "github.com/RECTo0/PokerPlanning/internal/usecase/vote"
)

// Controller exposes session operations over plain HTTP for clients
// that poll instead of holding a websocket. Each joined client gets a
// server-side session addressed by an opaque token.
type Controller struct {
	manager *session.Manager
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	sess *session.Session
	view *tally.Recorder
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(manager *session.Manager, opts ...ControllerOption) *Controller {
	c := &Controller{
		manager:  manager,
		logger:   slog.Default(),
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	rooms := router.Group("/rooms")
	{
		rooms.POST("/sessions", c.join)
	}
	sessions := router.Group("/sessions")
	{
		sessions.GET("/:session_id", c.state)
		sessions.POST("/:session_id/votes", c.cast)
		sessions.POST("/:session_id/reveal", c.reveal)
		sessions.POST("/:session_id/reset", c.reset)
		sessions.DELETE("/:session_id/players/:player_id", c.kick)
		sessions.DELETE("/:session_id", c.leave)
	}
}

type JoinRequestDTO struct {
	Room string `json:"room"`
	Name string `json:"name"`
	Role string `json:"role" enums:"player,observer"`
}

type JoinResponseDTO struct {
	SessionID string `json:"session_id"`
	RoomID    string `json:"room_id"`
	PlayerID  string `json:"player_id"`
}

// @Summary Join a room
// @Description Creates a session for the given room, creating the room when it does not exist yet
// @Tags Rooms
// @Accept json
// @Produce json
// @Param request body JoinRequestDTO true "Room id (free text, sanitized), display name, role"
// @Success 201 {object} JoinResponseDTO
// @Failure 400 {object} http_common.ErrorResponse "Empty display name"
// @Failure 500 {object} http_common.ErrorResponse
// @Router /rooms/sessions [post]
func (c *Controller) join(ctx *gin.Context) {
	var req JoinRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid request"})
		return
	}
	if req.Room == "" {
		req.Room = ctx.Query("room")
	}

	view := tally.NewRecorder()
	sess, err := c.manager.Join(ctx, req.Room, req.Name, model.ParseRole(req.Role),
		session.WithPresenter(view),
	)
	if err != nil {
		if errors.Is(err, session.ErrNameRequired) {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "display name required"})
			return
		}
		c.logger.Error("join failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	token := uuid.NewString()
	c.mu.Lock()
	c.sessions[token] = &entry{sess: sess, view: view}
	c.mu.Unlock()

	ctx.JSON(http.StatusCreated, JoinResponseDTO{
		SessionID: token,
		RoomID:    string(sess.RoomID()),
		PlayerID:  string(sess.PlayerID()),
	})
}

type PlayerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	HasVoted bool   `json:"has_voted"`
}

type StateResponseDTO struct {
	RoomID        string      `json:"room_id"`
	PlayerID      string      `json:"player_id"`
	Role          string      `json:"role"`
	IsFacilitator bool        `json:"is_facilitator"`
	Revealed      bool        `json:"revealed"`
	Round         int         `json:"round"`
	Selected      string      `json:"selected,omitempty"`
	Players       []PlayerDTO `json:"players"`
	Phase         string      `json:"phase"`
	Celebrating   bool        `json:"celebrating"`
	Board         tally.Board `json:"board"`
	Deck          []string    `json:"deck"`
}

// @Summary Session state
// @Description Latest local view: room flags, roster and the current results presentation
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session token"
// @Success 200 {object} StateResponseDTO
// @Failure 404 {object} http_common.ErrorResponse
// @Router /sessions/{session_id} [get]
func (c *Controller) state(ctx *gin.Context) {
	e, ok := c.lookup(ctx)
	if !ok {
		return
	}

	snap := e.sess.Snapshot()
	phase, board, celebrating := e.view.View()

	players := make([]PlayerDTO, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, PlayerDTO{
			ID:       string(p.ID),
			Name:     p.Name,
			Role:     string(p.Role),
			HasVoted: p.HasVoted,
		})
	}

	ctx.JSON(http.StatusOK, StateResponseDTO{
		RoomID:        string(snap.RoomID),
		PlayerID:      string(snap.PlayerID),
		Role:          string(snap.Role),
		IsFacilitator: snap.IsFacilitator,
		Revealed:      snap.Revealed,
		Round:         snap.Round,
		Selected:      snap.Selected,
		Players:       players,
		Phase:         string(phase),
		Celebrating:   celebrating,
		Board:         board,
		Deck:          model.Deck,
	})
}

type CastRequestDTO struct {
	Value string `json:"value"`
}

// @Summary Cast a vote
// @Tags Sessions
// @Accept json
// @Param session_id path string true "Session token"
// @Param request body CastRequestDTO true "Card value from the deck"
// @Success 204
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 409 {object} http_common.ErrorResponse "Observer, revealed round or unknown card"
// @Router /sessions/{session_id}/votes [post]
func (c *Controller) cast(ctx *gin.Context) {
	e, ok := c.lookup(ctx)
	if !ok {
		return
	}

	var req CastRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid request"})
		return
	}

	if err := e.sess.CastVote(ctx, req.Value); err != nil {
		switch {
		case errors.Is(err, usecase_vote.ErrObserverCannotVote),
			errors.Is(err, usecase_vote.ErrRoundRevealed),
			errors.Is(err, usecase_vote.ErrUnknownCard):
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: err.Error()})
		default:
			c.logger.Error("cast failed", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		}
		return
	}
	ctx.Status(http.StatusNoContent)
}

// @Summary Toggle reveal
// @Tags Sessions
// @Param session_id path string true "Session token"
// @Success 204
// @Failure 404 {object} http_common.ErrorResponse
// @Router /sessions/{session_id}/reveal [post]
func (c *Controller) reveal(ctx *gin.Context) {
	e, ok := c.lookup(ctx)
	if !ok {
		return
	}

	if err := e.sess.ToggleReveal(ctx); err != nil {
		c.logger.Error("reveal toggle failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// @Summary Reset the round
// @Tags Sessions
// @Param session_id path string true "Session token"
// @Success 204
// @Failure 404 {object} http_common.ErrorResponse
// @Router /sessions/{session_id}/reset [post]
func (c *Controller) reset(ctx *gin.Context) {
	e, ok := c.lookup(ctx)
	if !ok {
		return
	}

	if err := e.sess.Reset(ctx); err != nil {
		c.logger.Error("reset failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// @Summary Kick a participant
// @Tags Sessions
// @Param session_id path string true "Session token"
// @Param player_id path string true "Target participant id"
// @Success 204
// @Failure 403 {object} http_common.ErrorResponse "Policy forbids it, or self-kick"
// @Failure 404 {object} http_common.ErrorResponse
// @Router /sessions/{session_id}/players/{player_id} [delete]
func (c *Controller) kick(ctx *gin.Context) {
	e, ok := c.lookup(ctx)
	if !ok {
		return
	}

	target := model.ParticipantID(ctx.Param("player_id"))
	if err := e.sess.Kick(ctx, target); err != nil {
		switch {
		case errors.Is(err, usecase_roster.ErrSelfKick),
			errors.Is(err, usecase_roster.ErrKickForbidden):
			ctx.JSON(http.StatusForbidden, http_common.ErrorResponse{Message: err.Error()})
		default:
			c.logger.Error("kick failed", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		}
		return
	}
	ctx.Status(http.StatusNoContent)
}

// @Summary Leave the room
// @Tags Sessions
// @Param session_id path string true "Session token"
// @Success 204
// @Failure 404 {object} http_common.ErrorResponse
// @Router /sessions/{session_id} [delete]
func (c *Controller) leave(ctx *gin.Context) {
	token := ctx.Param("session_id")

	c.mu.Lock()
	e, ok := c.sessions[token]
	delete(c.sessions, token)
	c.mu.Unlock()

	if !ok {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "no such session"})
		return
	}

	_ = e.sess.Leave(ctx)
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) lookup(ctx *gin.Context) (*entry, bool) {
	token := ctx.Param("session_id")

	c.mu.RLock()
	e, ok := c.sessions[token]
	c.mu.RUnlock()

	if !ok {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "no such session"})
		return nil, false
	}
	return e, true
}
