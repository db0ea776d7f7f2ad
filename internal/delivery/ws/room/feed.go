package ws_room

import (
	"time"

	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/RECTo0/PokerPlanning/internal/tally"
)

// clientFeed adapts one session's presenter, listener and notifier
// callbacks into frames for that session's own connection. Each
// participant observes the store independently, so per-client delivery
// keeps every client's view consistent without cross-talk.
type clientFeed struct {
	hub    *Hub
	client *Client
}

type roomStateDTO struct {
	Revealed      bool   `json:"revealed"`
	Round         int    `json:"round"`
	FacilitatorID string `json:"facilitator_id"`
}

type playerDTO struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	HasVoted bool      `json:"has_voted"`
	JoinedAt time.Time `json:"joined_at"`
}

func (f *clientFeed) RoomChanged(room model.Room) {
	f.hub.Send(f.client, Event{
		Type: EventRoomState,
		Payload: roomStateDTO{
			Revealed:      room.Revealed,
			Round:         room.Round,
			FacilitatorID: string(room.FacilitatorID),
		},
	})
}

func (f *clientFeed) RosterChanged(players []model.Player) {
	dto := make([]playerDTO, 0, len(players))
	for _, p := range players {
		dto = append(dto, playerDTO{
			ID:       string(p.ID),
			Name:     p.Name,
			Role:     string(p.Role),
			HasVoted: p.HasVoted,
			JoinedAt: p.JoinedAt,
		})
	}
	f.hub.Send(f.client, Event{Type: EventRoster, Payload: dto})
}

func (f *clientFeed) ShowWaiting() {
	f.hub.Send(f.client, Event{Type: EventWaiting})
}

func (f *clientFeed) ShowSplitPending() {
	f.hub.Send(f.client, Event{Type: EventSplitPending})
}

func (f *clientFeed) ShowBoard(board tally.Board) {
	f.hub.Send(f.client, Event{Type: EventBoard, Payload: board})
}

func (f *clientFeed) Celebrate() {
	f.hub.Send(f.client, Event{Type: EventCelebration})
}

func (f *clientFeed) ClearEffects() {
	f.hub.Send(f.client, Event{Type: EventEffectsCleared})
}

func (f *clientFeed) Notify(msg string) {
	f.hub.Send(f.client, Event{Type: EventNotice, Payload: msg})
}
