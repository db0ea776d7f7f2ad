// Package session owns one participant's view of a room: identity,
// local state, the three store subscriptions and the reconcile loop
// that folds their interleavings into presentation updates.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/RECTo0/PokerPlanning/internal/store"
	"github.com/RECTo0/PokerPlanning/internal/tally"
	usecase_vote "github.com/RECTo0/PokerPlanning/internal/usecase/vote"
)

var (
	ErrNameRequired  = errors.New("display name required")
	ErrSessionClosed = errors.New("session closed")
)

// Listener receives state the session observed remotely. Callbacks run
// on the reconcile goroutine and must not block for long.
type Listener interface {
	RoomChanged(model.Room)
	RosterChanged([]model.Player)
}

// Notifier surfaces transient, advisory notices (the toast layer).
type Notifier interface {
	Notify(msg string)
}

type RoomWatcher interface {
	Watch(roomID model.RoomID) (<-chan model.Room, store.UnsubscribeFunc)
}

type RosterWatcher interface {
	Watch(roomID model.RoomID) (<-chan []model.Player, store.UnsubscribeFunc)
}

type VoteWatcher interface {
	Watch(roomID model.RoomID) (<-chan []model.Vote, store.UnsubscribeFunc)
}

type nopListener struct{}

func (nopListener) RoomChanged(model.Room)       {}
func (nopListener) RosterChanged([]model.Player) {}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

type nopPresenter struct{}

func (nopPresenter) ShowWaiting()          {}
func (nopPresenter) ShowSplitPending()     {}
func (nopPresenter) ShowBoard(tally.Board) {}
func (nopPresenter) Celebrate()            {}
func (nopPresenter) ClearEffects()         {}

// Session is the explicit per-participant context: created on join,
// destroyed on leave, nothing module-global.
type Session struct {
	manager *Manager
	engine  *tally.Engine

	listener Listener
	notifier Notifier
	logger   *slog.Logger

	mu            sync.RWMutex
	roomID        model.RoomID
	playerID      model.ParticipantID
	name          string
	role          model.Role
	facilitatorID model.ParticipantID
	isFacilitator bool
	revealed      bool
	round         int
	selected      string
	players       []model.Player
	votes         []model.Vote
	unsub         []store.UnsubscribeFunc
	done          chan struct{}
	closed        bool
}

// State is a read-only snapshot of a session for delivery layers.
type State struct {
	RoomID        model.RoomID
	PlayerID      model.ParticipantID
	Name          string
	Role          model.Role
	IsFacilitator bool
	Revealed      bool
	Round         int
	Selected      string
	Players       []model.Player
}

func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]model.Player, len(s.players))
	copy(players, s.players)
	return State{
		RoomID:        s.roomID,
		PlayerID:      s.playerID,
		Name:          s.name,
		Role:          s.role,
		IsFacilitator: s.isFacilitator,
		Revealed:      s.revealed,
		Round:         s.round,
		Selected:      s.selected,
		Players:       players,
	}
}

func (s *Session) RoomID() model.RoomID          { return s.roomID }
func (s *Session) PlayerID() model.ParticipantID { return s.playerID }

// CastVote validates locally, then writes the vote document and the
// player's hasVoted flag. Validation failures surface as a notice and
// abort before any write.
func (s *Session) CastVote(ctx context.Context, value string) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrSessionClosed
	}
	caster := model.Player{ID: s.playerID, Name: s.name, Role: s.role}
	roomID, revealed := s.roomID, s.revealed
	s.mu.RUnlock()

	if err := s.manager.votes.Cast(ctx, roomID, caster, revealed, value); err != nil {
		switch {
		case errors.Is(err, usecase_vote.ErrObserverCannotVote):
			s.notifier.Notify("observers cannot vote")
		case errors.Is(err, usecase_vote.ErrRoundRevealed):
			s.notifier.Notify("votes are already revealed")
		case errors.Is(err, usecase_vote.ErrUnknownCard):
			s.notifier.Notify("that card is not in the deck")
		}
		return err
	}

	s.mu.Lock()
	s.selected = value
	s.mu.Unlock()
	return nil
}

// ToggleReveal flips the shared revealed flag. Any participant may
// call it; two concurrent toggles race under last-write-wins.
func (s *Session) ToggleReveal(ctx context.Context) error {
	return s.manager.rooms.ToggleReveal(ctx, s.roomID)
}

// Reset starts the next round. Facilitator-only by convention; the
// store does not enforce it and neither does this client.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.manager.rooms.Reset(ctx, s.roomID); err != nil {
		return err
	}
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
	s.notifier.Notify("new round")
	return nil
}

func (s *Session) Kick(ctx context.Context, target model.ParticipantID) error {
	s.mu.RLock()
	actor, isFacilitator := s.playerID, s.isFacilitator
	roomID := s.roomID
	s.mu.RUnlock()

	if err := s.manager.roster.Kick(ctx, roomID, actor, isFacilitator, target); err != nil {
		return err
	}
	s.notifier.Notify("kicked")
	return nil
}

// Leave deletes own documents best-effort, then unsubscribes all three
// watches before clearing local state so no callback fires against a
// stale session.
func (s *Session) Leave(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.closed = true
	roomID, playerID := s.roomID, s.playerID
	unsubs := s.unsub
	s.unsub = nil
	s.mu.Unlock()

	_ = s.manager.roster.Leave(ctx, roomID, playerID)

	for _, unsub := range unsubs {
		unsub()
	}
	close(s.done)
	s.engine.Stop()

	s.mu.Lock()
	s.selected = ""
	s.players = nil
	s.votes = nil
	s.mu.Unlock()
	return nil
}

// reconcile multiplexes the three change streams. Each may fire in any
// interleaving relative to the others; every branch re-derives the
// presentation from the latest snapshot it has.
func (s *Session) reconcile(roomCh <-chan model.Room, rosterCh <-chan []model.Player, votesCh <-chan []model.Vote) {
	for {
		select {
		case <-s.done:
			return
		case room, ok := <-roomCh:
			if !ok {
				return
			}
			s.applyRoom(room)
		case players, ok := <-rosterCh:
			if !ok {
				return
			}
			s.applyRoster(players)
		case votes, ok := <-votesCh:
			if !ok {
				return
			}
			s.applyVotes(votes)
		}
	}
}

func (s *Session) applyRoom(room model.Room) {
	s.mu.Lock()
	s.revealed = room.Revealed
	s.round = room.Round
	s.facilitatorID = room.FacilitatorID
	s.isFacilitator = room.FacilitatorID == s.playerID
	revealed := s.revealed
	votes := s.votes
	players := s.players
	s.mu.Unlock()

	s.logger.Debug("room state observed",
		"room", s.roomID,
		"revealed", room.Revealed,
		"round", room.Round)

	s.listener.RoomChanged(room)
	s.engine.Apply(revealed, votes, players)
}

func (s *Session) applyRoster(players []model.Player) {
	s.mu.Lock()
	s.players = players
	s.mu.Unlock()

	s.listener.RosterChanged(players)
}

func (s *Session) applyVotes(votes []model.Vote) {
	s.mu.Lock()
	s.votes = votes
	revealed := s.revealed
	players := s.players
	s.mu.Unlock()

	// While hidden the vote set only feeds hasVoted badges, which
	// arrive through the roster stream. Recompute on reveal only.
	if revealed {
		s.engine.Apply(true, votes, players)
	}
}
