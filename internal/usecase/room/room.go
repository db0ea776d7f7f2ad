package usecase_room

import (
	"context"
	"errors"

	"github.com/RECTo0/PokerPlanning/internal/model"
)

var (
	ErrInternal         = errors.New("internal error")
	ErrResourceNotFound = errors.New("no such resource")
)

//go:generate mockery --name=RoomRepository --output=./mocks/repository --filename=repository.go
type RoomRepository interface {
	Get(ctx context.Context, roomID model.RoomID) (model.Room, error)
	Create(ctx context.Context, roomID model.RoomID, room model.Room) error
	SetRevealed(ctx context.Context, roomID model.RoomID, revealed bool) error
	SetRound(ctx context.Context, roomID model.RoomID, round int, revealed bool) error
}

//go:generate mockery --name=PlayerRepository --output=./mocks/players --filename=players.go
type PlayerRepository interface {
	ClearVotedAll(ctx context.Context, roomID model.RoomID) error
}

//go:generate mockery --name=VoteRepository --output=./mocks/votes --filename=votes.go
type VoteRepository interface {
	DeleteAll(ctx context.Context, roomID model.RoomID) error
}

// Usecase drives the room document between its two states, Voting and
// Revealed. Every transition round-trips through the store; concurrent
// writers resolve last-write-wins, there are no version checks.
type Usecase struct {
	rooms   RoomRepository
	players PlayerRepository
	votes   VoteRepository
}

func New(
	rooms RoomRepository,
	players PlayerRepository,
	votes VoteRepository,
) *Usecase {
	return &Usecase{
		rooms:   rooms,
		players: players,
		votes:   votes,
	}
}

// EnterRoom returns the room for roomID, creating it when absent. The
// creating participant becomes facilitator for the room's lifetime;
// entering an existing room never touches facilitatorId or round.
func (u *Usecase) EnterRoom(ctx context.Context, roomID model.RoomID, participant model.ParticipantID) (model.Room, bool, error) {
	room, err := u.rooms.Get(ctx, roomID)
	if err == nil {
		return room, false, nil
	}
	if !errors.Is(err, ErrResourceNotFound) {
		return model.Room{}, false, errors.Join(ErrInternal, err)
	}

	room = model.NewRoom(participant)
	if err := u.rooms.Create(ctx, roomID, room); err != nil {
		return model.Room{}, false, errors.Join(ErrInternal, err)
	}
	return room, true, nil
}

// ToggleReveal writes the negation of the current revealed flag. Two
// concurrent toggles can race to an unintended final state; that is
// accepted. Missing room is a no-op.
func (u *Usecase) ToggleReveal(ctx context.Context, roomID model.RoomID) error {
	room, err := u.rooms.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil
		}
		return errors.Join(ErrInternal, err)
	}

	if err := u.rooms.SetRevealed(ctx, roomID, !room.Revealed); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil
		}
		return errors.Join(ErrInternal, err)
	}
	return nil
}

// Reset starts the next round: all votes gone, every player back to
// hasVoted=false, round+1, votes hidden. Facilitator-only is advisory;
// nothing here enforces it. Missing room is a no-op.
func (u *Usecase) Reset(ctx context.Context, roomID model.RoomID) error {
	room, err := u.rooms.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil
		}
		return errors.Join(ErrInternal, err)
	}

	if err := u.votes.DeleteAll(ctx, roomID); err != nil {
		return errors.Join(ErrInternal, err)
	}
	if err := u.players.ClearVotedAll(ctx, roomID); err != nil {
		return errors.Join(ErrInternal, err)
	}

	if err := u.rooms.SetRound(ctx, roomID, room.Round+1, false); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil
		}
		return errors.Join(ErrInternal, err)
	}
	return nil
}
