package usecase_vote

import (
	"context"
	"errors"
	"fmt"

	"github.com/RECTo0/PokerPlanning/internal/model"
)

var (
	ErrObserverCannotVote = errors.New("observers cannot vote")
	ErrRoundRevealed      = errors.New("round already revealed")
	ErrUnknownCard        = errors.New("value is not in the deck")
	ErrUnableToSaveVote   = errors.New("unable to save vote")
)

//go:generate mockery --name=VoteRepository --output=./mocks/votes --filename=votes.go
type VoteRepository interface {
	Upsert(ctx context.Context, roomID model.RoomID, playerID model.ParticipantID, value string) error
}

//go:generate mockery --name=PlayerRepository --output=./mocks/players --filename=players.go
type PlayerRepository interface {
	SetVoted(ctx context.Context, roomID model.RoomID, playerID model.ParticipantID, voted bool) error
}

type Usecase struct {
	votes   VoteRepository
	players PlayerRepository
}

func New(
	votes VoteRepository,
	players PlayerRepository,
) *Usecase {
	return &Usecase{
		votes:   votes,
		players: players,
	}
}

// Cast upserts the caller's single vote document and marks the player
// as having voted. Validation runs against the caller's locally
// observed revealed flag; a reveal landing between the check and the
// write can still let a vote through. Accepted, same as toggling.
func (u *Usecase) Cast(ctx context.Context, roomID model.RoomID, caster model.Player, revealed bool, value string) error {
	if caster.Role != model.RolePlayer {
		return ErrObserverCannotVote
	}
	if revealed {
		return ErrRoundRevealed
	}
	if !model.InDeck(value) {
		return ErrUnknownCard
	}

	if err := u.votes.Upsert(ctx, roomID, caster.ID, value); err != nil {
		return fmt.Errorf("%w : %w", ErrUnableToSaveVote, err)
	}
	if err := u.players.SetVoted(ctx, roomID, caster.ID, true); err != nil {
		return fmt.Errorf("%w : %w", ErrUnableToSaveVote, err)
	}
	return nil
}
