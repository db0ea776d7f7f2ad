package usecase_roster

import (
	"context"
	"errors"

	"github.com/RECTo0/PokerPlanning/internal/model"
)

var (
	ErrEmptyName     = errors.New("display name required")
	ErrSelfKick      = errors.New("cannot kick yourself")
	ErrKickForbidden = errors.New("kick not permitted")
	ErrInternal      = errors.New("internal error")
)

// Policy selects who may remove other participants. Kicking yourself
// is always forbidden regardless of policy.
type Policy struct {
	EveryoneCanKick bool
}

func (p Policy) CanKick(actorIsFacilitator bool) bool {
	return p.EveryoneCanKick || actorIsFacilitator
}

//go:generate mockery --name=PlayerRepository --output=./mocks/players --filename=players.go
type PlayerRepository interface {
	Upsert(ctx context.Context, roomID model.RoomID, player model.Player) error
	Delete(ctx context.Context, roomID model.RoomID, playerID model.ParticipantID) error
}

//go:generate mockery --name=VoteRepository --output=./mocks/votes --filename=votes.go
type VoteRepository interface {
	Delete(ctx context.Context, roomID model.RoomID, playerID model.ParticipantID) error
}

type Usecase struct {
	players PlayerRepository
	votes   VoteRepository
	policy  Policy
}

func New(
	players PlayerRepository,
	votes VoteRepository,
	policy Policy,
) *Usecase {
	return &Usecase{
		players: players,
		votes:   votes,
		policy:  policy,
	}
}

// Join upserts the player document with merge semantics: rejoining
// under the same id updates in place, never duplicates.
func (u *Usecase) Join(ctx context.Context, roomID model.RoomID, player model.Player) error {
	if model.SanitizeName(player.Name) == "" {
		return ErrEmptyName
	}
	player.Name = model.SanitizeName(player.Name)
	player.HasVoted = false

	if err := u.players.Upsert(ctx, roomID, player); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

// Kick removes the target's vote and player documents. Cleanup is
// best-effort: a target that already left is not an error.
func (u *Usecase) Kick(ctx context.Context, roomID model.RoomID, actor model.ParticipantID, actorIsFacilitator bool, target model.ParticipantID) error {
	if target == actor {
		return ErrSelfKick
	}
	if !u.policy.CanKick(actorIsFacilitator) {
		return ErrKickForbidden
	}

	_ = u.votes.Delete(ctx, roomID, target)
	_ = u.players.Delete(ctx, roomID, target)
	return nil
}

// Leave is the self-serve variant of Kick, policy-free.
func (u *Usecase) Leave(ctx context.Context, roomID model.RoomID, self model.ParticipantID) error {
	_ = u.players.Delete(ctx, roomID, self)
	_ = u.votes.Delete(ctx, roomID, self)
	return nil
}
