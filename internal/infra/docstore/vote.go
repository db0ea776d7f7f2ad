package infra_docstore

import (
	"context"

	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/RECTo0/PokerPlanning/internal/store"
)

type VoteDriver struct {
	store store.Store
}

func NewVote(s store.Store) *VoteDriver {
	return &VoteDriver{store: s}
}

func decodeVote(id string, doc store.Doc) model.Vote {
	return model.Vote{
		PlayerID:  model.ParticipantID(id),
		Value:     asString(doc["value"]),
		UpdatedAt: store.ParseTime(doc["updatedAt"]),
	}
}

func (d *VoteDriver) Upsert(ctx context.Context, roomID model.RoomID, playerID model.ParticipantID, value string) error {
	return d.store.Merge(ctx, votesCollection(roomID), string(playerID), store.Doc{
		"value":     value,
		"updatedAt": store.ServerTimestamp,
	})
}

func (d *VoteDriver) Delete(ctx context.Context, roomID model.RoomID, playerID model.ParticipantID) error {
	return d.store.Delete(ctx, votesCollection(roomID), string(playerID))
}

func (d *VoteDriver) DeleteAll(ctx context.Context, roomID model.RoomID) error {
	entries, err := d.store.List(ctx, votesCollection(roomID))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := d.store.Delete(ctx, votesCollection(roomID), entry.ID); err != nil {
			return err
		}
	}
	return nil
}

func (d *VoteDriver) List(ctx context.Context, roomID model.RoomID) ([]model.Vote, error) {
	entries, err := d.store.List(ctx, votesCollection(roomID))
	if err != nil {
		return nil, err
	}
	return decodeVotes(entries), nil
}

func (d *VoteDriver) Watch(roomID model.RoomID) (<-chan []model.Vote, store.UnsubscribeFunc) {
	raw, unsub := d.store.WatchCollection(votesCollection(roomID))
	return relay(raw, unsub, func(entries []store.Entry) ([]model.Vote, bool) {
		return decodeVotes(entries), true
	})
}

func decodeVotes(entries []store.Entry) []model.Vote {
	votes := make([]model.Vote, 0, len(entries))
	for _, entry := range entries {
		votes = append(votes, decodeVote(entry.ID, entry.Doc))
	}
	return votes
}
