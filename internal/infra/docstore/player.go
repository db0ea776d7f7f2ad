package infra_docstore

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/RECTo0/PokerPlanning/internal/store"
)

type PlayerDriver struct {
	store store.Store
}

func NewPlayer(s store.Store) *PlayerDriver {
	return &PlayerDriver{store: s}
}

func decodePlayer(id string, doc store.Doc) model.Player {
	return model.Player{
		ID:       model.ParticipantID(id),
		Name:     asString(doc["name"]),
		Role:     model.ParseRole(asString(doc["role"])),
		HasVoted: asBool(doc["hasVoted"]),
		JoinedAt: store.ParseTime(doc["joinedAt"]),
	}
}

func (d *PlayerDriver) Upsert(ctx context.Context, roomID model.RoomID, player model.Player) error {
	return d.store.Merge(ctx, playersCollection(roomID), string(player.ID), store.Doc{
		"name":     player.Name,
		"role":     string(player.Role),
		"hasVoted": player.HasVoted,
		"joinedAt": store.ServerTimestamp,
	})
}

func (d *PlayerDriver) SetVoted(ctx context.Context, roomID model.RoomID, playerID model.ParticipantID, voted bool) error {
	return d.store.Merge(ctx, playersCollection(roomID), string(playerID), store.Doc{
		"hasVoted":  voted,
		"updatedAt": store.ServerTimestamp,
	})
}

// ClearVotedAll flips hasVoted off for every player still in the room.
// A player leaving mid-iteration is skipped, not an error.
func (d *PlayerDriver) ClearVotedAll(ctx context.Context, roomID model.RoomID) error {
	entries, err := d.store.List(ctx, playersCollection(roomID))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		err := d.store.Update(ctx, playersCollection(roomID), entry.ID, store.Doc{
			"hasVoted": false,
		})
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return nil
}

func (d *PlayerDriver) Delete(ctx context.Context, roomID model.RoomID, playerID model.ParticipantID) error {
	return d.store.Delete(ctx, playersCollection(roomID), string(playerID))
}

func (d *PlayerDriver) List(ctx context.Context, roomID model.RoomID) ([]model.Player, error) {
	entries, err := d.store.List(ctx, playersCollection(roomID))
	if err != nil {
		return nil, err
	}
	return decodeRoster(entries), nil
}

// Watch streams the roster ordered by display name.
func (d *PlayerDriver) Watch(roomID model.RoomID) (<-chan []model.Player, store.UnsubscribeFunc) {
	raw, unsub := d.store.WatchCollection(playersCollection(roomID))
	return relay(raw, unsub, func(entries []store.Entry) ([]model.Player, bool) {
		return decodeRoster(entries), true
	})
}

func decodeRoster(entries []store.Entry) []model.Player {
	players := make([]model.Player, 0, len(entries))
	for _, entry := range entries {
		players = append(players, decodePlayer(entry.ID, entry.Doc))
	}
	sort.SliceStable(players, func(i, j int) bool {
		return strings.ToLower(players[i].Name) < strings.ToLower(players[j].Name)
	})
	return players
}
