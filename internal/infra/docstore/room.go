package infra_docstore

import (
	"context"
	"errors"

	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/RECTo0/PokerPlanning/internal/store"
	usecase_room "github.com/RECTo0/PokerPlanning/internal/usecase/room"
)

type RoomDriver struct {
	store store.Store
}

func NewRoom(s store.Store) *RoomDriver {
	return &RoomDriver{store: s}
}

func decodeRoom(doc store.Doc) model.Room {
	round := asInt(doc["round"])
	if round < 1 {
		round = 1
	}
	return model.Room{
		CreatedAt:     store.ParseTime(doc["createdAt"]),
		Revealed:      asBool(doc["revealed"]),
		FacilitatorID: model.ParticipantID(asString(doc["facilitatorId"])),
		Round:         round,
	}
}

func (d *RoomDriver) Get(ctx context.Context, roomID model.RoomID) (model.Room, error) {
	doc, err := d.store.Get(ctx, roomsCollection, string(roomID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Room{}, usecase_room.ErrResourceNotFound
		}
		return model.Room{}, err
	}
	return decodeRoom(doc), nil
}

func (d *RoomDriver) Create(ctx context.Context, roomID model.RoomID, room model.Room) error {
	return d.store.Set(ctx, roomsCollection, string(roomID), store.Doc{
		"createdAt":     store.ServerTimestamp,
		"revealed":      room.Revealed,
		"facilitatorId": string(room.FacilitatorID),
		"round":         room.Round,
	})
}

func (d *RoomDriver) SetRevealed(ctx context.Context, roomID model.RoomID, revealed bool) error {
	err := d.store.Update(ctx, roomsCollection, string(roomID), store.Doc{
		"revealed": revealed,
	})
	if errors.Is(err, store.ErrNotFound) {
		return usecase_room.ErrResourceNotFound
	}
	return err
}

func (d *RoomDriver) SetRound(ctx context.Context, roomID model.RoomID, round int, revealed bool) error {
	err := d.store.Update(ctx, roomsCollection, string(roomID), store.Doc{
		"round":    round,
		"revealed": revealed,
	})
	if errors.Is(err, store.ErrNotFound) {
		return usecase_room.ErrResourceNotFound
	}
	return err
}

// Watch streams room states. Deleted rooms are skipped, the way the
// original clients ignored snapshots of missing documents.
func (d *RoomDriver) Watch(roomID model.RoomID) (<-chan model.Room, store.UnsubscribeFunc) {
	raw, unsub := d.store.WatchDoc(roomsCollection, string(roomID))
	return relay(raw, unsub, func(state store.DocState) (model.Room, bool) {
		if !state.Exists {
			return model.Room{}, false
		}
		return decodeRoom(state.Doc), true
	})
}
