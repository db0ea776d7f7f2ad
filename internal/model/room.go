package model

import "time"

// Room is the shared document every participant of a room observes.
// facilitatorId is assigned once at creation and never reassigned here.
type Room struct {
	CreatedAt     time.Time
	Revealed      bool
	FacilitatorID ParticipantID
	Round         int
}

func NewRoom(facilitator ParticipantID) Room {
	return Room{
		Revealed:      false,
		FacilitatorID: facilitator,
		Round:         1,
	}
}
