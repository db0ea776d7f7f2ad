package model

import "time"

// Vote is keyed by participant id within a room, one live vote per
// participant. Recasting overwrites, never appends.
type Vote struct {
	PlayerID  ParticipantID
	Value     string
	UpdatedAt time.Time
}
