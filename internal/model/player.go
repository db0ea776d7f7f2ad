package model

import "time"

type Role string

const (
	RolePlayer   Role = "player"
	RoleObserver Role = "observer"
)

func ParseRole(s string) Role {
	if s == string(RoleObserver) {
		return RoleObserver
	}
	return RolePlayer
}

type Player struct {
	ID       ParticipantID
	Name     string
	Role     Role
	HasVoted bool
	JoinedAt time.Time
}
