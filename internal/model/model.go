package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RoomID string

const EmptyRoomID RoomID = ""

const maxRoomIDLen = 40

// SanitizeRoomID normalizes free-text input into a room id: lowercase,
// anything outside [a-z0-9-_] becomes '-', capped at 40 characters.
// Idempotent over its own output.
func SanitizeRoomID(s string) RoomID {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}

	out := b.String()
	if len(out) > maxRoomIDLen {
		out = out[:maxRoomIDLen]
	}
	return RoomID(out)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomRoomID builds a fallback id for empty input, "room-" plus
// 6 base36 characters.
func RandomRoomID() RoomID {
	var b strings.Builder
	b.WriteString("room-")
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36))))
		if err != nil {
			b.WriteByte(base36[time.Now().UnixNano()%int64(len(base36))])
			continue
		}
		b.WriteByte(base36[n.Int64()])
	}
	return RoomID(b.String())
}

type ParticipantID string

const EmptyParticipantID ParticipantID = ""

// NewParticipantID returns a random participant id. UUIDv4 normally;
// if the entropy source fails, timestamp plus random hex.
func NewParticipantID() ParticipantID {
	id, err := uuid.NewRandom()
	if err != nil {
		buf := make([]byte, 8)
		_, _ = rand.Read(buf)
		return ParticipantID(fmt.Sprintf("%d%s", time.Now().UnixMilli(), hex.EncodeToString(buf)))
	}
	return ParticipantID(id.String())
}

const MaxNameLen = 24

// SanitizeName trims and caps a display name. Empty result means the
// name is unusable and join must be refused.
func SanitizeName(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > MaxNameLen {
		s = string(r[:MaxNameLen])
	}
	return s
}
